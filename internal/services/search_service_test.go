package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/repository"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

func TestSearchService_RanksByRelevance(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice")
	stranger := testutil.CreateUser(t, env.db, "stranger")

	descOnly := &models.Project{Name: "Website", Description: "internal proj tracker"}
	require.NoError(t, env.db.Create(descOnly).Error)
	testutil.AddMember(t, env.db, descOnly.ID, alice.ID, models.RoleMember)
	alpha := testutil.CreateProject(t, env.db, "Project Alpha", alice)
	hidden := testutil.CreateProject(t, env.db, "Project Hidden", stranger)
	testutil.CreateTask(t, env.db, hidden.ID, stranger.ID, "proj secret")

	results, err := env.search.Search(ctx, alice.ID, "  proj ")
	require.NoError(t, err)

	require.Len(t, results.Projects, 2)
	assert.Equal(t, alpha.ID, results.Projects[0].ID)
	assert.Equal(t, descOnly.ID, results.Projects[1].ID)
	assert.Empty(t, results.Tasks)

	again, err := env.search.Search(ctx, alice.ID, "proj")
	require.NoError(t, err)
	assert.Equal(t, results.Projects, again.Projects)
}

func TestSearchService_UsersAreUnscoped(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice")
	testutil.CreateUser(t, env.db, "malice")

	results, err := env.search.Search(context.Background(), alice.ID, "alice")
	require.NoError(t, err)
	require.Len(t, results.Users, 2)
	assert.Equal(t, "alice", results.Users[0].Username)
}

func TestSearchService_ShortQueryIssuesNoQuery(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	svc := NewSearchService(repository.NewSearchRepository(db), repository.NewProjectRepository(db))

	for _, q := range []string{"a", "  a  ", "", " "} {
		results, err := svc.Search(context.Background(), 1, q)
		require.NoError(t, err)
		assert.Empty(t, results.Tasks)
		assert.Empty(t, results.Projects)
		assert.Empty(t, results.Users)
		assert.NotNil(t, results.Tasks)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
