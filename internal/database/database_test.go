package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ludicboard/ludicboard-api/internal/config"
	"github.com/ludicboard/ludicboard-api/internal/database"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite} {
		d, err := database.Dialector(config.DBConfig{Driver: driver, Path: "test.db"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := database.Dialector(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_CreatesIndexesOnce(t *testing.T) {
	db := testutil.NewDB(t)

	assert.True(t, db.Migrator().HasIndex("project_memberships", "idx_project_memberships_project_role"))
	assert.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_project_status"))

	// second run must skip existing indexes
	require.NoError(t, database.Migrate(db, zap.NewNop()))
}

func TestContainsAny_EscapesWildcards(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	p := testutil.CreateProject(t, db, "p", owner)
	testutil.CreateTask(t, db, p.ID, owner.ID, "100% done")
	testutil.CreateTask(t, db, p.ID, owner.ID, "100 items")
	testutil.CreateTask(t, db, p.ID, owner.ID, "snake_case")
	testutil.CreateTask(t, db, p.ID, owner.ID, "snakeXcase")

	var tasks []models.Task
	require.NoError(t, db.Scopes(database.ContainsAny("0%", "title")).Find(&tasks).Error)
	require.Len(t, tasks, 1)
	assert.Equal(t, "100% done", tasks[0].Title)

	tasks = nil
	require.NoError(t, db.Scopes(database.ContainsAny("E_C", "title", "description")).Find(&tasks).Error)
	require.Len(t, tasks, 1)
	assert.Equal(t, "snake_case", tasks[0].Title)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%a!%b!_c!!%", database.ContainsPattern("A%b_C!"))
}
