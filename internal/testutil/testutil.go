// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ludicboard/ludicboard-api/internal/database"
	"github.com/ludicboard/ludicboard-api/internal/models"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject creates a project owned by owner.
func CreateProject(t testing.TB, db *gorm.DB, name string, owner *models.User) *models.Project {
	t.Helper()
	project := &models.Project{Name: name}
	require.NoError(t, db.Create(project).Error)
	AddMember(t, db, project.ID, owner.ID, models.RoleOwner)
	return project
}

func AddMember(t testing.TB, db *gorm.DB, projectID, userID uint64, role models.ProjectRole) {
	t.Helper()
	require.NoError(t, db.Create(&models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}).Error)
}

// CreateTask creates a task in projectID authored by authorID and assigned to assignees.
func CreateTask(t testing.TB, db *gorm.DB, projectID, authorID uint64, title string, assignees ...uint64) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:        title,
		Status:       models.TaskStatusToDo,
		Priority:     models.PriorityBacklog,
		ProjectID:    projectID,
		AuthorUserID: authorID,
	}
	require.NoError(t, db.Create(task).Error)
	for _, id := range assignees {
		require.NoError(t, db.Create(&models.TaskAssignment{TaskID: task.ID, UserID: id}).Error)
	}
	return task
}

func CreateComment(t testing.TB, db *gorm.DB, taskID, userID uint64, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{TaskID: taskID, UserID: userID, Text: text}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func CreateAttachment(t testing.TB, db *gorm.DB, taskID, userID uint64) *models.Attachment {
	t.Helper()
	att := &models.Attachment{
		TaskID:       taskID,
		UploadedByID: userID,
		FileName:     fmt.Sprintf("file-%d.png", taskID),
		FileURL:      fmt.Sprintf("https://files.example.com/%d.png", taskID),
	}
	require.NoError(t, db.Create(att).Error)
	return att
}

// Count returns the number of rows of model matching the optional condition.
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
