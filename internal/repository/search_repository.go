package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludicboard/ludicboard-api/internal/database"
	"github.com/ludicboard/ludicboard-api/internal/models"
)

// GormSearchRepository matches rows with LOWER(col) LIKE, returning at most
// limit rows per kind in id order.
type GormSearchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &GormSearchRepository{db: db}
}

func (r *GormSearchRepository) SearchTasks(ctx context.Context, query string, projectIDs []uint64, limit int) ([]models.Task, error) {
	tasks := []models.Task{}
	if len(projectIDs) == 0 {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Scopes(database.ContainsAny(query, "title", "description")).
		Order("id").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *GormSearchRepository) SearchProjects(ctx context.Context, query string, projectIDs []uint64, limit int) ([]models.Project, error) {
	projects := []models.Project{}
	if len(projectIDs) == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", projectIDs).
		Scopes(database.ContainsAny(query, "name", "description")).
		Order("id").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *GormSearchRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Scopes(database.ContainsAny(query, "username", "email")).
		Order("id").
		Limit(limit).
		Find(&users).Error
	return users, err
}
