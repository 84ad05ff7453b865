package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ludicboard/ludicboard-api/internal/models"
)

type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List returns every team with its product owner and project manager.
func (r *GormTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	teams := []models.Team{}
	if err := r.db.WithContext(ctx).
		Preload("ProductOwner").
		Preload("ProjectManager").
		Order("id").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}
