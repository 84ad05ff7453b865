package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) CreateWithOwner(ctx context.Context, project *models.Project, ownerID uint64, teamID *uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		owner := &models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
			JoinedAt:  time.Now().UTC(),
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		if teamID != nil {
			link := &models.ProjectTeam{TeamID: *teamID, ProjectID: project.ID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes, in order, assignments, comments, attachments, tasks,
// team links, memberships and finally the project itself.
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := deleteTaskChildren(tx, taskIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTeam{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// deleteTaskChildren removes the rows that reference the given tasks.
func deleteTaskChildren(tx *gorm.DB, taskIDs []uint64) error {
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return tx.Where("task_id IN ?", taskIDs).Delete(&models.Attachment{}).Error
}

func (r *GormProjectRepository) ListMemberships(ctx context.Context, userID uint64) ([]models.ProjectMembership, error) {
	memberships := []models.ProjectMembership{}
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("project_id").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *GormProjectRepository) MemberProjectIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := []uint64{}
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectMembership{}).
		Where("user_id = ?", userID).
		Order("project_id").
		Pluck("project_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormProjectRepository) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMembership, error) {
	members := []models.ProjectMembership{}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("user_id").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *GormProjectRepository) FindMembership(ctx context.Context, projectID, userID uint64) (*models.ProjectMembership, error) {
	var member models.ProjectMembership
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember inserts the membership. The (project_id, user_id) key rejects a
// second row for the same user, including one inserted concurrently.
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMembership) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Create(member).Error
	if IsDuplicate(err) {
		return ErrAlreadyMember
	}
	return err
}

func (r *GormProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForOwnershipChange(tx, projectID, userID, role); err != nil {
			return err
		}
		return tx.Model(&models.ProjectMembership{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Update("role", role).Error
	})
}

func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForOwnershipChange(tx, projectID, userID, ""); err != nil {
			return err
		}
		return tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMembership{}).Error
	})
}

func (r *GormProjectRepository) CountMembers(ctx context.Context, projectID uint64, userIDs []uint64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id IN ?", projectID, userIDs).
		Count(&count).Error
	return count, err
}

// forUpdate row-locks the selected rows on databases that support it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockForOwnershipChange locks the project's owner rows, ordered by user_id,
// and then the target membership, and fails with ErrLastOwner when moving
// the target to next would leave the project without an owner. Role changes
// and removals all take the locks in this order.
func lockForOwnershipChange(tx *gorm.DB, projectID, userID uint64, next models.ProjectRole) error {
	var owners []uint64
	if err := forUpdate(tx).
		Model(&models.ProjectMembership{}).
		Where("project_id = ? AND role = ?", projectID, models.RoleOwner).
		Order("user_id").
		Pluck("user_id", &owners).Error; err != nil {
		return err
	}

	var member models.ProjectMembership
	if err := forUpdate(tx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return err
	}

	if !policy.LeavesOwner(int64(len(owners)), member.Role, next) {
		return ErrLastOwner
	}
	return nil
}

// IsNotFound reports whether err is a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique or primary key violation. It
// needs TranslateError set on the gorm.Config.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
