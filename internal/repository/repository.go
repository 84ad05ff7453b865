package repository

import (
	"context"
	"errors"

	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/utils"
)

var (
	// ErrLastOwner is returned when a change would leave a project without an owner.
	ErrLastOwner = errors.New("cannot remove last owner")
	// ErrAlreadyMember is returned when adding a user who already has a membership.
	ErrAlreadyMember = errors.New("user is already a member of the project")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Update saves the user's own columns.
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates the project, the owner membership and the optional
	// team link in one transaction.
	CreateWithOwner(ctx context.Context, project *models.Project, ownerID uint64, teamID *uint64) error
	FindByID(ctx context.Context, id uint64) (*models.Project, error)
	// Delete removes the project and everything under it in one transaction.
	Delete(ctx context.Context, id uint64) error

	// ListMemberships returns the caller's memberships with their projects.
	ListMemberships(ctx context.Context, userID uint64) ([]models.ProjectMembership, error)
	// MemberProjectIDs returns the ids of projects userID belongs to.
	MemberProjectIDs(ctx context.Context, userID uint64) ([]uint64, error)
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMembership, error)
	FindMembership(ctx context.Context, projectID, userID uint64) (*models.ProjectMembership, error)
	AddMember(ctx context.Context, member *models.ProjectMembership) error
	// UpdateMemberRole and RemoveMember return ErrLastOwner instead of leaving
	// the project without an owner.
	UpdateMemberRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error
	RemoveMember(ctx context.Context, projectID, userID uint64) error
	// CountMembers counts how many of userIDs belong to the project.
	CountMembers(ctx context.Context, projectID uint64, userIDs []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts the task and its assignment rows in one transaction.
	Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error
	// FindByID loads the task with its assignments.
	FindByID(ctx context.Context, id uint64) (*models.Task, error)
	// FindDetailed loads the task with author, assignees, comments and attachments.
	FindDetailed(ctx context.Context, id uint64) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uint64) ([]models.Task, error)
	// ListForUser returns tasks authored by or assigned to userID within projectIDs.
	ListForUser(ctx context.Context, userID uint64, projectIDs []uint64) ([]models.Task, error)
	// Update writes fields and, when assigneeIDs is non-nil, replaces the assignee set.
	Update(ctx context.Context, taskID uint64, fields map[string]interface{}, assigneeIDs []uint64) error
	AssignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error
	UnassignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error
	// Delete removes the task with its assignments, comments and attachments.
	Delete(ctx context.Context, id uint64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)
	UpdateText(ctx context.Context, id uint64, text string) error
	Delete(ctx context.Context, id uint64) error
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	FindByID(ctx context.Context, id uint64) (*models.Attachment, error)
	Delete(ctx context.Context, id uint64) error
}

type TeamRepository interface {
	FindByID(ctx context.Context, id uint64) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
}

// SearchRepository runs the case-insensitive substring queries behind search.
type SearchRepository interface {
	SearchTasks(ctx context.Context, query string, projectIDs []uint64, limit int) ([]models.Task, error)
	SearchProjects(ctx context.Context, query string, projectIDs []uint64, limit int) ([]models.Project, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
}
