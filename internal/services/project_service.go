package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/events"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
	"github.com/ludicboard/ludicboard-api/internal/repository"
)

// Actor is the caller of a project operation together with their role in it.
type Actor struct {
	UserID uint64
	Role   models.ProjectRole
}

// ProjectService provides business logic for projects and memberships.
type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	teams    repository.TeamRepository
	events   events.Publisher
	log      *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projects repository.ProjectRepository,
	users repository.UserRepository,
	teams repository.TeamRepository,
	publisher events.Publisher,
	log *zap.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, users: users, teams: teams, events: publisher, log: log}
}

// RoleOf loads the project and the caller's role in it. A missing project is
// a 404 and a missing membership a 403.
func (s *ProjectService) RoleOf(ctx context.Context, projectID, userID uint64) (*models.Project, models.ProjectRole, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", apierrors.NotFound("Project not found")
		}
		return nil, "", apierrors.Internal(err)
	}

	member, err := s.projects.FindMembership(ctx, projectID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", apierrors.Forbidden("You do not have access to this project")
		}
		return nil, "", apierrors.Internal(err)
	}
	return project, member.Role, nil
}

// List returns the caller's memberships with their projects.
func (s *ProjectService) List(ctx context.Context, userID uint64) ([]models.ProjectMembership, error) {
	memberships, err := s.projects.ListMemberships(ctx, userID)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	return memberships, nil
}

type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	TeamID      *uint64
	OwnerID     uint64
}

// Create creates the project with the caller as its owner.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if n := len([]rune(name)); n < constants.MinProjectNameLength || n > constants.MaxProjectNameLength {
		return nil, apierrors.BadRequest("Project name must be between 3 and 50 characters")
	}
	if len([]rune(input.Description)) > constants.MaxProjectDescLength {
		return nil, apierrors.BadRequest("Description must be at most 500 characters")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apierrors.BadRequest("End date cannot be before start date")
	}
	if input.TeamID != nil {
		if _, err := s.teams.FindByID(ctx, *input.TeamID); err != nil {
			if repository.IsNotFound(err) {
				return nil, apierrors.NotFound("Team not found")
			}
			return nil, apierrors.Internal(err)
		}
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.projects.CreateWithOwner(ctx, project, input.OwnerID, input.TeamID); err != nil {
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Project created", zap.Uint64("project_id", project.ID), zap.Uint64("owner_id", input.OwnerID))
	s.events.Publish(ctx, events.Event{Type: events.ProjectCreated, ActorID: input.OwnerID, ProjectID: project.ID})
	return project, nil
}

// Members lists the project's memberships with their users.
func (s *ProjectService) Members(ctx context.Context, projectID uint64) ([]models.ProjectMembership, error) {
	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	return members, nil
}

// Delete removes the project and everything in it. Owners only.
func (s *ProjectService) Delete(ctx context.Context, actor Actor, projectID uint64) error {
	if !policy.CanDeleteProject(actor.Role) {
		return insufficientRole()
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		if repository.IsNotFound(err) {
			return apierrors.NotFound("Project not found")
		}
		s.log.Error("Project delete failed", zap.Uint64("project_id", projectID), zap.Error(err))
		return apierrors.Internal(err)
	}

	s.log.Info("Project deleted", zap.Uint64("project_id", projectID), zap.Uint64("actor_id", actor.UserID))
	s.events.Publish(ctx, events.Event{Type: events.ProjectDeleted, ActorID: actor.UserID, ProjectID: projectID})
	return nil
}

// AddMember grants role to userID.
func (s *ProjectService) AddMember(ctx context.Context, actor Actor, projectID, userID uint64, role models.ProjectRole) (*models.ProjectMembership, error) {
	if !policy.CanGrantRole(actor.Role, "", role) {
		return nil, insufficientRole()
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.NotFound("User not found")
		}
		return nil, apierrors.Internal(err)
	}

	member := &models.ProjectMembership{ProjectID: projectID, UserID: userID, Role: role}
	if err := s.projects.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return nil, apierrors.Wrap(err, http.StatusConflict, apierrors.ErrCodeAlreadyExists, "User is already a member of this project")
		}
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Member added",
		zap.Uint64("project_id", projectID),
		zap.Uint64("user_id", userID),
		zap.String("role", string(role)),
	)
	s.events.Publish(ctx, events.Event{Type: events.MemberAdded, ActorID: actor.UserID, ProjectID: projectID, UserID: userID})
	return member, nil
}

// UpdateMemberRole changes a member's role without leaving the project ownerless.
func (s *ProjectService) UpdateMemberRole(ctx context.Context, actor Actor, projectID, userID uint64, role models.ProjectRole) error {
	current, err := s.membership(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !policy.CanGrantRole(actor.Role, current.Role, role) {
		return insufficientRole()
	}

	if err := s.projects.UpdateMemberRole(ctx, projectID, userID, role); err != nil {
		return membershipError(err)
	}

	s.log.Info("Member role changed",
		zap.Uint64("project_id", projectID),
		zap.Uint64("user_id", userID),
		zap.String("role", string(role)),
	)
	s.events.Publish(ctx, events.Event{Type: events.MemberUpdated, ActorID: actor.UserID, ProjectID: projectID, UserID: userID})
	return nil
}

// RemoveMember deletes a membership without leaving the project ownerless.
func (s *ProjectService) RemoveMember(ctx context.Context, actor Actor, projectID, userID uint64) error {
	current, err := s.membership(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !policy.CanRemoveMember(actor.Role, current.Role) {
		return insufficientRole()
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return membershipError(err)
	}

	s.log.Info("Member removed", zap.Uint64("project_id", projectID), zap.Uint64("user_id", userID))
	s.events.Publish(ctx, events.Event{Type: events.MemberRemoved, ActorID: actor.UserID, ProjectID: projectID, UserID: userID})
	return nil
}

func (s *ProjectService) membership(ctx context.Context, projectID, userID uint64) (*models.ProjectMembership, error) {
	member, err := s.projects.FindMembership(ctx, projectID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.NotFound("Member not found")
		}
		return nil, apierrors.Internal(err)
	}
	return member, nil
}

func membershipError(err error) error {
	switch {
	case errors.Is(err, repository.ErrLastOwner):
		return apierrors.Wrap(err, http.StatusConflict, apierrors.ErrCodeLastOwner, "cannot remove last owner")
	case repository.IsNotFound(err):
		return apierrors.NotFound("Member not found")
	}
	return apierrors.Internal(err)
}

func insufficientRole() *apierrors.AppError {
	return apierrors.New(http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions, "Insufficient project role permissions")
}
