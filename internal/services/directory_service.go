package services

import (
	"context"

	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/repository"
	"github.com/ludicboard/ludicboard-api/internal/utils"
)

// DirectoryService lists users and teams.
type DirectoryService struct {
	users repository.UserRepository
	teams repository.TeamRepository
}

func NewDirectoryService(users repository.UserRepository, teams repository.TeamRepository) *DirectoryService {
	return &DirectoryService{users: users, teams: teams}
}

func (s *DirectoryService) ListUsers(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, params)
	if err != nil {
		return nil, 0, apierrors.Internal(err)
	}
	return users, total, nil
}

func (s *DirectoryService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	return teams, nil
}
