package services

import (
	"context"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/repository"
	"github.com/ludicboard/ludicboard-api/internal/search"
)

type SearchResults struct {
	Tasks    []models.Task
	Projects []models.Project
	Users    []models.User
}

// SearchService finds tasks, projects and users by substring and ranks them.
type SearchService struct {
	search   repository.SearchRepository
	projects repository.ProjectRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(searchRepo repository.SearchRepository, projects repository.ProjectRepository) *SearchService {
	return &SearchService{search: searchRepo, projects: projects}
}

// Search returns empty results without touching the database when the
// trimmed query is too short.
func (s *SearchService) Search(ctx context.Context, userID uint64, raw string) (*SearchResults, error) {
	results := &SearchResults{
		Tasks:    []models.Task{},
		Projects: []models.Project{},
		Users:    []models.User{},
	}

	query, ok := search.NormalizeQuery(raw, constants.MinSearchQueryLength)
	if !ok {
		return results, nil
	}

	projectIDs, err := s.projects.MemberProjectIDs(ctx, userID)
	if err != nil {
		return nil, apierrors.Internal(err)
	}

	tasks, err := s.search.SearchTasks(ctx, query, projectIDs, constants.SearchResultLimit)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	projects, err := s.search.SearchProjects(ctx, query, projectIDs, constants.SearchResultLimit)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	users, err := s.search.SearchUsers(ctx, query, constants.SearchResultLimit)
	if err != nil {
		return nil, apierrors.Internal(err)
	}

	results.Tasks = search.Rank(tasks, query, func(t models.Task) []string {
		return []string{t.Title, t.Description}
	})
	results.Projects = search.Rank(projects, query, func(p models.Project) []string {
		return []string{p.Name, p.Description}
	})
	results.Users = search.Rank(users, query, func(u models.User) []string {
		return []string{u.Username, u.Email}
	})
	return results, nil
}
