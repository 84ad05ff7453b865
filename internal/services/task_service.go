package services

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/events"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
	"github.com/ludicboard/ludicboard-api/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	suggester TaskSuggester
	policy    policy.TaskPolicy
	events    events.Publisher
	log       *zap.Logger
}

// NewTaskService creates a new TaskService. suggester may be nil when no AI
// backend is configured.
func NewTaskService(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	suggester TaskSuggester,
	publisher events.Publisher,
	log *zap.Logger,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		suggester: suggester,
		events:    publisher,
		log:       log,
	}
}

// Access loads the task and works out the caller's tier on it.
func (s *TaskService) Access(ctx context.Context, taskID, actorID uint64) (*models.Task, policy.TaskAccess, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, policy.TaskAccess{}, apierrors.NotFound("Task not found")
		}
		return nil, policy.TaskAccess{}, apierrors.Internal(err)
	}

	var role models.ProjectRole
	member, err := s.projects.FindMembership(ctx, task.ProjectID, actorID)
	switch {
	case err == nil:
		role = member.Role
	case !repository.IsNotFound(err):
		return nil, policy.TaskAccess{}, apierrors.Internal(err)
	}

	tier, ok := policy.ResolveTaskTier(actorID, policy.TaskFacts{
		AuthorID:    task.AuthorUserID,
		AssigneeIDs: task.AssigneeIDs(),
		ActorRole:   role,
	})
	if !ok {
		return nil, policy.TaskAccess{}, apierrors.Forbidden("You do not have permission to access this task")
	}
	return task, policy.TaskAccess{Tier: tier, ActorRole: role}, nil
}

// Get returns the task with everything a response renders.
func (s *TaskService) Get(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindDetailed(ctx, taskID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.NotFound("Task not found")
		}
		return nil, apierrors.Internal(err)
	}
	return task, nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uint64) ([]models.Task, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	return tasks, nil
}

// ListForUser returns tasks authored by or assigned to userID, limited to
// projects the caller belongs to.
func (s *TaskService) ListForUser(ctx context.Context, callerID, userID uint64) ([]models.Task, error) {
	projectIDs, err := s.projects.MemberProjectIDs(ctx, callerID)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	tasks, err := s.tasks.ListForUser(ctx, userID, projectIDs)
	if err != nil {
		return nil, apierrors.Internal(err)
	}
	return tasks, nil
}

// CreateTaskInput is a new task as requested by ActorID. AssignedUserID and
// AssignedUserIDs are merged into one assignee set.
type CreateTaskInput struct {
	ActorID         uint64
	ProjectID       uint64
	Title           string
	Description     string
	Status          models.TaskStatus
	Priority        models.TaskPriority
	Tags            []string
	StartDate       *time.Time
	DueDate         *time.Time
	Points          *int
	AuthorUserID    *uint64
	AssignedUserID  *uint64
	AssignedUserIDs []uint64
}

// Create inserts a task authored by the caller together with its assignees.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	role, err := s.projectRole(ctx, input.ProjectID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTask(role) {
		return nil, insufficientRole()
	}
	if input.AuthorUserID != nil && *input.AuthorUserID != input.ActorID {
		return nil, apierrors.Forbidden("authorUserId must match the authenticated user")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierrors.BadRequest("Title is required")
	}
	if input.Status == "" {
		input.Status = models.TaskStatusToDo
	}
	if input.Priority == "" {
		input.Priority = models.PriorityBacklog
	}
	if err := validateTaskFields(&input.Status, &input.Priority, input.StartDate, input.DueDate, input.Points); err != nil {
		return nil, err
	}

	assignees := mergeAssignees(input.AssignedUserID, input.AssignedUserIDs)
	if err := s.ensureMembers(ctx, input.ProjectID, assignees); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		Tags:         normalizeTags(input.Tags),
		StartDate:    input.StartDate,
		DueDate:      input.DueDate,
		Points:       input.Points,
		ProjectID:    input.ProjectID,
		AuthorUserID: input.ActorID,
	}
	if err := s.tasks.Create(ctx, task, assignees); err != nil {
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Task created",
		zap.Uint64("task_id", task.ID),
		zap.Uint64("project_id", task.ProjectID),
		zap.Int("assignees", len(assignees)),
	)
	s.events.Publish(ctx, events.Event{Type: events.TaskCreated, ActorID: input.ActorID, ProjectID: task.ProjectID, TaskID: task.ID})
	return s.Get(ctx, task.ID)
}

// UpdateTaskInput holds the fields to change; nil means unchanged.
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Status          *models.TaskStatus
	Priority        *models.TaskPriority
	Tags            *[]string
	StartDate       *time.Time
	DueDate         *time.Time
	ClearDueDate    bool
	Points          *int
	AssignedUserID  *uint64
	AssignedUserIDs *[]uint64
}

// Update applies a partial edit. Author only.
func (s *TaskService) Update(ctx context.Context, actorID uint64, task *models.Task, access policy.TaskAccess, input UpdateTaskInput) (*models.Task, error) {
	if !s.policy.CanEdit(actorID, access) {
		return nil, apierrors.Forbidden("Only the task author can edit this task")
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apierrors.BadRequest("Title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](normalizeTags(*input.Tags))
	}
	if input.Points != nil {
		fields["points"] = *input.Points
	}

	start, due := task.StartDate, task.DueDate
	if input.StartDate != nil {
		start = input.StartDate
		fields["start_date"] = input.StartDate
	}
	if input.ClearDueDate {
		due = nil
		fields["due_date"] = nil
	} else if input.DueDate != nil {
		due = input.DueDate
		fields["due_date"] = input.DueDate
	}
	if err := validateTaskFields(input.Status, input.Priority, start, due, input.Points); err != nil {
		return nil, err
	}

	var assignees []uint64
	if input.AssignedUserIDs != nil || input.AssignedUserID != nil {
		var ids []uint64
		if input.AssignedUserIDs != nil {
			ids = *input.AssignedUserIDs
		}
		assignees = mergeAssignees(input.AssignedUserID, ids)
		if err := s.ensureMembers(ctx, task.ProjectID, assignees); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, task.ID, fields, assignees); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.NotFound("Task not found")
		}
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Task updated", zap.Uint64("task_id", task.ID), zap.Uint64("actor_id", actorID))
	s.events.Publish(ctx, events.Event{Type: events.TaskUpdated, ActorID: actorID, ProjectID: task.ProjectID, TaskID: task.ID})
	return s.Get(ctx, task.ID)
}

// UpdateStatus is open to the author and the assignees.
func (s *TaskService) UpdateStatus(ctx context.Context, actorID uint64, task *models.Task, access policy.TaskAccess, status models.TaskStatus) (*models.Task, error) {
	if !s.policy.CanChangeStatus(actorID, access) {
		return nil, apierrors.Forbidden("Only the task author or an assignee can change the status")
	}
	if !status.Valid() {
		return nil, apierrors.BadRequest("Invalid task status")
	}

	if err := s.tasks.Update(ctx, task.ID, map[string]interface{}{"status": status}, nil); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierrors.NotFound("Task not found")
		}
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Task status changed", zap.Uint64("task_id", task.ID), zap.String("status", string(status)))
	s.events.Publish(ctx, events.Event{Type: events.TaskUpdated, ActorID: actorID, ProjectID: task.ProjectID, TaskID: task.ID})
	return s.Get(ctx, task.ID)
}

// Assign adds project members to the task's assignees.
func (s *TaskService) Assign(ctx context.Context, actorID uint64, task *models.Task, access policy.TaskAccess, userIDs []uint64) (*models.Task, error) {
	if !s.policy.CanChangeStatus(actorID, access) {
		return nil, apierrors.Forbidden("Only the task author or an assignee can change assignees")
	}
	ids := uniqueSorted(userIDs)
	if len(ids) == 0 {
		return nil, apierrors.BadRequest("At least one user ID is required")
	}
	if err := s.ensureMembers(ctx, task.ProjectID, ids); err != nil {
		return nil, err
	}

	if err := s.tasks.AssignUsers(ctx, task.ID, ids); err != nil {
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Task assigned", zap.Uint64("task_id", task.ID), zap.Uint64s("user_ids", ids))
	s.events.Publish(ctx, events.Event{Type: events.TaskUpdated, ActorID: actorID, ProjectID: task.ProjectID, TaskID: task.ID})
	return s.Get(ctx, task.ID)
}

func (s *TaskService) Unassign(ctx context.Context, actorID uint64, task *models.Task, access policy.TaskAccess, userIDs []uint64) (*models.Task, error) {
	if !s.policy.CanChangeStatus(actorID, access) {
		return nil, apierrors.Forbidden("Only the task author or an assignee can change assignees")
	}
	ids := uniqueSorted(userIDs)
	if len(ids) == 0 {
		return nil, apierrors.BadRequest("At least one user ID is required")
	}

	if err := s.tasks.UnassignUsers(ctx, task.ID, ids); err != nil {
		return nil, apierrors.Internal(err)
	}

	s.log.Info("Task unassigned", zap.Uint64("task_id", task.ID), zap.Uint64s("user_ids", ids))
	s.events.Publish(ctx, events.Event{Type: events.TaskUpdated, ActorID: actorID, ProjectID: task.ProjectID, TaskID: task.ID})
	return s.Get(ctx, task.ID)
}

// Delete removes the task with its comments, attachments and assignments. Author only.
func (s *TaskService) Delete(ctx context.Context, actorID uint64, task *models.Task, access policy.TaskAccess) error {
	if !s.policy.CanDelete(actorID, access) {
		return apierrors.Forbidden("Only the task author can delete this task")
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		if repository.IsNotFound(err) {
			return apierrors.NotFound("Task not found")
		}
		s.log.Error("Task delete failed", zap.Uint64("task_id", task.ID), zap.Error(err))
		return apierrors.Internal(err)
	}

	s.log.Info("Task deleted", zap.Uint64("task_id", task.ID), zap.Uint64("actor_id", actorID))
	s.events.Publish(ctx, events.Event{Type: events.TaskDeleted, ActorID: actorID, ProjectID: task.ProjectID, TaskID: task.ID})
	return nil
}

// GenerateTasks asks the suggester for tasks found in text. Nothing is stored.
func (s *TaskService) GenerateTasks(ctx context.Context, actorID, projectID uint64, text string) ([]GeneratedTask, error) {
	if s.suggester == nil {
		return nil, apierrors.ServiceUnavailable("AI service is not configured")
	}

	role, err := s.projectRole(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTask(role) {
		return nil, insufficientRole()
	}
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.BadRequest("Text is required")
	}

	suggested, err := s.suggester.GenerateTasksFromText(ctx, text)
	if err != nil {
		s.log.Error("Task generation failed", zap.Error(err))
		return nil, apierrors.Wrap(err, http.StatusBadGateway, apierrors.ErrCodeServiceUnavailable, "Failed to generate tasks")
	}
	if len(suggested) > constants.MaxAIGeneratedTasks {
		suggested = suggested[:constants.MaxAIGeneratedTasks]
	}

	valid := make([]GeneratedTask, 0, len(suggested))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, t := range suggested {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		if t.DueDate != nil && t.DueDate.Before(cutoff) {
			t.DueDate = nil
		}
		if !models.TaskPriority(t.Priority).Valid() {
			t.Priority = string(models.PriorityBacklog)
		}
		valid = append(valid, t)
	}
	return valid, nil
}

// projectRole resolves the caller's role in a project named in a request body.
func (s *TaskService) projectRole(ctx context.Context, projectID, userID uint64) (models.ProjectRole, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if repository.IsNotFound(err) {
			return "", apierrors.NotFound("Project not found")
		}
		return "", apierrors.Internal(err)
	}
	member, err := s.projects.FindMembership(ctx, projectID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", apierrors.Forbidden("You do not have access to this project")
		}
		return "", apierrors.Internal(err)
	}
	return member.Role, nil
}

func (s *TaskService) ensureMembers(ctx context.Context, projectID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	count, err := s.projects.CountMembers(ctx, projectID, userIDs)
	if err != nil {
		return apierrors.Internal(err)
	}
	if int(count) != len(userIDs) {
		return apierrors.BadRequest("All assignees must be members of the project")
	}
	return nil
}

func validateTaskFields(status *models.TaskStatus, priority *models.TaskPriority, start, due *time.Time, points *int) error {
	if status != nil && !status.Valid() {
		return apierrors.BadRequest("Invalid task status")
	}
	if priority != nil && !priority.Valid() {
		return apierrors.BadRequest("Invalid task priority")
	}
	if start != nil && due != nil && due.Before(*start) {
		return apierrors.BadRequest("Due date cannot be before start date")
	}
	if points != nil && *points < 0 {
		return apierrors.BadRequest("Points cannot be negative")
	}
	return nil
}

// mergeAssignees combines the scalar and list forms into one sorted set.
func mergeAssignees(single *uint64, many []uint64) []uint64 {
	ids := make([]uint64, 0, len(many)+1)
	ids = append(ids, many...)
	if single != nil {
		ids = append(ids, *single)
	}
	return uniqueSorted(ids)
}

func uniqueSorted(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
