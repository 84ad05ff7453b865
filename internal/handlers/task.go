package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/middleware"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
	"github.com/ludicboard/ludicboard-api/internal/services"
)

// TaskHandler serves tasks. Routes under /tasks/:taskId run behind
// RequireTaskAccess, which stores the task and the caller's tier.
type TaskHandler struct {
	tasks    *services.TaskService
	projects middleware.ProjectRoles
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService, projects middleware.ProjectRoles) *TaskHandler {
	return &TaskHandler{
		tasks:    tasks,
		projects: projects,
	}
}

// ListTasks returns the tasks of ?projectId for any member of that project,
// and an empty list when the project does not exist.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := strconv.ParseUint(c.Query("projectId"), 10, 64)
	if err != nil || projectID == 0 {
		apierrors.Respond(c, apierrors.BadRequest("projectId query parameter is required"))
		return
	}

	if _, _, err := h.projects.RoleOf(c.Request.Context(), projectID, userID); err != nil {
		// a deleted project lists no tasks
		if apierrors.From(err).Status == http.StatusNotFound {
			c.JSON(http.StatusOK, []dto.TaskDTO{})
			return
		}
		apierrors.Respond(c, err)
		return
	}

	tasks, err := h.tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListUserTasks returns tasks authored by or assigned to :userId that the
// caller can see.
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, err := middleware.ParseID(c, "userId")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	tasks, err := h.tasks.ListForUser(c.Request.Context(), callerID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, _, ok := taskAccess(c)
	if !ok {
		return
	}

	detailed, err := h.tasks.Get(c.Request.Context(), task.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*detailed))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), req.ToCreateTaskInput(userID))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Requires the FULL tier.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, access, ok := taskAccess(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.tasks.Update(c.Request.Context(), actorID(c), task, access, req.ToUpdateTaskInput())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	task, access, ok := taskAccess(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.tasks.UpdateStatus(c.Request.Context(), actorID(c), task, access, req.Status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// AssignTask adds assignees to the task.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	h.changeAssignees(c, h.tasks.Assign)
}

// UnassignTask removes assignees from the task.
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	h.changeAssignees(c, h.tasks.Unassign)
}

type assigneeChange func(ctx context.Context, actorID uint64, task *models.Task, access policy.TaskAccess, userIDs []uint64) (*models.Task, error)

func (h *TaskHandler) changeAssignees(c *gin.Context, change assigneeChange) {
	task, access, ok := taskAccess(c)
	if !ok {
		return
	}
	var req dto.AssignUsersRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := change(c.Request.Context(), actorID(c), task, access, req.UserIDs)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask removes the task and everything attached to it. Requires the FULL tier.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, access, ok := taskAccess(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), actorID(c), task, access); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Task deleted successfully"))
}

// GenerateTasks returns AI suggested tasks for a project. Nothing is stored.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	suggested, err := h.tasks.GenerateTasks(c.Request.Context(), userID, req.ProjectID, req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": suggested})
}

// taskAccess reads the task and tier stored by RequireTaskAccess.
func taskAccess(c *gin.Context) (*models.Task, policy.TaskAccess, bool) {
	task, access, ok := middleware.GetTaskAccess(c)
	if !ok {
		apierrors.Respond(c, apierrors.NotFound("Task not found"))
		return nil, policy.TaskAccess{}, false
	}
	return task, access, true
}
