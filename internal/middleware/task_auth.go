package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
)

// TaskAccessResolver loads a task and the caller's tier on it.
type TaskAccessResolver interface {
	Access(ctx context.Context, taskID, userID uint64) (*models.Task, policy.TaskAccess, error)
}

// RequireTaskAccess loads the :taskId task and computes the caller's tier.
// Callers with no tier get a 403; unknown tasks a 404.
func RequireTaskAccess(resolver TaskAccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := ParseID(c, "taskId")
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Respond(c, apierrors.Unauthorized(""))
			return
		}

		task, access, err := resolver.Access(c.Request.Context(), taskID, userID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Set(constants.ContextKeyTaskTier, access)
		c.Next()
	}
}

// GetTaskAccess returns the task and tier stored by RequireTaskAccess.
func GetTaskAccess(c *gin.Context) (*models.Task, policy.TaskAccess, bool) {
	t, ok := c.Get(constants.ContextKeyTask)
	if !ok {
		return nil, policy.TaskAccess{}, false
	}
	task, ok := t.(*models.Task)
	if !ok {
		return nil, policy.TaskAccess{}, false
	}
	access, _ := c.Get(constants.ContextKeyTaskTier)
	a, ok := access.(policy.TaskAccess)
	return task, a, ok
}
