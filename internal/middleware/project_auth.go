package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/constants"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/policy"
)

// ProjectRoles resolves a caller's role in a project.
type ProjectRoles interface {
	RoleOf(ctx context.Context, projectID, userID uint64) (*models.Project, models.ProjectRole, error)
}

// RequireProjectAccess loads the :projectId project and the caller's role in it.
// The role is looked up on every request.
func RequireProjectAccess(roles ProjectRoles) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := ParseID(c, "projectId")
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Respond(c, apierrors.Unauthorized(""))
			return
		}

		project, role, err := roles.RoleOf(c.Request.Context(), projectID, userID)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}
		if !policy.CanViewProject(role) {
			apierrors.Respond(c, apierrors.Forbidden("You do not have access to this project"))
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Set(constants.ContextKeyRole, role)
		c.Next()
	}
}

// RequireProjectRole rejects callers whose role is not one of allowed. It
// must run after RequireProjectAccess.
func RequireProjectRole(allowed ...models.ProjectRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetProjectRole(c)
		if !policy.HasRole(role, allowed...) {
			apierrors.Respond(c, apierrors.New(http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions, "Insufficient project role permissions"))
			return
		}
		c.Next()
	}
}

func GetProject(c *gin.Context) (*models.Project, bool) {
	v, ok := c.Get(constants.ContextKeyProject)
	if !ok {
		return nil, false
	}
	project, ok := v.(*models.Project)
	return project, ok
}

func GetProjectRole(c *gin.Context) (models.ProjectRole, bool) {
	v, ok := c.Get(constants.ContextKeyRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.ProjectRole)
	return role, ok
}
