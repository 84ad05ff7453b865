package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/middleware"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/services"
)

// ProjectHandler serves projects and their memberships. Routes under
// /projects/:projectId run behind RequireProjectAccess.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjects returns every project the caller is a member of.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	memberships, err := h.projects.List(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(memberships))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Create(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TeamID:      req.TeamID,
		OwnerID:     userID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := dto.ToProjectDTO(*project)
	out.Role = models.RoleOwner
	c.JSON(http.StatusCreated, out)
}

// GetProject returns the project loaded by the middleware with its members.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.Respond(c, apierrors.NotFound("Project not found"))
		return
	}
	role, _ := middleware.GetProjectRole(c)

	members, err := h.projects.Members(c.Request.Context(), project.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectDetailDTO{
		ProjectDTO: dto.ToProjectDTO(*project),
		Members:    dto.ToMemberDTOs(members),
		YourRole:   role,
	})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, projectID, ok := projectActor(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), actor, projectID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Project deleted successfully"))
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	actor, projectID, ok := projectActor(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.projects.AddMember(c.Request.Context(), actor, projectID, req.UserID, req.Role)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	actor, projectID, ok := projectActor(c)
	if !ok {
		return
	}
	userID, err := middleware.ParseID(c, "userId")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	var req dto.UpdateMemberRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projects.UpdateMemberRole(c.Request.Context(), actor, projectID, userID, req.Role); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projectId": projectID, "userId": userID, "role": req.Role})
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actor, projectID, ok := projectActor(c)
	if !ok {
		return
	}
	userID, err := middleware.ParseID(c, "userId")
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if err := h.projects.RemoveMember(c.Request.Context(), actor, projectID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Member removed successfully"))
}

// projectActor reads the caller and role stored by RequireProjectAccess.
func projectActor(c *gin.Context) (services.Actor, uint64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return services.Actor{}, 0, false
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.Respond(c, apierrors.NotFound("Project not found"))
		return services.Actor{}, 0, false
	}
	role, _ := middleware.GetProjectRole(c)
	return services.Actor{UserID: userID, Role: role}, project.ID, true
}
