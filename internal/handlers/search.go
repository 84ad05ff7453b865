package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/services"
	"github.com/ludicboard/ludicboard-api/internal/utils"
)

// DirectoryHandler serves search and the user and team listings.
type DirectoryHandler struct {
	search    *services.SearchService
	directory *services.DirectoryService
}

func NewDirectoryHandler(search *services.SearchService, directory *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{search: search, directory: directory}
}

// Search ranks tasks, projects and users matching ?query.
func (h *DirectoryHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	results, err := h.search.Search(c.Request.Context(), userID, c.Query("query"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSearchResponse(results))
}

func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.directory.ListUsers(c.Request.Context(), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users:      dto.ToUserDTOs(users),
		Pagination: params.Response(total),
	})
}

func (h *DirectoryHandler) ListTeams(c *gin.Context) {
	teams, err := h.directory.ListTeams(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.TeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, dto.ToTeamDTO(t))
	}
	c.JSON(http.StatusOK, out)
}
