package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ludicboard/ludicboard-api/internal/constants"
)

// PaginationParams is a resolved page request.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the pagination block of list responses.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// GetPaginationParams reads page and limit from the query string. Invalid
// values fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	return NewPaginationParams(c.Query("page"), c.Query("limit"))
}

func NewPaginationParams(pageRaw, limitRaw string) PaginationParams {
	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Response builds the pagination block for total rows.
func (p PaginationParams) Response(total int64) PaginationResponse {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return PaginationResponse{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}
