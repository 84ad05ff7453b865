package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
)

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apierrors.BadRequest("Invalid " + name)
	}
	return id, nil
}
