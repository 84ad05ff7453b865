package handlers

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/middleware"
	"github.com/ludicboard/ludicboard-api/internal/validation"
)

// bindJSON decodes the body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.Respond(c, validation.BindError(err))
		return false
	}
	return true
}

// currentUserID returns the authenticated user id, writing a 401 when absent.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Respond(c, apierrors.Unauthorized(""))
		return 0, false
	}
	return userID, true
}

func message(text string) gin.H {
	return gin.H{"message": text}
}

// actorID is the authenticated user on routes already behind RequireAuth.
func actorID(c *gin.Context) uint64 {
	userID, _ := middleware.GetUserID(c)
	return userID
}
