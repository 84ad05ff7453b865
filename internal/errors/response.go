package errors

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var exposeStack atomic.Bool

// SetExposeStack toggles the stack field in error responses. It is enabled
// outside production.
func SetExposeStack(enabled bool) {
	exposeStack.Store(enabled)
}

// FieldError describes a single failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Response is the body written for every failed request.
type Response struct {
	Status  string      `json:"status"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// ToResponse renders an AppError as a response body.
func ToResponse(appErr *AppError) Response {
	status := "error"
	if appErr.Status >= http.StatusBadRequest && appErr.Status < http.StatusInternalServerError {
		status = "fail"
	}

	resp := Response{
		Status:  status,
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if exposeStack.Load() {
		resp.Stack = appErr.Stack()
	}
	return resp
}

// Respond writes err as the response and aborts the handler chain.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.Status, ToResponse(appErr))
}
