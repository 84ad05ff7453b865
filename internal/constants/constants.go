package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "user"
	ContextKeyRequestID = "request_id"
	ContextKeyProject   = "project"
	ContextKeyRole      = "project_role"
	ContextKeyTask      = "task"
	ContextKeyTaskTier  = "task_tier"
)

// Session
const (
	SessionCookieName = "ludicboard_session"
	SessionKeyToken   = "token"
	SessionMaxAge     = 30 * 24 * time.Hour
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerPrefix        = "Bearer"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Validation limits
const (
	MinPasswordLength      = 8
	MinUsernameLength      = 3
	MaxUsernameLength      = 50
	MinProjectNameLength   = 3
	MaxProjectNameLength   = 50
	MaxProjectDescLength   = 500
	MaxCommentLength       = 2000
	MaxAIGeneratedTasks    = 20
	MinSearchQueryLength   = 2
	SearchResultLimit      = 10
	DefaultTokenTTL        = 30 * 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second
)
