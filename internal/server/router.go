package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ludicboard/ludicboard-api/internal/config"
	"github.com/ludicboard/ludicboard-api/internal/constants"
	"github.com/ludicboard/ludicboard-api/internal/handlers"
	"github.com/ludicboard/ludicboard-api/internal/middleware"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/services"
	"github.com/ludicboard/ludicboard-api/internal/validation"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Auth        *services.AuthService
	Projects    *services.ProjectService
	Tasks       *services.TaskService
	Comments    *services.CommentService
	Attachments *services.AttachmentService
	Search      *services.SearchService
	Directory   *services.DirectoryService
}

// NewSessionStore keeps sessions in Redis when configured, otherwise in a
// signed cookie.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.Auth.SessionSecret)
	var store sessions.Store
	if cfg.RedisEnabled() {
		rs, err := redisStore.NewStore(10, "tcp", cfg.Redis.Addr(), "", cfg.Redis.Password, secret)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore(secret)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(svc Services, store sessions.Store, log *zap.Logger) (*gin.Engine, error) {
	if err := validation.Register(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		sessions.Sessions(constants.SessionCookieName, store),
	)

	authHandler := handlers.NewAuthHandler(svc.Auth)
	projectHandler := handlers.NewProjectHandler(svc.Projects)
	taskHandler := handlers.NewTaskHandler(svc.Tasks, svc.Projects)
	commentHandler := handlers.NewCommentHandler(svc.Comments, svc.Attachments)
	directoryHandler := handlers.NewDirectoryHandler(svc.Search, svc.Directory)

	requireAuth := middleware.RequireAuth(svc.Auth, log)
	projectAccess := middleware.RequireProjectAccess(svc.Projects)
	taskAccess := middleware.RequireTaskAccess(svc.Tasks)
	managers := middleware.RequireProjectRole(models.RoleOwner, models.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "LudicBoard API is running",
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.PATCH("/update-profile", requireAuth, authHandler.UpdateProfile)
		auth.PATCH("/change-password", requireAuth, authHandler.ChangePassword)
	}

	projects := r.Group("/projects")
	projects.Use(requireAuth)
	{
		projects.GET("", projectHandler.ListProjects)
		projects.POST("", projectHandler.CreateProject)
		projects.GET("/:projectId", projectAccess, projectHandler.GetProject)
		projects.DELETE("/:projectId", projectAccess, middleware.RequireProjectRole(models.RoleOwner), projectHandler.DeleteProject)
		projects.POST("/:projectId/members", projectAccess, managers, projectHandler.AddMember)
		projects.PATCH("/:projectId/members/:userId/role", projectAccess, managers, projectHandler.UpdateMemberRole)
		projects.DELETE("/:projectId/members/:userId", projectAccess, managers, projectHandler.RemoveMember)
	}

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.POST("/generate", taskHandler.GenerateTasks)
		tasks.GET("/user/:userId", taskHandler.ListUserTasks)
		tasks.PATCH("/comments/:commentId", commentHandler.UpdateComment)
		tasks.DELETE("/comments/:commentId", commentHandler.DeleteComment)
		tasks.DELETE("/attachments/:attachmentId", commentHandler.DeleteAttachment)
		tasks.GET("/:taskId", taskAccess, taskHandler.GetTask)
		tasks.PATCH("/:taskId", taskAccess, taskHandler.UpdateTask)
		tasks.DELETE("/:taskId", taskAccess, taskHandler.DeleteTask)
		tasks.PATCH("/:taskId/status", taskAccess, taskHandler.UpdateTaskStatus)
		tasks.POST("/:taskId/assign", taskAccess, taskHandler.AssignTask)
		tasks.POST("/:taskId/unassign", taskAccess, taskHandler.UnassignTask)
		tasks.POST("/:taskId/comments", taskAccess, commentHandler.CreateComment)
		tasks.POST("/:taskId/attachments", taskAccess, commentHandler.CreateAttachment)
	}

	r.GET("/search", requireAuth, directoryHandler.Search)
	r.GET("/users", requireAuth, directoryHandler.ListUsers)
	r.GET("/teams", requireAuth, directoryHandler.ListTeams)

	return r, nil
}
