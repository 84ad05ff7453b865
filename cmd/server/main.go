package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ludicboard/ludicboard-api/internal/config"
	"github.com/ludicboard/ludicboard-api/internal/database"
	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/events"
	"github.com/ludicboard/ludicboard-api/internal/logger"
	"github.com/ludicboard/ludicboard-api/internal/repository"
	"github.com/ludicboard/ludicboard-api/internal/server"
	"github.com/ludicboard/ludicboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: !cfg.IsProduction(),
	})
	defer func() { _ = logg.Sync() }()

	apierrors.SetExposeStack(!cfg.IsProduction())
	gin.SetMode(cfg.GinMode())

	// Connect to database
	db, err := database.Connect(cfg, logg)
	if err != nil {
		logg.Fatal("Failed to connect to database", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Run migrations
	if err := database.Migrate(db, logg); err != nil {
		logg.Fatal("Failed to run migrations", zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RedisEnabled() {
		client, err := events.NewRedisClient(context.Background(), cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logg.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		publisher = events.NewRedisPublisher(client, cfg.Events.Channel, logg)
	}

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAI.APIKey != "" {
		suggester = services.NewAIService(cfg.OpenAI.APIKey)
	} else {
		logg.Warn("OPENAI_API_KEY not set, task generation disabled")
	}

	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	teams := repository.NewTeamRepository(db)

	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	projectService := services.NewProjectService(projects, users, teams, publisher, logg)
	svc := server.Services{
		Auth:        services.NewAuthService(users, tokens, logg),
		Projects:    projectService,
		Tasks:       services.NewTaskService(tasks, projects, suggester, publisher, logg),
		Comments:    services.NewCommentService(repository.NewCommentRepository(db), publisher, logg),
		Attachments: services.NewAttachmentService(repository.NewAttachmentRepository(db), logg),
		Search:      services.NewSearchService(repository.NewSearchRepository(db), projects),
		Directory:   services.NewDirectoryService(users, teams),
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		logg.Fatal("Failed to create session store", zap.Error(err))
	}
	router, err := server.NewRouter(svc, store, logg)
	if err != nil {
		logg.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort("", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logg.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Failed to listen and serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("Server shutdown failed", zap.Error(err))
		return
	}
	logg.Info("Server stopped")
}
