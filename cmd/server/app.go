package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikhil240896/tms-api/internal/cache"
	"github.com/nikhil240896/tms-api/internal/config"
	"github.com/nikhil240896/tms-api/internal/platform/mail"
	"github.com/nikhil240896/tms-api/internal/platform/postgres"
	redisplatform "github.com/nikhil240896/tms-api/internal/platform/redis"
	"github.com/nikhil240896/tms-api/internal/service"
	"github.com/nikhil240896/tms-api/internal/service/auth"
	"github.com/nikhil240896/tms-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Platform services
	cache      cache.Cache
	redisCache *redisplatform.Cache
	mailer     mail.Mailer
	jwtService auth.JWTService

	// Application services
	userService       *service.UserService
	taskService       *service.TaskService
	assignmentService *service.AssignmentService
	adminService      *service.AdminService
	queryService      *service.QueryService
}

// newApplication wires every dependency from configuration. The database
// must already be reachable; Redis and SMTP are optional and degrade to the
// in-memory cache and a no-op mailer when not configured.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	if err := app.setupCache(); err != nil {
		return nil, err
	}
	app.setupMailer()

	hasher := auth.NewBcryptHasher(0)
	app.userService = service.NewUserService(
		app.userStore, hasher, hasher, app.jwtService, app.mailer, logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)
	app.assignmentService = service.NewAssignmentService(app.taskStore, app.userStore, logger)
	app.adminService = service.NewAdminService(db, app.userStore, logger)
	app.queryService = service.NewQueryService(
		app.taskStore,
		app.cache,
		time.Duration(cfg.Cache.AssignedTasksTTLSeconds)*time.Second,
		logger)

	return app, nil
}

// setupCache connects to Redis when an address is configured, otherwise it
// falls back to the process-local in-memory cache.
func (app *application) setupCache() error {
	if app.config.Cache.RedisAddr == "" {
		app.logger.Info("no Redis address configured, using in-memory cache")
		app.cache = cache.NewMemory()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := redisplatform.New(ctx, app.config.Cache)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.redisCache = redisCache
	app.cache = redisCache
	app.logger.Info("Redis cache connected", "addr", app.config.Cache.RedisAddr)
	return nil
}

// setupMailer chooses the SMTP mailer when a host is configured, a no-op
// mailer otherwise.
func (app *application) setupMailer() {
	if app.config.Mail.SMTPHost == "" {
		app.logger.Info("no SMTP host configured, registration emails disabled")
		app.mailer = mail.NoopMailer{}
		return
	}
	app.mailer = mail.NewSMTPMailer(app.config.Mail, app.logger)
}

// cleanup releases the application's external resources.
func (app *application) cleanup() {
	if app.redisCache != nil {
		if err := app.redisCache.Close(); err != nil {
			app.logger.Error("failed to close Redis connection", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
