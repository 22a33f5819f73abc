package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikhil240896/tms-api/internal/api"
	apiMiddleware "github.com/nikhil240896/tms-api/internal/api/middleware"
	"github.com/nikhil240896/tms-api/internal/domain"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService)
	taskHandler := api.NewTaskHandler(app.taskService)
	assignmentHandler := api.NewAssignmentHandler(app.assignmentService)
	adminHandler := api.NewAdminHandler(app.adminService)
	queryHandler := api.NewQueryHandler(app.queryService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Profile)
			r.Post("/auth/logout", authHandler.Logout)

			// Scoped task reads, open to every role
			r.Get("/tasks/assigned", queryHandler.AssignedTasks)
			r.Get("/tasks/stats", queryHandler.Stats)
			r.Post("/tasks/search", queryHandler.Search)

			// Status updates: any role, chain-checked in the service
			r.Patch("/tasks/status", assignmentHandler.UpdateStatus)

			// Task reads and assignment, admin and manager
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))

				r.Get("/tasks/{id}", taskHandler.Get)
				r.Post("/tasks/assign", assignmentHandler.AssignTasks)
			})

			// Task lifecycle, admin only
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireRoles(domain.RoleAdmin))

				r.Post("/tasks", taskHandler.Create)
				r.Patch("/tasks/{id}", taskHandler.Update)
				r.Delete("/tasks/{id}", taskHandler.Delete)
			})

			// User administration, admin only
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireRoles(domain.RoleAdmin))

				r.Get("/users", adminHandler.ListUsers)
				r.Get("/managers", adminHandler.ListManagers)
				r.Get("/managers/search", adminHandler.SearchManagers)
				r.Post("/managers/promote", adminHandler.PromoteUsers)
				r.Post("/managers/assign-users", adminHandler.AssignUsersToManager)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
