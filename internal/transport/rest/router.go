package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/hasanbasri/attendance-management/internal/attendance"
	"github.com/hasanbasri/attendance-management/internal/audit"
	"github.com/hasanbasri/attendance-management/internal/auth"
	"github.com/hasanbasri/attendance-management/internal/backup"
	"github.com/hasanbasri/attendance-management/internal/class"
	"github.com/hasanbasri/attendance-management/internal/notification"
	"github.com/hasanbasri/attendance-management/internal/student"
	"github.com/hasanbasri/attendance-management/internal/transport/middleware"
	"github.com/hasanbasri/attendance-management/internal/transport/swagger"
	"github.com/hasanbasri/attendance-management/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Student      *student.Handler
	Class        *class.Handler
	Attendance   *attendance.Handler
	Audit        *audit.Handler
	Notification *notification.Handler
	Backup       *backup.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, guard *auth.CapabilityGuard, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
			})
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/permissions", h.Auth.RefreshPermissions)
			pr.Post("/auth/logout", h.Auth.Logout)

			// Reading rosters only needs a valid session; mutations are
			// guarded per capability flag below.
			if h.Student != nil {
				pr.Get("/students", h.Student.ListStudents)
				pr.Get("/students/{id}", h.Student.GetStudent)

				pr.Group(func(mr chi.Router) {
					mr.Use(guard.RequireManageStudents())
					mr.Post("/students", h.Student.CreateStudent)
					mr.Put("/students/{id}", h.Student.UpdateStudent)
					mr.Delete("/students/{id}", h.Student.DeleteStudent)
				})
			}

			if h.Class != nil {
				pr.Get("/classes", h.Class.ListClasses)
				pr.Get("/classes/{id}", h.Class.GetClass)

				pr.Group(func(mr chi.Router) {
					mr.Use(guard.RequireManageClasses())
					mr.Post("/classes", h.Class.CreateClass)
					mr.Put("/classes/{id}", h.Class.UpdateClass)
					mr.Delete("/classes/{id}", h.Class.DeleteClass)
				})
			}

			if h.Attendance != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.Get("/sheet", h.Attendance.GetSheet)
					ar.Get("/students/{id}", h.Attendance.GetHistory)
					ar.Get("/summary", h.Attendance.GetSummary)

					ar.Group(func(mr chi.Router) {
						mr.Use(guard.RequireTakeAttendance())
						mr.Post("/sheet", h.Attendance.MarkSheet)
					})
				})
			}

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Group(func(mr chi.Router) {
						mr.Use(guard.RequireManageUsers())
						mr.Get("/", h.User.ListUsers)
						mr.Get("/{id}", h.User.GetUser)
						mr.Post("/", h.User.CreateUser)
						mr.Put("/{id}", h.User.UpdateUser)
					})

					ur.Group(func(mr chi.Router) {
						mr.Use(guard.RequireResetPasswords())
						mr.Post("/{id}/reset-password", h.User.ResetPassword)
					})

					ur.Group(func(mr chi.Router) {
						mr.Use(guard.RequireDeleteUsers())
						mr.Delete("/{id}", h.User.DeleteUser)
					})
				})
			}

			if h.Audit != nil {
				pr.Group(func(mr chi.Router) {
					mr.Use(guard.RequireViewLogs())
					mr.Get("/audit", h.Audit.ListEntries)
				})
			}

			if h.Notification != nil {
				pr.Group(func(mr chi.Router) {
					mr.Use(guard.RequireSendEmails())
					mr.Post("/notifications/class", h.Notification.NotifyClass)
				})
			}

			if h.Backup != nil {
				pr.Group(func(mr chi.Router) {
					mr.Use(guard.RequireRunBackups())
					mr.Post("/backups/run", h.Backup.RunBackup)
				})
			}
		})
	})
}
