package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the router mounts. Nil handlers leave their routes out.
type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	Leave     *leave.Handler
	LeaveType *leavetype.Handler
	User      *user.Handler
}

func RegisterAllRoutes(router *chi.Mux, cfg *internal.Config, h Handlers, openAPI []byte, logger *slog.Logger) {
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.TraceHeader},
		ExposedHeaders: []string{middleware.TraceHeader},
		MaxAge:         300,
	}))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if len(openAPI) > 0 {
		router.Get(swagger.SpecPath, swagger.Spec(openAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	// without an auth handler there is no caller identity, so role checks are skipped too
	requireAuth := cfg.Security.RequireAuth && h.Auth != nil

	router.Route("/api", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		r.Group(func(pr chi.Router) {
			if requireAuth {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Use(middleware.UserContext)
			}

			pr.Route("/leaves", func(lr chi.Router) {
				if h.LeaveType != nil {
					lr.Get("/types", h.LeaveType.GetLeaveTypes)
				}
				if h.Leave == nil {
					return
				}

				lr.Post("/request", h.Leave.SubmitRequest)
				lr.Get("/{requestId}", h.Leave.GetRequest)
				lr.Delete("/{requestId}", h.Leave.CancelRequest)
				lr.Get("/user/{userId}", h.Leave.GetUserLeaves)
				lr.Get("/calendar", h.Leave.GetCalendar)
				lr.Get("/balances/{userId}", h.Leave.GetBalances)

				lr.Group(func(mr chi.Router) {
					if requireAuth {
						mr.Use(middleware.RequireManager(logger))
					}
					mr.Put("/review/{requestId}", h.Leave.ReviewRequest)
					mr.Get("/all", h.Leave.GetAllLeaves)
				})
			})

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/employees", h.User.GetEmployees)
					ur.Get("/{userId}", h.User.GetUser)
				})
			}
		})
	})
}
