package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Attendance AttendanceHandler
	Request    RequestHandler
	Leave      LeaveHandler
	Shift      ShiftHandler
	Dashboard  DashboardHandler
	Events     EventsHandler
}

func NewRouter(JWTService jwt.Service, logger *slog.Logger, allowedOrigins []string, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot set headers, so the stream also takes ?jwt=
		if h.Events != nil {
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
				r.Get("/events", h.Events.Stream)
			})
		}

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/my", h.Attendance.ListMine)
				r.Get("/my/{date}", h.Attendance.GetMine)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Get("/my", h.Request.ListMine)
				r.Post("/{kind}", h.Request.Create)
				r.Get("/{kind}/{id}", h.Request.Get)
				r.Delete("/{kind}/{id}", h.Request.Cancel)
				r.Post("/{kind}/{id}/resubmit", h.Request.Resubmit)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Request.List)
					r.Post("/{kind}/{id}/approve", h.Request.Approve)
					r.Post("/{kind}/{id}/reject", h.Request.Reject)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balance", h.Leave.GetMyBalance)
				r.Get("/transactions", h.Leave.GetMyTransactions)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/adjust", h.Leave.Adjust)
					r.Get("/reconcile/{user_id}", h.Leave.Reconcile)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/active", h.Shift.Active)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Shift.List)
					r.Post("/", h.Shift.Create)
					r.Get("/{id}", h.Shift.Get)
					r.Put("/{id}", h.Shift.Update)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", h.Dashboard.GetDashboard)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/daily", h.Dashboard.GetTeamDashboard)
					r.Get("/users/{user_id}/summary", h.Dashboard.GetMonthlySummary)
				})
			})
		})
	})
	return r
}

// NewLogger builds the JSON slog logger in the ECS shape httplog expects.
func NewLogger(level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}
