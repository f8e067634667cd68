package http

import (
	"log/slog"
	"os"

	"github.com/aydinsahin81/gts-attendance-go/internal/config"
	"github.com/aydinsahin81/gts-attendance-go/internal/handler/http/middleware"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	registryHandler RegistryHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gts-attendance"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
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

		// Stream authenticates through its own short-lived token because
		// EventSource cannot set headers
		r.Get("/attendances/stream", streamHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Get("/export", attendanceHandler.Export)
				r.Get("/stream-token", streamHandler.Token)
				r.Post("/punch", attendanceHandler.Punch)
				r.Get("/{date}/{personnelID}", attendanceHandler.Get)

				// Corrections need at least manager role
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Patch("/{date}/{personnelID}", attendanceHandler.Correct)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Post("/worked-time", reportHandler.WorkedTime)
			})

			r.Get("/shifts", registryHandler.ListShifts)
			r.Get("/personnel", registryHandler.ListPersonnel)
			r.Get("/branches", registryHandler.ListBranches)
		})
	})

	return r
}
