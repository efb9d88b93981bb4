package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/metrics"
	"github.com/ukydev/rental-market/internal/middleware"
)

// RouterConfig wires handlers and middleware into the HTTP surface.
type RouterConfig struct {
	Auth    *AuthHandler
	Cars    *CarHandler
	Decors  *DecorHandler
	AuthMW  *middleware.AuthMiddleware
	Metrics *metrics.Metrics
	Logger  logrus.FieldLogger

	ClientURL      string
	AuthRateLimit  int
	AuthRateWindow int
	// UploadsDir is served under /uploads/ when set.
	UploadsDir string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("server start"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	limiter := middleware.NewRateLimitMiddleware()
	r.Route("/api/user", func(r chi.Router) {
		if cfg.AuthRateLimit > 0 {
			r.Use(limiter.RateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow))
		}
		r.Post("/register", cfg.Auth.Register)
		r.Post("/login", cfg.Auth.Login)
		r.Post("/logout", cfg.Auth.Logout)
	})

	r.Route("/api/car", func(r chi.Router) {
		r.Get("/cars", cfg.Cars.List)
		r.Get("/car/{id}", cfg.Cars.Get)
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMW.Authenticate)
			r.Post("/create-car", cfg.Cars.Create)
			r.Put("/edit-car/{id}", cfg.Cars.Edit)
			r.Delete("/remove-car/{id}", cfg.Cars.Delete)
		})
	})

	r.Route("/api/decor", func(r chi.Router) {
		r.Get("/decorations-lists", cfg.Decors.List)
		r.Get("/decoration/{id}", cfg.Decors.Get)
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMW.Authenticate)
			r.Post("/create-decorations", cfg.Decors.Create)
			r.Put("/edit-decorations/{id}", cfg.Decors.Edit)
			r.Delete("/remove-decorations/{id}", cfg.Decors.Delete)
		})
	})

	return r
}
