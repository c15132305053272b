package rest

import (
	"net/http"

	"servirep-backend/application/services"
	"servirep-backend/infrastructure/config"
	"servirep-backend/interfaces/http/rest/handlers"
	"servirep-backend/interfaces/http/rest/middleware"
	"servirep-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	taxonomy *services.TaxonomyService
	catalog  *services.CatalogService
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	taxonomy *services.TaxonomyService,
	catalog *services.CatalogService,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		taxonomy: taxonomy,
		catalog:  catalog,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() (http.Handler, error) {
	validator, err := auth.NewTokenValidator(rt.cfg.SupabaseJWTSecret)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Public catalog endpoints
		r.Route("/catalog", func(r chi.Router) {
			catalogHandler := handlers.NewCatalogHandler(rt.catalog, rt.logger)
			r.Get("/tree", catalogHandler.GetTree)
			r.Get("/products", catalogHandler.ListProducts)
		})

		// Admin endpoints behind Supabase token auth
		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.Authenticate(validator, rt.logger))

			categoryHandler := handlers.NewCategoryHandler(rt.taxonomy, rt.catalog, rt.logger)
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)
			r.Get("/tree", categoryHandler.GetTree)
			r.Post("/reorder", categoryHandler.Reorder)
			r.Put("/{categoryID}", categoryHandler.UpdateCategory)
			r.Delete("/{categoryID}", categoryHandler.DeleteCategory)
		})
	})

	return router, nil
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
