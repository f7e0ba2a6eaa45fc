package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"familytree-backend/application/ports"
	"familytree-backend/application/store"
	"familytree-backend/interfaces/http/rest/handlers"
	"familytree-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	store          *store.FamilyStore
	remote         ports.TreeRepository
	allowedOrigins []string
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	familyStore *store.FamilyStore,
	remote ports.TreeRepository,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		store:          familyStore,
		remote:         remote,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		graphHandler := handlers.NewGraphHandler(rt.store, rt.logger)
		r.Get("/graph", graphHandler.GetGraph)
		r.Put("/graph", graphHandler.ReplaceGraph)
		r.Post("/connections", graphHandler.Connect)
		r.Post("/changes/nodes", graphHandler.NodeChanges)
		r.Post("/changes/edges", graphHandler.EdgeChanges)
		r.Put("/selection", graphHandler.Select)
		r.Post("/layout", graphHandler.AutoLayout)
		r.Post("/import", graphHandler.Import)

		r.Route("/people", func(r chi.Router) {
			personHandler := handlers.NewPersonHandler(rt.store, rt.logger)
			r.Post("/", personHandler.CreatePerson)
			r.Patch("/{personID}", personHandler.UpdatePerson)
			r.Delete("/{personID}", personHandler.DeletePerson)
			r.Post("/{personID}/spouse", personHandler.AddSpouse)
			r.Post("/{personID}/children", personHandler.AddChild)
		})

		r.Route("/trees", func(r chi.Router) {
			treeHandler := handlers.NewTreeHandler(rt.store, rt.remote, rt.logger)
			r.Post("/", treeHandler.CreateTree)
			r.Get("/", treeHandler.ListTrees)
			r.Delete("/{treeID}", treeHandler.DeleteTree)
			r.Post("/{treeID}/save", treeHandler.SavePositions)
			r.Post("/{treeID}/load", treeHandler.LoadTree)
		})
	})

	return router
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
