package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/metrics"
)

// NewRouter mounts the API. Write routes require one of apiKeys.
func NewRouter(s *Server, apiKeys []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/sitemap.xml", s.Sitemap)

	r.Get("/posts", s.ListPosts)
	r.Get("/posts/popular", s.PopularPosts)
	r.Get("/posts/search", s.SearchPosts)
	r.Get("/posts/{slug}", s.GetPost)
	r.Get("/posts/{slug}/outline", s.PostOutline)
	r.Get("/posts/{slug}/comments", s.ListComments)
	r.Get("/categories", s.ListCategories)
	r.Get("/authors/{id}", s.GetAuthor)
	r.Get("/stats", s.Stats)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiKeys))
		r.Post("/posts/{slug}/comments", s.AddComment)
		r.Post("/subscribers", s.Subscribe)
		r.Post("/outline", s.PrepareOutline)
	})

	return r
}
