package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/inkwell/internal/domain"
	healthuc "github.com/kailas-cloud/inkwell/internal/usecase/health"
	outlineuc "github.com/kailas-cloud/inkwell/internal/usecase/outline"
	postuc "github.com/kailas-cloud/inkwell/internal/usecase/post"
)

// maxBodyBytes bounds request bodies; outline requests carry whole posts.
const maxBodyBytes = 1 << 20

// PostService reads posts.
type PostService interface {
	Recent(ctx context.Context, limit int, after *time.Time) ([]domain.Post, error)
	ByCategory(ctx context.Context, category string, limit int, after *time.Time) ([]domain.Post, error)
	ByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error)
	Popular(ctx context.Context, limit int) ([]domain.Post, error)
	BySlug(ctx context.Context, slug string) (domain.Post, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Post, error)
	Stats(ctx context.Context) (postuc.Stats, error)
}

// CommentService reads and adds comments.
type CommentService interface {
	ForPost(ctx context.Context, slug string) ([]domain.Comment, error)
	Add(ctx context.Context, c domain.Comment) (domain.Comment, error)
}

// CategoryService lists categories.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// AuthorService reads authors.
type AuthorService interface {
	Get(ctx context.Context, id string) (domain.Author, error)
}

// SubscribeService stores newsletter subscriptions.
type SubscribeService interface {
	Subscribe(ctx context.Context, email string) error
}

// OutlineService prepares content anchors and tables of contents.
type OutlineService interface {
	Prepare(format outlineuc.Format, content string) (outlineuc.Result, error)
	ForPost(ctx context.Context, slug string) (outlineuc.Result, error)
}

// SitemapService renders the sitemap.
type SitemapService interface {
	Generate(ctx context.Context) ([]byte, error)
}

// HealthService checks dependencies.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Services groups the use cases the API exposes.
type Services struct {
	Posts      PostService
	Comments   CommentService
	Categories CategoryService
	Authors    AuthorService
	Subscribe  SubscribeService
	Outline    OutlineService
	Sitemap    SitemapService
	Health     HealthService
}

// Server holds the HTTP handlers.
type Server struct {
	svc Services
}

// NewServer creates an HTTP API server.
func NewServer(svc Services) *Server {
	return &Server{svc: svc}
}

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func list[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// CommentRequest is the body of POST /posts/{slug}/comments.
type CommentRequest struct {
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
	Content      string `json:"content"`
	ParentID     string `json:"parentId,omitempty"`
}

// SubscribeRequest is the body of POST /subscribers.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// OutlineRequest is the body of POST /outline.
type OutlineRequest struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

// ListPosts handles GET /posts.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	var (
		limit    int
		after    *time.Time
		category string
		author   string
	)
	q := r.URL.Query()
	if !bindQuery(w, q, "limit", &limit) ||
		!bindQuery(w, q, "after", &after) ||
		!bindQuery(w, q, "category", &category) ||
		!bindQuery(w, q, "author", &author) {
		return
	}

	var (
		posts []domain.Post
		err   error
	)
	switch {
	case category != "":
		posts, err = s.svc.Posts.ByCategory(r.Context(), category, limit, after)
	case author != "":
		posts, err = s.svc.Posts.ByAuthor(r.Context(), author, limit)
	default:
		posts, err = s.svc.Posts.Recent(r.Context(), limit, after)
	}
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(posts))
}

// PopularPosts handles GET /posts/popular.
func (s *Server) PopularPosts(w http.ResponseWriter, r *http.Request) {
	var limit int
	if !bindQuery(w, r.URL.Query(), "limit", &limit) {
		return
	}
	posts, err := s.svc.Posts.Popular(r.Context(), limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(posts))
}

// SearchPosts handles GET /posts/search.
func (s *Server) SearchPosts(w http.ResponseWriter, r *http.Request) {
	var (
		term  string
		limit int
	)
	q := r.URL.Query()
	if !bindQuery(w, q, "q", &term) || !bindQuery(w, q, "limit", &limit) {
		return
	}
	posts, err := s.svc.Posts.Search(r.Context(), term, limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(posts))
}

// GetPost handles GET /posts/{slug}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	slug, ok := bindPath(w, r, "slug")
	if !ok {
		return
	}
	p, err := s.svc.Posts.BySlug(r.Context(), slug)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PostOutline handles GET /posts/{slug}/outline.
func (s *Server) PostOutline(w http.ResponseWriter, r *http.Request) {
	slug, ok := bindPath(w, r, "slug")
	if !ok {
		return
	}
	res, err := s.svc.Outline.ForPost(r.Context(), slug)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListComments handles GET /posts/{slug}/comments.
func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	slug, ok := bindPath(w, r, "slug")
	if !ok {
		return
	}
	comments, err := s.svc.Comments.ForPost(r.Context(), slug)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(comments))
}

// AddComment handles POST /posts/{slug}/comments.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	slug, ok := bindPath(w, r, "slug")
	if !ok {
		return
	}
	var req CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.svc.Comments.Add(r.Context(), domain.Comment{
		PostID:       slug,
		AuthorName:   req.AuthorName,
		AuthorAvatar: req.AuthorAvatar,
		Content:      req.Content,
		ParentID:     req.ParentID,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Categories.List(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(cats))
}

// GetAuthor handles GET /authors/{id}.
func (s *Server) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := bindPath(w, r, "id")
	if !ok {
		return
	}
	a, err := s.svc.Authors.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Posts.Stats(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Subscribe handles POST /subscribers.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.Subscribe.Subscribe(r.Context(), req.Email); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PrepareOutline handles POST /outline.
func (s *Server) PrepareOutline(w http.ResponseWriter, r *http.Request) {
	var req OutlineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	format, err := outlineuc.ParseFormat(req.Format)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	res, err := s.svc.Outline.Prepare(format, req.Content)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Sitemap handles GET /sitemap.xml.
func (s *Server) Sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Sitemap.Generate(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

func bindQuery(w http.ResponseWriter, q url.Values, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter "+name)
		return false
	}
	return true
}

func bindPath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter "+name)
		return "", false
	}
	return v, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
