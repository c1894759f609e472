package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/domain"
	healthuc "github.com/kailas-cloud/inkwell/internal/usecase/health"
	outlineuc "github.com/kailas-cloud/inkwell/internal/usecase/outline"
	postuc "github.com/kailas-cloud/inkwell/internal/usecase/post"
)

// --- Fakes ---

type fakePosts struct {
	calls []string
	after *time.Time
	limit int
	err   error
}

func (f *fakePosts) record(call string) ([]domain.Post, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Post{{Slug: "hello", Title: "Hello"}}, nil
}

func (f *fakePosts) Recent(_ context.Context, limit int, after *time.Time) ([]domain.Post, error) {
	f.limit, f.after = limit, after
	return f.record("recent")
}

func (f *fakePosts) ByCategory(_ context.Context, category string, limit int, _ *time.Time) ([]domain.Post, error) {
	f.limit = limit
	return f.record("category:" + category)
}

func (f *fakePosts) ByAuthor(_ context.Context, authorID string, _ int) ([]domain.Post, error) {
	return f.record("author:" + authorID)
}

func (f *fakePosts) Popular(_ context.Context, limit int) ([]domain.Post, error) {
	f.limit = limit
	return f.record("popular")
}

func (f *fakePosts) BySlug(_ context.Context, slug string) (domain.Post, error) {
	if slug != "hello" {
		return domain.Post{}, fmt.Errorf("get post: %w", domain.ErrNotFound)
	}
	return domain.Post{Slug: "hello", Title: "Hello"}, nil
}

func (f *fakePosts) Search(_ context.Context, term string, _ int) ([]domain.Post, error) {
	if term == "" {
		return nil, domain.NewInvalidArgument("q", "is required")
	}
	return f.record("search:" + term)
}

func (f *fakePosts) Stats(_ context.Context) (postuc.Stats, error) {
	return postuc.Stats{TotalPosts: 3}, f.err
}

type fakeComments struct {
	added []domain.Comment
}

func (f *fakeComments) ForPost(_ context.Context, _ string) ([]domain.Comment, error) { return nil, nil }

func (f *fakeComments) Add(_ context.Context, c domain.Comment) (domain.Comment, error) {
	if err := c.Validate(); err != nil {
		return domain.Comment{}, err
	}
	c.ID = "c-1"
	f.added = append(f.added, c)
	return c, nil
}

type fakeCategories struct{}

func (fakeCategories) List(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{{Name: "Go"}}, nil
}

type fakeAuthors struct{}

func (fakeAuthors) Get(_ context.Context, id string) (domain.Author, error) {
	return domain.Author{ID: id, Name: "Ann"}, nil
}

type fakeSubscribe struct {
	emails []string
}

func (f *fakeSubscribe) Subscribe(_ context.Context, email string) error {
	if !domain.ValidEmail(email) {
		return domain.NewInvalidArgument("email", "must be a valid address")
	}
	f.emails = append(f.emails, email)
	return nil
}

type fakeOutline struct{}

func (fakeOutline) Prepare(format outlineuc.Format, content string) (outlineuc.Result, error) {
	return outlineuc.Result{Format: format, Content: content}, nil
}

func (fakeOutline) ForPost(_ context.Context, _ string) (outlineuc.Result, error) {
	return outlineuc.Result{}, fmt.Errorf("outline: %w", domain.ErrQueryFailed)
}

type fakeSitemap struct{}

func (fakeSitemap) Generate(_ context.Context) ([]byte, error) {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><urlset></urlset>`), nil
}

type fakeHealth struct {
	status healthuc.Status
}

func (f fakeHealth) Check(_ context.Context) healthuc.Report {
	return healthuc.Report{Status: f.status, Checks: map[string]healthuc.CheckResult{}}
}

type testEnv struct {
	handler   http.Handler
	posts     *fakePosts
	comments  *fakeComments
	subscribe *fakeSubscribe
}

func newTestEnv(health healthuc.Status) *testEnv {
	env := &testEnv{posts: &fakePosts{}, comments: &fakeComments{}, subscribe: &fakeSubscribe{}}
	srv := NewServer(Services{
		Posts:      env.posts,
		Comments:   env.comments,
		Categories: fakeCategories{},
		Authors:    fakeAuthors{},
		Subscribe:  env.subscribe,
		Outline:    fakeOutline{},
		Sitemap:    fakeSitemap{},
		Health:     fakeHealth{status: health},
	})
	env.handler = NewRouter(srv, []string{"secret"}, zap.NewNop())
	return env
}

func (e *testEnv) do(method, path, body string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth {
		req.Header.Set("Authorization", "Bearer secret")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestListPosts_Dispatch(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/posts", "recent"},
		{"/posts?category=go", "category:go"},
		{"/posts?author=u1", "author:u1"},
		{"/posts/popular", "popular"},
		{"/posts/search?q=gen", "search:gen"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			env := newTestEnv(healthuc.Healthy)
			rr := env.do(http.MethodGet, tc.path, "", false)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
			}
			if len(env.posts.calls) != 1 || env.posts.calls[0] != tc.want {
				t.Errorf("calls = %v, want %s", env.posts.calls, tc.want)
			}
			var resp ListResponse[domain.Post]
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Count != 1 || resp.Items[0].Slug != "hello" {
				t.Errorf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestListPosts_BindsParams(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	rr := env.do(http.MethodGet, "/posts?limit=5&after=2024-05-01T10:00:00Z", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if env.posts.limit != 5 {
		t.Errorf("limit = %d, want 5", env.posts.limit)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if env.posts.after == nil || !env.posts.after.Equal(want) {
		t.Errorf("after = %v, want %v", env.posts.after, want)
	}
}

func TestListPosts_BadParams(t *testing.T) {
	for _, path := range []string{"/posts?limit=ten", "/posts?after=yesterday"} {
		env := newTestEnv(healthuc.Healthy)
		rr := env.do(http.MethodGet, path, "", false)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rr.Code)
		}
		if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
			t.Errorf("%s: code = %s", path, resp.Code)
		}
		if len(env.posts.calls) != 0 {
			t.Errorf("%s: service must not be called", path)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		code   ErrorCode
	}{
		{"not found", "/posts/missing", http.StatusNotFound, CodeNotFound},
		{"invalid argument", "/posts/search", http.StatusBadRequest, CodeInvalidArgument},
		{"query failed", "/posts/hello/outline", http.StatusBadGateway, CodeUpstreamFailed},
		{"unknown route", "/nope", http.StatusNotFound, CodeNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := newTestEnv(healthuc.Healthy).do(http.MethodGet, tc.path, "", false)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tc.status, rr.Body)
			}
			if resp := decodeError(t, rr); resp.Code != tc.code {
				t.Errorf("code = %s, want %s", resp.Code, tc.code)
			}
		})
	}
}

func TestErrorMapping_HidesInternals(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	env.posts.err = fmt.Errorf("recent posts: list posts: %w", fmt.Errorf("%w: firestore 502 secret-detail", domain.ErrQueryFailed))

	rr := env.do(http.MethodGet, "/posts", "", false)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Message != domain.ErrQueryFailed.Error() {
		t.Errorf("message leaks internals: %q", resp.Message)
	}
}

func TestErrorMapping_Internal(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	env.posts.err = fmt.Errorf("boom")

	rr := env.do(http.MethodGet, "/stats", "", false)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestWriteRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	for _, path := range []string{"/subscribers", "/outline", "/posts/hello/comments"} {
		rr := env.do(http.MethodPost, path, `{}`, false)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rr.Code)
		}
	}
	if rr := env.do(http.MethodGet, "/posts/hello/comments", "", false); rr.Code != http.StatusOK {
		t.Errorf("GET comments must stay public, got %d", rr.Code)
	}
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	rr := env.do(http.MethodPost, "/posts/hello/comments", `{"authorName":"Ann","content":"Nice"}`, true)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if len(env.comments.added) != 1 || env.comments.added[0].PostID != "hello" {
		t.Errorf("added = %+v", env.comments.added)
	}

	rr = env.do(http.MethodPost, "/posts/hello/comments", `{"authorName":"Ann"}`, true)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing content: status = %d, want 400", rr.Code)
	}

	rr = env.do(http.MethodPost, "/posts/hello/comments", `{not json`, true)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want 400", rr.Code)
	}
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	if rr := env.do(http.MethodPost, "/subscribers", `{"email":"a@b.com"}`, true); rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if rr := env.do(http.MethodPost, "/subscribers", `{"email":"nope"}`, true); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid email: status = %d, want 400", rr.Code)
	}
	if len(env.subscribe.emails) != 1 {
		t.Errorf("emails = %v", env.subscribe.emails)
	}
}

func TestPrepareOutline(t *testing.T) {
	env := newTestEnv(healthuc.Healthy)
	rr := env.do(http.MethodPost, "/outline", `{"format":"markdown","content":"# Hi"}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	var res outlineuc.Result
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Format != outlineuc.FormatMarkdown || res.Content != "# Hi" {
		t.Errorf("unexpected result: %+v", res)
	}

	if rr := env.do(http.MethodPost, "/outline", `{"format":"docx"}`, true); rr.Code != http.StatusBadRequest {
		t.Errorf("unknown format: status = %d, want 400", rr.Code)
	}
}

func TestSitemap(t *testing.T) {
	rr := newTestEnv(healthuc.Healthy).do(http.MethodGet, "/sitemap.xml", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("content-type = %q", ct)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		status healthuc.Status
		want   int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusOK},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		rr := newTestEnv(tc.status).do(http.MethodGet, "/health", "", false)
		if rr.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.status, rr.Code, tc.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	rr := newTestEnv(healthuc.Healthy).do(http.MethodGet, "/categories", "", false)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeInternalError {
		t.Errorf("code = %s", resp.Code)
	}
}
