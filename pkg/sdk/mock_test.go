package inkwell

import (
	"context"
	"time"

	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/query"
	outlineuc "github.com/kailas-cloud/inkwell/internal/usecase/outline"
	postuc "github.com/kailas-cloud/inkwell/internal/usecase/post"
)

// --- queryExecutor mock ---

type mockExecutor struct {
	getFn   func(ctx context.Context, b *query.Builder) ([]domain.Record, error)
	firstFn func(ctx context.Context, b *query.Builder) (domain.Record, error)
	countFn func(ctx context.Context, b *query.Builder) (int, error)
}

func (m *mockExecutor) Get(ctx context.Context, b *query.Builder) ([]domain.Record, error) {
	return m.getFn(ctx, b)
}

func (m *mockExecutor) First(ctx context.Context, b *query.Builder) (domain.Record, error) {
	return m.firstFn(ctx, b)
}

func (m *mockExecutor) Count(ctx context.Context, b *query.Builder) (int, error) {
	return m.countFn(ctx, b)
}

// --- postUseCase mock ---

type mockPostUC struct {
	recentFn func(ctx context.Context, limit int, after *time.Time) ([]domain.Post, error)
	bySlugFn func(ctx context.Context, slug string) (domain.Post, error)
	searchFn func(ctx context.Context, term string, limit int) ([]domain.Post, error)
	statsFn  func(ctx context.Context) (postuc.Stats, error)
}

func (m *mockPostUC) Recent(ctx context.Context, limit int, after *time.Time) ([]domain.Post, error) {
	return m.recentFn(ctx, limit, after)
}

func (m *mockPostUC) ByCategory(context.Context, string, int, *time.Time) ([]domain.Post, error) {
	return nil, nil
}

func (m *mockPostUC) ByAuthor(context.Context, string, int) ([]domain.Post, error) {
	return nil, nil
}

func (m *mockPostUC) Popular(context.Context, int) ([]domain.Post, error) {
	return nil, nil
}

func (m *mockPostUC) BySlug(ctx context.Context, slug string) (domain.Post, error) {
	return m.bySlugFn(ctx, slug)
}

func (m *mockPostUC) Search(ctx context.Context, term string, limit int) ([]domain.Post, error) {
	return m.searchFn(ctx, term, limit)
}

func (m *mockPostUC) Stats(ctx context.Context) (postuc.Stats, error) {
	return m.statsFn(ctx)
}

// --- commentUseCase mock ---

type mockCommentUC struct {
	forPostFn func(ctx context.Context, slug string) ([]domain.Comment, error)
	addFn     func(ctx context.Context, c domain.Comment) (domain.Comment, error)
}

func (m *mockCommentUC) ForPost(ctx context.Context, slug string) ([]domain.Comment, error) {
	return m.forPostFn(ctx, slug)
}

func (m *mockCommentUC) Add(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	return m.addFn(ctx, c)
}

// --- outlineUseCase mock ---

type mockOutlineUC struct {
	prepareFn func(format outlineuc.Format, content string) (outlineuc.Result, error)
}

func (m *mockOutlineUC) Prepare(format outlineuc.Format, content string) (outlineuc.Result, error) {
	return m.prepareFn(format, content)
}

func (m *mockOutlineUC) ForPost(context.Context, string) (outlineuc.Result, error) {
	return outlineuc.Result{}, domain.ErrNotFound
}
