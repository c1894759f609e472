package inkwell

import (
	"context"
	"fmt"
	"time"
)

// PostService reads posts.
type PostService struct {
	svc postUseCase
	obs *observer
}

// Recent returns the latest published posts, newest first. after continues
// a previous page; nil starts from the top.
func (s *PostService) Recent(ctx context.Context, limit int, after *time.Time) (_ []Post, err error) {
	defer func(start time.Time) { s.obs.observe("posts.recent", CollectionPosts, start, err) }(time.Now())
	posts, err := s.svc.Recent(ctx, limit, after)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}

// ByCategory returns published posts in a category.
func (s *PostService) ByCategory(ctx context.Context, category string, limit int, after *time.Time) (_ []Post, err error) {
	defer func(start time.Time) { s.obs.observe("posts.by_category", CollectionPosts, start, err) }(time.Now())
	posts, err := s.svc.ByCategory(ctx, category, limit, after)
	if err != nil {
		return nil, fmt.Errorf("posts by category: %w", err)
	}
	return posts, nil
}

// ByAuthor returns published posts of an author.
func (s *PostService) ByAuthor(ctx context.Context, authorID string, limit int) (_ []Post, err error) {
	defer func(start time.Time) { s.obs.observe("posts.by_author", CollectionPosts, start, err) }(time.Now())
	posts, err := s.svc.ByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("posts by author: %w", err)
	}
	return posts, nil
}

// Popular returns the most liked published posts.
func (s *PostService) Popular(ctx context.Context, limit int) (_ []Post, err error) {
	defer func(start time.Time) { s.obs.observe("posts.popular", CollectionPosts, start, err) }(time.Now())
	posts, err := s.svc.Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular posts: %w", err)
	}
	return posts, nil
}

// BySlug returns one post with its author.
func (s *PostService) BySlug(ctx context.Context, slug string) (_ Post, err error) {
	defer func(start time.Time) { s.obs.observe("posts.get", CollectionPosts, start, err) }(time.Now())
	p, err := s.svc.BySlug(ctx, slug)
	if err != nil {
		return Post{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// Search matches published posts by title, content, excerpt or tags.
func (s *PostService) Search(ctx context.Context, term string, limit int) (_ []Post, err error) {
	defer func(start time.Time) { s.obs.observe("posts.search", CollectionPosts, start, err) }(time.Now())
	posts, err := s.svc.Search(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

// Stats summarizes blog engagement.
func (s *PostService) Stats(ctx context.Context) (_ Stats, err error) {
	defer func(start time.Time) { s.obs.observe("posts.stats", CollectionPosts, start, err) }(time.Now())
	st, err := s.svc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// CommentService reads and adds comments.
type CommentService struct {
	svc commentUseCase
	obs *observer
}

// ForPost returns the comments of a post, oldest first.
func (s *CommentService) ForPost(ctx context.Context, slug string) (_ []Comment, err error) {
	defer func(start time.Time) { s.obs.observe("comments.list", CollectionComments, start, err) }(time.Now())
	cs, err := s.svc.ForPost(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return cs, nil
}

// Add validates and stores a comment. The returned comment carries its
// generated id and timestamps.
func (s *CommentService) Add(ctx context.Context, c Comment) (_ Comment, err error) {
	defer func(start time.Time) { s.obs.observe("comments.add", CollectionComments, start, err) }(time.Now())
	saved, err := s.svc.Add(ctx, c)
	if err != nil {
		return Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return saved, nil
}

// OutlineService assigns heading anchors and builds tables of contents.
type OutlineService struct {
	svc outlineUseCase
	obs *observer
}

// Prepare processes content in the given format.
func (s *OutlineService) Prepare(format Format, content string) (_ OutlineResult, err error) {
	defer func(start time.Time) { s.obs.observe("outline.prepare", "", start, err) }(time.Now())
	res, err := s.svc.Prepare(format, content)
	if err != nil {
		return OutlineResult{}, fmt.Errorf("prepare outline: %w", err)
	}
	return res, nil
}

// ForPost processes the HTML content of a stored post.
func (s *OutlineService) ForPost(ctx context.Context, slug string) (_ OutlineResult, err error) {
	defer func(start time.Time) { s.obs.observe("outline.post", CollectionPosts, start, err) }(time.Now())
	res, err := s.svc.ForPost(ctx, slug)
	if err != nil {
		return OutlineResult{}, fmt.Errorf("post outline: %w", err)
	}
	return res, nil
}
