package domain

import (
	"fmt"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

// Post statuses.
const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusScheduled PostStatus = "scheduled"
)

// ParsePostStatus validates a status string.
func ParsePostStatus(s string) (PostStatus, error) {
	switch PostStatus(s) {
	case StatusDraft, StatusPublished, StatusScheduled:
		return PostStatus(s), nil
	}
	return "", NewInvalidArgument("status", fmt.Sprintf("unknown status %q", s))
}

// Post is a blog post.
type Post struct {
	Slug          string     `firestore:"slug" json:"slug"`
	Title         string     `firestore:"title" json:"title"`
	Content       string     `firestore:"content" json:"content,omitempty"`
	Excerpt       string     `firestore:"excerpt" json:"excerpt,omitempty"`
	PublishedAt   *time.Time `firestore:"publishedAt" json:"publishedAt,omitempty"`
	UpdatedAt     *time.Time `firestore:"updatedAt" json:"updatedAt,omitempty"`
	AuthorID      string     `firestore:"authorId" json:"authorId,omitempty"`
	Author        *Author    `firestore:"author" json:"author,omitempty"`
	Categories    []string   `firestore:"categories" json:"categories,omitempty"`
	Tags          []string   `firestore:"tags" json:"tags,omitempty"`
	Status        PostStatus `firestore:"status" json:"status,omitempty"`
	FeaturedImage string     `firestore:"featuredImage" json:"featuredImage,omitempty"`
	ImageCaption  string     `firestore:"imageCaption" json:"imageCaption,omitempty"`
	ReadTime      int        `firestore:"readTime" json:"readTime,omitempty"`
	LikeCount     int        `firestore:"likeCount" json:"likeCount"`
	CommentCount  int        `firestore:"commentCount" json:"commentCount"`
	RelatedPosts  []string   `firestore:"relatedPosts" json:"relatedPosts,omitempty"`
	IsNews        bool       `firestore:"isNews" json:"isNews,omitempty"`
}

// OverviewFields are the fields needed to render a post card.
var OverviewFields = []string{
	"slug",
	"categories",
	"title",
	"readTime",
	"excerpt",
	"featuredImage",
	"authorId",
	"likeCount",
	"commentCount",
	"publishedAt",
}

// Published reports whether the post is publicly visible.
func (p *Post) Published() bool { return p.Status == StatusPublished }

// LastModified returns the most recent of UpdatedAt and PublishedAt.
func (p *Post) LastModified() time.Time {
	var t time.Time
	if p.PublishedAt != nil {
		t = *p.PublishedAt
	}
	if p.UpdatedAt != nil && p.UpdatedAt.After(t) {
		t = *p.UpdatedAt
	}
	return t
}
