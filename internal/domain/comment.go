package domain

import (
	"strings"
	"time"
)

// MaxCommentLength bounds comment content in bytes.
const MaxCommentLength = 4096

// Comment is a reader comment on a post.
type Comment struct {
	ID           string    `firestore:"id" json:"id"`
	PostID       string    `firestore:"postId" json:"postId"`
	AuthorName   string    `firestore:"authorName" json:"authorName"`
	AuthorAvatar string    `firestore:"authorAvatar" json:"authorAvatar,omitempty"`
	Content      string    `firestore:"content" json:"content"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
	ParentID     string    `firestore:"parentId" json:"parentId,omitempty"`
	Likes        int       `firestore:"likes" json:"likes"`
}

// Validate checks the fields a reader supplies.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.PostID) == "" {
		return NewInvalidArgument("postId", "is required")
	}
	if strings.TrimSpace(c.AuthorName) == "" {
		return NewInvalidArgument("authorName", "is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return NewInvalidArgument("content", "is required")
	}
	if len(c.Content) > MaxCommentLength {
		return NewInvalidArgument("content", "is too long")
	}
	return nil
}

// Fields returns the stored representation of the comment.
func (c *Comment) Fields() map[string]any {
	f := map[string]any{
		"id":         c.ID,
		"postId":     c.PostID,
		"authorName": c.AuthorName,
		"content":    c.Content,
		"createdAt":  c.CreatedAt,
		"updatedAt":  c.UpdatedAt,
		"likes":      int64(c.Likes),
	}
	if c.AuthorAvatar != "" {
		f["authorAvatar"] = c.AuthorAvatar
	}
	if c.ParentID != "" {
		f["parentId"] = c.ParentID
	}
	return f
}
