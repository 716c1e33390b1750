package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a single comment on an external blog post. Invariant:
// EditDate >= CreateDate.
type Comment struct {
	ID         string
	BlogID     string
	AuthorID   int64
	Text       string
	CreateDate time.Time
	EditDate   time.Time
}

// CommentWithAuthor is a comment joined with its author's profile,
// as read back for the public endpoints.
type CommentWithAuthor struct {
	Comment
	Username   string
	ProfileURL string
	AvatarURL  string
}

// PublicComment is the JSON shape served by get_comment and
// get_comments. It never carries internal fields.
type PublicComment struct {
	CommentID  string `json:"comment_id"`
	Username   string `json:"username"`
	UserURL    string `json:"userurl"`
	UserAvatar string `json:"useravatar"`
	CreateDate string `json:"create_date"`
	EditDate   string `json:"edit_date"`
	Comment    string `json:"comment"`
}

// NewComment creates a comment with a fresh id and both dates set to now.
func NewComment(blogID string, authorID int64, text string, now time.Time) *Comment {
	return &Comment{
		ID:         uuid.New().String(),
		BlogID:     blogID,
		AuthorID:   authorID,
		Text:       text,
		CreateDate: now,
		EditDate:   now,
	}
}

// Public renders the comment for the read API. Dates are formatted
// RFC3339 rather than raw epoch values.
func (c *CommentWithAuthor) Public() PublicComment {
	return PublicComment{
		CommentID:  c.ID,
		Username:   c.Username,
		UserURL:    c.ProfileURL,
		UserAvatar: c.AvatarURL,
		CreateDate: c.CreateDate.Format(time.RFC3339),
		EditDate:   c.EditDate.Format(time.RFC3339),
		Comment:    c.Text,
	}
}
