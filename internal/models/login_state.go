package models

import (
	"net/url"
	"time"
)

// LoginAction is the write operation a browser was attempting when it
// got redirected into the OAuth flow.
type LoginAction string

const (
	ActionComment LoginAction = "comment"
	ActionEdit    LoginAction = "edit"
	ActionDelete  LoginAction = "delete"
)

// LoginState is the single-use anti-forgery token for one login
// attempt, together with the serialized pending action so the flow can
// resume after the GitHub callback.
type LoginState struct {
	State       string
	Action      LoginAction
	BlogID      string
	CommentID   string
	BlogURL     string
	CommentText string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the login attempt has timed out.
func (s *LoginState) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ResumePath returns the relative URL that re-dispatches the pending
// action once the browser holds a fresh session cookie.
func (s *LoginState) ResumePath() string {
	v := url.Values{}
	switch s.Action {
	case ActionComment:
		v.Set("blog_id", s.BlogID)
		v.Set("blog_url", s.BlogURL)
		v.Set("comment_text", s.CommentText)
		return "/do_comment?" + v.Encode()
	case ActionEdit:
		v.Set("comment_id", s.CommentID)
		v.Set("blog_url", s.BlogURL)
		v.Set("comment_text", s.CommentText)
		return "/edit_comment?" + v.Encode()
	case ActionDelete:
		v.Set("comment_id", s.CommentID)
		v.Set("blog_url", s.BlogURL)
		return "/del_comment?" + v.Encode()
	}
	return "/"
}
