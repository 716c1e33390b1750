package models

import (
	"time"
)

// Session binds a browser cookie to an authenticated GitHub user id.
// Multiple concurrent sessions per user are permitted.
type Session struct {
	Token        string
	GitHubUserID int64
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the session is invalid at the given instant.
// A session is rejected at exactly ExpiresAt, not one tick later.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
