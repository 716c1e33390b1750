package models

import (
	"time"
)

// User is a GitHub account that has logged in at least once. Profile
// fields are overwritten on every login, never merged.
type User struct {
	GitHubUserID int64
	Username     string
	ProfileURL   string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
