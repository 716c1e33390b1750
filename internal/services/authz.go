package services

import (
	"strings"

	"github.com/alimgiray/commentbox/internal/models"
)

// IsOwner reports whether the given GitHub user authored the comment.
// Only the owner (or an admin) may edit or delete it.
func IsOwner(githubUserID int64, comment *models.Comment) bool {
	return comment != nil && comment.AuthorID == githubUserID
}

// Whitelist is the immutable set of blog ids allowed to receive
// comments, plus allowed blog URL prefixes and admin usernames.
// Loaded once at startup, safe for concurrent reads.
type Whitelist struct {
	blogIDs     map[string]struct{}
	urlPrefixes []string
	admins      map[string]struct{}
}

func NewWhitelist(blogIDs, urlPrefixes, admins []string) *Whitelist {
	w := &Whitelist{
		blogIDs:     make(map[string]struct{}, len(blogIDs)),
		urlPrefixes: urlPrefixes,
		admins:      make(map[string]struct{}, len(admins)),
	}
	for _, id := range blogIDs {
		w.blogIDs[id] = struct{}{}
	}
	for _, admin := range admins {
		w.admins[admin] = struct{}{}
	}
	return w
}

// IsAllowed reports whether the blog id may receive new comments.
func (w *Whitelist) IsAllowed(blogID string) bool {
	_, ok := w.blogIDs[blogID]
	return ok
}

// IsAllowedURL reports whether the redirect target matches a configured
// blog URL prefix. An empty prefix list places no restriction.
func (w *Whitelist) IsAllowedURL(blogURL string) bool {
	if len(w.urlPrefixes) == 0 {
		return true
	}
	for _, prefix := range w.urlPrefixes {
		if strings.HasPrefix(blogURL, prefix) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the GitHub username is a configured admin.
// Admins pass the ownership check on edit and delete.
func (w *Whitelist) IsAdmin(username string) bool {
	_, ok := w.admins[username]
	return ok
}
