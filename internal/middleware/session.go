package middleware

import (
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/services"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session"

// SessionMiddleware resolves the session cookie to an identity and
// stores it in the request context. Requests without a valid session
// proceed as anonymous; the handlers decide what that means.
func SessionMiddleware(sessionService *services.SessionService, userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err == nil {
			if session, err := sessionService.Validate(token); err == nil {
				c.Set("session", session)
				if user, err := userService.GetByID(session.GitHubUserID); err == nil {
					c.Set("user", user)
				}
			}
		}

		c.Next()
	}
}

// GetSession retrieves the validated session from context, nil if anonymous
func GetSession(c *gin.Context) *models.Session {
	value, exists := c.Get("session")
	if !exists {
		return nil
	}

	if session, ok := value.(*models.Session); ok {
		return session
	}

	return nil
}

// GetUser retrieves the authenticated user from context, nil if anonymous
func GetUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}

	if user, ok := value.(*models.User); ok {
		return user
	}

	return nil
}

// SetSessionCookie stores the session token in the browser
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", false, true)
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}
