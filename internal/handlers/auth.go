package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/middleware"
	"github.com/alimgiray/commentbox/internal/services"
	"github.com/alimgiray/commentbox/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService    *services.UserService
	sessionService *services.SessionService
	stateService   *services.LoginStateService
	githubService  *services.GitHubService
	baseURL        string
}

func NewAuthHandler(userService *services.UserService, sessionService *services.SessionService, stateService *services.LoginStateService, githubService *services.GitHubService, baseURL string) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		stateService:   stateService,
		githubService:  githubService,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
	}
}

// GitHubCallback completes the OAuth flow: verify the anti-forgery
// state, exchange the code, refresh the user's profile, mint a session
// and resume the pending comment action.
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	// Consume the state before touching the code. A forged or replayed
	// callback fails here and the code is never exchanged.
	state, err := h.stateService.Consume(c.Query("state"))
	if err != nil {
		logger.WithError(err).Warnf("Rejected OAuth callback")
		c.JSON(apperror.Status(err), gin.H{"error": "login attempt is invalid or expired"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	token, err := h.githubService.Exchange(c.Request.Context(), code)
	if err != nil {
		h.failLogin(c, err)
		return
	}

	profile, err := h.githubService.FetchProfile(c.Request.Context(), token)
	if err != nil {
		h.failLogin(c, err)
		return
	}

	user, err := h.userService.UpsertFromGitHub(profile)
	if err != nil {
		h.failLogin(c, err)
		return
	}

	session, err := h.sessionService.Create(user.GitHubUserID)
	if err != nil {
		h.failLogin(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	middleware.SetSessionCookie(c, session.Token, maxAge)

	logger.Infof("User %s (%d) logged in", user.Username, user.GitHubUserID)

	c.Redirect(http.StatusFound, h.baseURL+state.ResumePath())
}

// Logout invalidates the session row and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie("session"); err == nil {
		if err := h.sessionService.Invalidate(token); err != nil {
			logger.WithError(err).Warnf("Failed to invalidate session")
		}
	}

	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// failLogin surfaces a fatal login error. The state is already
// consumed, so the attempt cannot be replayed; no session exists.
func (h *AuthHandler) failLogin(c *gin.Context, err error) {
	logger.WithError(err).Errorf("Login attempt failed")
	c.JSON(apperror.Status(err), gin.H{"error": "login failed, please try again"})
}
