package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alimgiray/commentbox/internal/middleware"
	"github.com/alimgiray/commentbox/internal/repositories"
	"github.com/alimgiray/commentbox/internal/services"
	"github.com/alimgiray/commentbox/internal/testutil"
	"github.com/alimgiray/commentbox/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router   *gin.Engine
	users    *services.UserService
	sessions *services.SessionService
	states   *services.LoginStateService
	comments *services.CommentService
}

func newFixture(t *testing.T, blogIDs, admins []string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, config.Load())

	db := testutil.NewDB(t)

	userService := services.NewUserService(repositories.NewUserRepository(db))
	commentService := services.NewCommentService(repositories.NewCommentRepository(db))
	sessionService := services.NewSessionService(repositories.NewSessionRepository(db), time.Hour)
	stateService := services.NewLoginStateService(repositories.NewLoginStateRepository(db), time.Hour)
	githubService := services.NewGitHubService()
	whitelist := services.NewWhitelist(blogIDs, nil, admins)

	commentHandler := NewCommentHandler(commentService, stateService, githubService, whitelist, nil)
	authHandler := NewAuthHandler(userService, sessionService, stateService, githubService, "http://localhost:8080")

	router := gin.New()
	router.Use(middleware.SessionMiddleware(sessionService, userService))
	router.GET("/get_comment", commentHandler.GetComment)
	router.GET("/get_comments", commentHandler.GetComments)
	router.GET("/do_comment", commentHandler.DoComment)
	router.GET("/edit_comment", commentHandler.EditComment)
	router.GET("/del_comment", commentHandler.DelComment)
	router.GET("/export_comments", commentHandler.ExportComments)
	router.GET("/auth/github/callback", authHandler.GitHubCallback)
	router.GET("/logout", authHandler.Logout)

	return &fixture{
		router:   router,
		users:    userService,
		sessions: sessionService,
		states:   stateService,
		comments: commentService,
	}
}

// loginAs seeds a user and returns a valid session cookie for it
func (f *fixture) loginAs(t *testing.T, id int64, username string) *http.Cookie {
	t.Helper()
	_, err := f.users.UpsertFromGitHub(&services.GitHubProfile{
		ID:         id,
		Login:      username,
		ProfileURL: "https://github.com/" + username,
		AvatarURL:  "https://avatars.githubusercontent.com/u/1",
	})
	require.NoError(t, err)

	session, err := f.sessions.Create(id)
	require.NoError(t, err)

	return &http.Cookie{Name: "session", Value: session.Token}
}

func (f *fixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGetCommentsEmptyArray(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)

	w := f.get("/get_comments?blog_id=my_blog_post")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestGetCommentsMissingBlogID(t *testing.T) {
	f := newFixture(t, nil, nil)

	w := f.get("/get_comments")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCommentNotFound(t *testing.T) {
	f := newFixture(t, nil, nil)

	w := f.get("/get_comment?comment_id=no-such-comment")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDoCommentNotWhitelisted(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	cookie := f.loginAs(t, 42, "octocat")

	w := f.get("/do_comment?blog_id=other_post&blog_url=https://x/y&comment_text=hi", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No row was created
	comments, err := f.comments.ListComments("other_post")
	require.NoError(t, err)
	assert.Len(t, comments, 0)
}

func TestDoCommentNotWhitelistedAnonymousSkipsOAuth(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)

	// Whitelist miss is rejected before the OAuth redirect
	w := f.get("/do_comment?blog_id=other_post&blog_url=https://x/y&comment_text=hi")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestDoCommentAnonymousRedirectsIntoOAuth(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)

	w := f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=hello")
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", location.Host)
	assert.Equal(t, "/login/oauth/authorize", location.Path)

	// The state parameter references a stored pending action
	state, err := f.states.Consume(location.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, "my_blog_post", state.BlogID)
	assert.Equal(t, "https://x/y", state.BlogURL)
	assert.Equal(t, "hello", state.CommentText)
}

func TestDoCommentAuthenticatedRoundTrip(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	cookie := f.loginAs(t, 42, "octocat")

	w := f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=first!", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://x/y", w.Header().Get("Location"))

	comments, err := f.comments.ListComments("my_blog_post")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first!", comments[0].Comment)
	assert.Equal(t, "octocat", comments[0].Username)
	assert.Equal(t, comments[0].CreateDate, comments[0].EditDate)

	// Repeated reads return identical content
	first := f.get("/get_comment?comment_id=" + comments[0].CommentID)
	second := f.get("/get_comment?comment_id=" + comments[0].CommentID)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestDoCommentMissingText(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	cookie := f.loginAs(t, 42, "octocat")

	w := f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditCommentOwnership(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	owner := f.loginAs(t, 42, "octocat")
	intruder := f.loginAs(t, 7, "intruder")

	f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=original", owner)
	comments, err := f.comments.ListComments("my_blog_post")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	commentID := comments[0].CommentID

	// Someone else's session gets 403
	w := f.get("/edit_comment?comment_id="+commentID+"&blog_url=https://x/y&comment_text=defaced", intruder)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner's session succeeds
	w = f.get("/edit_comment?comment_id="+commentID+"&blog_url=https://x/y&comment_text=revised", owner)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://x/y", w.Header().Get("Location"))

	updated, err := f.comments.GetComment(commentID)
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Comment)
}

func TestEditCommentMissing(t *testing.T) {
	f := newFixture(t, nil, nil)
	cookie := f.loginAs(t, 42, "octocat")

	w := f.get("/edit_comment?comment_id=no-such&blog_url=https://x/y&comment_text=x", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditCommentAnonymousRedirectsIntoOAuth(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	owner := f.loginAs(t, 42, "octocat")

	f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=original", owner)
	comments, _ := f.comments.ListComments("my_blog_post")
	require.Len(t, comments, 1)

	w := f.get("/edit_comment?comment_id=" + comments[0].CommentID + "&blog_url=https://x/y&comment_text=later")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "github.com/login/oauth/authorize")
}

func TestDelComment(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	owner := f.loginAs(t, 42, "octocat")
	intruder := f.loginAs(t, 7, "intruder")

	f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=doomed", owner)
	comments, _ := f.comments.ListComments("my_blog_post")
	require.Len(t, comments, 1)
	commentID := comments[0].CommentID

	w := f.get("/del_comment?comment_id="+commentID+"&blog_url=https://x/y", intruder)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.get("/del_comment?comment_id="+commentID+"&blog_url=https://x/y", owner)
	require.Equal(t, http.StatusFound, w.Code)

	w = f.get("/get_comment?comment_id=" + commentID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelCommentAdminOverride(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, []string{"site-admin"})
	owner := f.loginAs(t, 42, "octocat")
	admin := f.loginAs(t, 1, "site-admin")

	f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=spam", owner)
	comments, _ := f.comments.ListComments("my_blog_post")
	require.Len(t, comments, 1)

	w := f.get("/del_comment?comment_id="+comments[0].CommentID+"&blog_url=https://x/y", admin)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestCallbackRejectsForgedState(t *testing.T) {
	f := newFixture(t, nil, nil)

	w := f.get("/auth/github/callback?code=stolen-code&state=forged-state")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No session cookie was minted
	for _, cookie := range w.Result().Cookies() {
		assert.NotEqual(t, "session", cookie.Name)
	}
}

func TestCallbackStateSingleUse(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)

	// Begin a real login attempt, then consume its state once
	w := f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=hi")
	require.Equal(t, http.StatusFound, w.Code)
	location, _ := url.Parse(w.Header().Get("Location"))
	state := location.Query().Get("state")

	_, err := f.states.Consume(state)
	require.NoError(t, err)

	// A replayed callback with the same state dies before any exchange
	w = f.get("/auth/github/callback?code=replayed&state=" + state)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, nil)
	cookie := f.loginAs(t, 42, "octocat")

	w := f.get("/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)

	// Session row is gone; the old cookie no longer authenticates
	w = f.get("/do_comment?blog_id=my_blog_post&blog_url=https://x/y&comment_text=hi", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "github.com/login/oauth/authorize")
}

func TestExportCommentsAuth(t *testing.T) {
	f := newFixture(t, []string{"my_blog_post"}, []string{"site-admin"})
	user := f.loginAs(t, 42, "octocat")
	admin := f.loginAs(t, 1, "site-admin")

	w := f.get("/export_comments?blog_id=my_blog_post")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.get("/export_comments?blog_id=my_blog_post", user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.get("/export_comments?blog_id=my_blog_post", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
}
