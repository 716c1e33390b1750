package handlers

import (
	"fmt"
	"net/http"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/middleware"
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/services"
	"github.com/alimgiray/commentbox/internal/workers"
	"github.com/alimgiray/commentbox/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type CommentHandler struct {
	commentService *services.CommentService
	stateService   *services.LoginStateService
	githubService  *services.GitHubService
	whitelist      *services.Whitelist
	publish        func(workers.CommentEvent)
}

func NewCommentHandler(commentService *services.CommentService, stateService *services.LoginStateService, githubService *services.GitHubService, whitelist *services.Whitelist, publish func(workers.CommentEvent)) *CommentHandler {
	if publish == nil {
		publish = func(workers.CommentEvent) {}
	}
	return &CommentHandler{
		commentService: commentService,
		stateService:   stateService,
		githubService:  githubService,
		whitelist:      whitelist,
		publish:        publish,
	}
}

// GetComment returns a single comment as JSON
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID := c.Query("comment_id")
	if commentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_id is required"})
		return
	}

	comment, err := h.commentService.GetComment(commentID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// GetComments returns all comments for a blog post, oldest first
func (h *CommentHandler) GetComments(c *gin.Context) {
	blogID := c.Query("blog_id")
	if blogID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_id is required"})
		return
	}

	comments, err := h.commentService.ListComments(blogID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// DoComment creates a comment and sends the browser back to the blog.
// An anonymous browser is redirected into the OAuth flow instead, with
// the pending comment carried in the login state.
func (h *CommentHandler) DoComment(c *gin.Context) {
	blogID := c.Query("blog_id")
	blogURL := c.Query("blog_url")
	commentText := c.Query("comment_text")

	if blogID == "" || blogURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_id and blog_url are required"})
		return
	}
	if !h.whitelist.IsAllowedURL(blogURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_url is not an allowed redirect target"})
		return
	}

	// Whitelist miss rejects before any OAuth round-trip
	if !h.whitelist.IsAllowed(blogID) {
		logger.Warnf("Rejected comment for non-whitelisted blog id %q", blogID)
		c.JSON(http.StatusForbidden, gin.H{"error": "blog_id is not whitelisted"})
		return
	}

	user := middleware.GetUser(c)
	if user == nil {
		h.redirectToLogin(c, models.ActionComment, blogID, "", blogURL, commentText)
		return
	}

	if commentText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_text is required"})
		return
	}

	comment, err := h.commentService.CreateComment(blogID, user.GitHubUserID, commentText)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.publish(workers.CommentEvent{
		CommentID: comment.ID,
		BlogID:    comment.BlogID,
		Author:    user.Username,
	})

	c.Redirect(http.StatusFound, blogURL)
}

// EditComment updates a comment's text and sends the browser back to
// the blog
func (h *CommentHandler) EditComment(c *gin.Context) {
	commentID := c.Query("comment_id")
	blogURL := c.Query("blog_url")
	commentText := c.Query("comment_text")

	if commentID == "" || blogURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_id and blog_url are required"})
		return
	}
	if !h.whitelist.IsAllowedURL(blogURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_url is not an allowed redirect target"})
		return
	}

	// 404 on unknown comments before starting an OAuth round-trip
	if _, err := h.commentService.GetRaw(commentID); err != nil {
		h.abortWithError(c, err)
		return
	}

	user := middleware.GetUser(c)
	if user == nil {
		h.redirectToLogin(c, models.ActionEdit, "", commentID, blogURL, commentText)
		return
	}

	if commentText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_text is required"})
		return
	}

	err := h.commentService.EditComment(commentID, commentText, user.GitHubUserID, h.whitelist.IsAdmin(user.Username))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, blogURL)
}

// DelComment deletes a comment and sends the browser back to the blog
func (h *CommentHandler) DelComment(c *gin.Context) {
	commentID := c.Query("comment_id")
	blogURL := c.Query("blog_url")

	if commentID == "" || blogURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_id and blog_url are required"})
		return
	}
	if !h.whitelist.IsAllowedURL(blogURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_url is not an allowed redirect target"})
		return
	}

	if _, err := h.commentService.GetRaw(commentID); err != nil {
		h.abortWithError(c, err)
		return
	}

	user := middleware.GetUser(c)
	if user == nil {
		h.redirectToLogin(c, models.ActionDelete, "", commentID, blogURL, "")
		return
	}

	err := h.commentService.DeleteComment(commentID, user.GitHubUserID, h.whitelist.IsAdmin(user.Username))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, blogURL)
}

// ExportComments streams a blog's comments as an xlsx workbook.
// Admin only.
func (h *CommentHandler) ExportComments(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if !h.whitelist.IsAdmin(user.Username) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	blogID := c.Query("blog_id")
	if blogID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blog_id is required"})
		return
	}

	comments, err := h.commentService.ListComments(blogID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Comments"
	file.SetSheetName("Sheet1", sheet)

	headers := []interface{}{"Comment ID", "Username", "Profile URL", "Created", "Edited", "Comment"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		h.abortWithError(c, apperror.Storage("build export", err))
		return
	}

	for i, comment := range comments {
		row := []interface{}{
			comment.CommentID,
			comment.Username,
			comment.UserURL,
			comment.CreateDate,
			comment.EditDate,
			comment.Comment,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			h.abortWithError(c, apperror.Storage("build export", err))
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-comments.xlsx", blogID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		logger.WithError(err).Errorf("Failed to stream export for blog %s", blogID)
	}
}

// redirectToLogin stores the pending action and sends the browser to
// GitHub's authorization endpoint
func (h *CommentHandler) redirectToLogin(c *gin.Context, action models.LoginAction, blogID, commentID, blogURL, commentText string) {
	state, err := h.stateService.Begin(action, blogID, commentID, blogURL, commentText)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.githubService.AuthURL(state.State))
}

func (h *CommentHandler) abortWithError(c *gin.Context, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.Request.URL.Path)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
