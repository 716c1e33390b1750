package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/repositories"
)

type CommentService struct {
	commentRepo *repositories.CommentRepository
	now         func() time.Time
}

func NewCommentService(commentRepo *repositories.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		now:         time.Now,
	}
}

// CreateComment creates a comment authored by the given GitHub user.
// Callers must already have checked the blog id whitelist.
func (s *CommentService) CreateComment(blogID string, authorID int64, text string) (*models.Comment, error) {
	comment := models.NewComment(blogID, authorID, text, s.now())

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, apperror.Storage("create comment", err)
	}

	return comment, nil
}

// GetComment retrieves the public view of a single comment
func (s *CommentService) GetComment(id string) (*models.PublicComment, error) {
	comment, err := s.commentRepo.GetWithAuthor(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, apperror.Storage("load comment", err)
	}

	public := comment.Public()
	return &public, nil
}

// ListComments retrieves all comments for a blog post ordered by
// creation date. A blog with no comments yields an empty slice, not nil.
func (s *CommentService) ListComments(blogID string) ([]models.PublicComment, error) {
	comments, err := s.commentRepo.ListByBlogID(blogID)
	if err != nil {
		return nil, apperror.Storage("list comments", err)
	}

	public := make([]models.PublicComment, 0, len(comments))
	for _, comment := range comments {
		public = append(public, comment.Public())
	}
	return public, nil
}

// EditComment updates the comment text and edit date. Only the author
// may edit; admins override.
func (s *CommentService) EditComment(id string, text string, actorID int64, actorIsAdmin bool) error {
	comment, err := s.loadForMutation(id, actorID, actorIsAdmin)
	if err != nil {
		return err
	}

	if err := s.commentRepo.UpdateText(comment.ID, text, s.now()); err != nil {
		return apperror.Storage("update comment", err)
	}

	return nil
}

// DeleteComment removes a comment. Only the author may delete; admins
// override.
func (s *CommentService) DeleteComment(id string, actorID int64, actorIsAdmin bool) error {
	comment, err := s.loadForMutation(id, actorID, actorIsAdmin)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return apperror.Storage("delete comment", err)
	}

	return nil
}

// GetRaw retrieves a comment without author data, used by handlers to
// 404 on unknown ids before starting an OAuth round-trip.
func (s *CommentService) GetRaw(id string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, apperror.Storage("load comment", err)
	}
	return comment, nil
}

func (s *CommentService) loadForMutation(id string, actorID int64, actorIsAdmin bool) (*models.Comment, error) {
	comment, err := s.GetRaw(id)
	if err != nil {
		return nil, err
	}

	if !IsOwner(actorID, comment) && !actorIsAdmin {
		return nil, apperror.Forbidden("not the comment author")
	}

	return comment, nil
}
