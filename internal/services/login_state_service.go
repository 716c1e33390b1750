package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/repositories"
	"github.com/google/uuid"
)

type LoginStateService struct {
	stateRepo *repositories.LoginStateRepository
	ttl       time.Duration
	now       func() time.Time
}

func NewLoginStateService(stateRepo *repositories.LoginStateRepository, ttl time.Duration) *LoginStateService {
	return &LoginStateService{
		stateRepo: stateRepo,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Begin records a pending write action and returns the anti-forgery
// state that will accompany the GitHub authorization redirect.
func (s *LoginStateService) Begin(action models.LoginAction, blogID, commentID, blogURL, commentText string) (*models.LoginState, error) {
	now := s.now()
	state := &models.LoginState{
		State:       uuid.New().String(),
		Action:      action,
		BlogID:      blogID,
		CommentID:   commentID,
		BlogURL:     blogURL,
		CommentText: commentText,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.stateRepo.Create(state); err != nil {
		return nil, apperror.Storage("create login state", err)
	}

	return state, nil
}

// Consume redeems a state exactly once. A replayed, unknown or expired
// state fails with InvalidState and the caller must not exchange the
// accompanying authorization code.
func (s *LoginStateService) Consume(state string) (*models.LoginState, error) {
	if state == "" {
		return nil, apperror.InvalidState("missing state parameter")
	}

	ls, err := s.stateRepo.Consume(state, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.InvalidState("state unknown, expired or already used")
		}
		return nil, apperror.Storage("consume login state", err)
	}

	return ls, nil
}
