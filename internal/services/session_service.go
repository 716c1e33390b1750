package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/repositories"
)

// tokenLength is the session token length in bytes (32 bytes = 64 hex chars)
const tokenLength = 32

type SessionService struct {
	sessionRepo *repositories.SessionRepository
	ttl         time.Duration
	now         func() time.Time
}

func NewSessionService(sessionRepo *repositories.SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Create mints a session for the given GitHub user with a fresh random
// token. Earlier sessions of the same user stay valid.
func (s *SessionService) Create(githubUserID int64) (*models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, apperror.Storage("generate session token", err)
	}

	now := s.now()
	session := &models.Session{
		Token:        token,
		GitHubUserID: githubUserID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.ttl),
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, apperror.Storage("create session", err)
	}

	return session, nil
}

// Validate resolves a session token to its session. Absent, unknown and
// expired tokens all fail with Unauthenticated; callers treat that as
// "no identity", never as a server error.
func (s *SessionService) Validate(token string) (*models.Session, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("no session token")
	}

	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Unauthenticated("unknown session token")
		}
		return nil, apperror.Storage("load session", err)
	}

	if session.Expired(s.now()) {
		return nil, apperror.Unauthenticated("session expired")
	}

	return session, nil
}

// Invalidate deletes a session row. Deleting an unknown token is not
// an error.
func (s *SessionService) Invalidate(token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(token); err != nil {
		return apperror.Storage("delete session", err)
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
