package services

import (
	"errors"
	"testing"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/repositories"
	"github.com/alimgiray/commentbox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, userRepo *repositories.UserRepository, id int64, username string) {
	t.Helper()
	now := time.Now()
	err := userRepo.Upsert(&models.User{
		GitHubUserID: id,
		Username:     username,
		ProfileURL:   "https://github.com/" + username,
		AvatarURL:    "https://avatars.githubusercontent.com/u/1",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
}

func TestSessionCreateAndValidate(t *testing.T) {
	db := testutil.NewDB(t)
	seedUser(t, repositories.NewUserRepository(db), 42, "octocat")

	service := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	session, err := service.Create(42)
	require.NoError(t, err)
	assert.Len(t, session.Token, 64)
	assert.Equal(t, int64(42), session.GitHubUserID)

	validated, err := service.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), validated.GitHubUserID)
}

func TestSessionValidateFailures(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	_, err := service.Validate("")
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))

	_, err = service.Validate("deadbeef")
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}

func TestSessionExpiryBoundary(t *testing.T) {
	db := testutil.NewDB(t)
	seedUser(t, repositories.NewUserRepository(db), 42, "octocat")

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := NewSessionService(repositories.NewSessionRepository(db), time.Hour)
	service.now = func() time.Time { return issued }

	session, err := service.Create(42)
	require.NoError(t, err)

	// Still valid one instant before expiry
	service.now = func() time.Time { return issued.Add(time.Hour - time.Second) }
	_, err = service.Validate(session.Token)
	assert.NoError(t, err)

	// Rejected at exactly expires_at
	service.now = func() time.Time { return issued.Add(time.Hour) }
	_, err = service.Validate(session.Token)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}

func TestSessionInvalidate(t *testing.T) {
	db := testutil.NewDB(t)
	seedUser(t, repositories.NewUserRepository(db), 42, "octocat")

	service := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	session, err := service.Create(42)
	require.NoError(t, err)

	require.NoError(t, service.Invalidate(session.Token))

	_, err = service.Validate(session.Token)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))

	// Invalidating again is a no-op
	assert.NoError(t, service.Invalidate(session.Token))
}

func TestConcurrentSessionsPerUser(t *testing.T) {
	db := testutil.NewDB(t)
	seedUser(t, repositories.NewUserRepository(db), 42, "octocat")

	service := NewSessionService(repositories.NewSessionRepository(db), time.Hour)

	first, err := service.Create(42)
	require.NoError(t, err)
	second, err := service.Create(42)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// Minting a second session must not kill the first
	_, err = service.Validate(first.Token)
	assert.NoError(t, err)
	_, err = service.Validate(second.Token)
	assert.NoError(t, err)
}
