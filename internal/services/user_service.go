package services

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/alimgiray/commentbox/internal/apperror"
	"github.com/alimgiray/commentbox/internal/models"
	"github.com/alimgiray/commentbox/internal/repositories"
)

type UserService struct {
	userRepo *repositories.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// UpsertFromGitHub creates or refreshes the directory entry for a
// GitHub profile. Called on every successful login; the fetched profile
// always wins over stored data.
func (s *UserService) UpsertFromGitHub(profile *GitHubProfile) (*models.User, error) {
	now := s.now()
	user := &models.User{
		GitHubUserID: profile.ID,
		Username:     profile.Login,
		ProfileURL:   profile.ProfileURL,
		AvatarURL:    profile.AvatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Upsert(user); err != nil {
		return nil, apperror.Storage("upsert user", err)
	}

	return user, nil
}

// GetByID retrieves a user by GitHub user id
func (s *UserService) GetByID(githubUserID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(githubUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", strconv.FormatInt(githubUserID, 10))
		}
		return nil, apperror.Storage("load user", err)
	}
	return user, nil
}
