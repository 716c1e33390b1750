package repositories

import (
	"database/sql"

	"github.com/alimgiray/commentbox/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Upsert creates the user on first login and overwrites the profile
// fields on every subsequent login. Profile data is always treated as
// authoritative-fresh.
func (r *UserRepository) Upsert(user *models.User) error {
	query := `
		INSERT INTO users (github_user_id, username, profile_url, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(github_user_id) DO UPDATE SET
			username = excluded.username,
			profile_url = excluded.profile_url,
			avatar_url = excluded.avatar_url,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		user.GitHubUserID,
		user.Username,
		user.ProfileURL,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// GetByID retrieves a user by GitHub user id
func (r *UserRepository) GetByID(githubUserID int64) (*models.User, error) {
	query := `SELECT github_user_id, username, profile_url, avatar_url, created_at, updated_at FROM users WHERE github_user_id = ?`

	var user models.User
	err := r.db.QueryRow(query, githubUserID).Scan(
		&user.GitHubUserID,
		&user.Username,
		&user.ProfileURL,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
