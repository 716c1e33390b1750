package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/commentbox/internal/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create creates a new session row
func (r *SessionRepository) Create(session *models.Session) error {
	query := `
		INSERT INTO sessions (token, github_user_id, issued_at, expires_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		session.Token,
		session.GitHubUserID,
		session.IssuedAt,
		session.ExpiresAt,
	)
	return err
}

// GetByToken retrieves a session by token
func (r *SessionRepository) GetByToken(token string) (*models.Session, error) {
	query := `SELECT token, github_user_id, issued_at, expires_at FROM sessions WHERE token = ?`

	var session models.Session
	err := r.db.QueryRow(query, token).Scan(
		&session.Token,
		&session.GitHubUserID,
		&session.IssuedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Delete removes a session by token
func (r *SessionRepository) Delete(token string) error {
	query := `DELETE FROM sessions WHERE token = ?`

	_, err := r.db.Exec(query, token)
	return err
}

// DeleteExpired removes all sessions past their expiry. Best-effort
// garbage collection; validation never relies on it.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
