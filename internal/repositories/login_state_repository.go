package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/commentbox/internal/models"
)

type LoginStateRepository struct {
	db *sql.DB
}

func NewLoginStateRepository(db *sql.DB) *LoginStateRepository {
	return &LoginStateRepository{
		db: db,
	}
}

// Create stores a new login state with its pending action
func (r *LoginStateRepository) Create(state *models.LoginState) error {
	query := `
		INSERT INTO login_states (state, action, blog_id, comment_id, blog_url, comment_text, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		state.State,
		string(state.Action),
		state.BlogID,
		state.CommentID,
		state.BlogURL,
		state.CommentText,
		state.CreatedAt,
		state.ExpiresAt,
	)
	return err
}

// Consume atomically deletes and returns a still-live login state.
// The single DELETE ... RETURNING statement guarantees two concurrent
// callbacks carrying the same state cannot both succeed.
func (r *LoginStateRepository) Consume(state string, now time.Time) (*models.LoginState, error) {
	query := `
		DELETE FROM login_states
		WHERE state = ? AND expires_at > ?
		RETURNING state, action, blog_id, comment_id, blog_url, comment_text, created_at, expires_at
	`

	var ls models.LoginState
	var action string
	err := r.db.QueryRow(query, state, now).Scan(
		&ls.State,
		&action,
		&ls.BlogID,
		&ls.CommentID,
		&ls.BlogURL,
		&ls.CommentText,
		&ls.CreatedAt,
		&ls.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	ls.Action = models.LoginAction(action)
	return &ls, nil
}

// DeleteExpired removes timed-out login attempts
func (r *LoginStateRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM login_states WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
