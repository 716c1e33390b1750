package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/commentbox/internal/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{
		db: db,
	}
}

// Create creates a new comment
func (r *CommentRepository) Create(comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, blog_id, author_id, comment_text, create_date, edit_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		comment.ID,
		comment.BlogID,
		comment.AuthorID,
		comment.Text,
		comment.CreateDate,
		comment.EditDate,
	)
	return err
}

// GetByID retrieves a comment by id without author data
func (r *CommentRepository) GetByID(id string) (*models.Comment, error) {
	query := `SELECT id, blog_id, author_id, comment_text, create_date, edit_date FROM comments WHERE id = ?`

	var comment models.Comment
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID,
		&comment.BlogID,
		&comment.AuthorID,
		&comment.Text,
		&comment.CreateDate,
		&comment.EditDate,
	)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// GetWithAuthor retrieves a comment joined with its author's profile
func (r *CommentRepository) GetWithAuthor(id string) (*models.CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.blog_id, c.author_id, c.comment_text, c.create_date, c.edit_date,
		       u.username, u.profile_url, u.avatar_url
		FROM comments c
		JOIN users u ON u.github_user_id = c.author_id
		WHERE c.id = ?
	`

	var comment models.CommentWithAuthor
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID,
		&comment.BlogID,
		&comment.AuthorID,
		&comment.Text,
		&comment.CreateDate,
		&comment.EditDate,
		&comment.Username,
		&comment.ProfileURL,
		&comment.AvatarURL,
	)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListByBlogID retrieves all comments for a blog post ordered by
// creation date ascending
func (r *CommentRepository) ListByBlogID(blogID string) ([]*models.CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.blog_id, c.author_id, c.comment_text, c.create_date, c.edit_date,
		       u.username, u.profile_url, u.avatar_url
		FROM comments c
		JOIN users u ON u.github_user_id = c.author_id
		WHERE c.blog_id = ?
		ORDER BY c.create_date ASC
	`

	rows, err := r.db.Query(query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.CommentWithAuthor
	for rows.Next() {
		var comment models.CommentWithAuthor
		err := rows.Scan(
			&comment.ID,
			&comment.BlogID,
			&comment.AuthorID,
			&comment.Text,
			&comment.CreateDate,
			&comment.EditDate,
			&comment.Username,
			&comment.ProfileURL,
			&comment.AvatarURL,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// UpdateText updates the comment text and edit date
func (r *CommentRepository) UpdateText(id, text string, editDate time.Time) error {
	query := `UPDATE comments SET comment_text = ?, edit_date = ? WHERE id = ?`

	_, err := r.db.Exec(query, text, editDate, id)
	return err
}

// Delete deletes a comment by id
func (r *CommentRepository) Delete(id string) error {
	query := `DELETE FROM comments WHERE id = ?`

	_, err := r.db.Exec(query, id)
	return err
}
