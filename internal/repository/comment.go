package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create appends a comment to a video.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, req *model.CommentRequest) (*model.Comment, error) {
	query := `
		INSERT INTO comments (user_id, video_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, video_id, text, created_at
	`
	var c model.Comment
	if err := tx.GetContext(ctx, &c, query, req.UserID, req.VideoID, req.Text); err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return nil, model.ErrUnknownUserOrVideo
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}
