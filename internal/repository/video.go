package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/model"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

// GetFeed returns the newest videos joined with their authors.
func (r *videoRepository) GetFeed(ctx context.Context, limit int) ([]model.FeedRow, error) {
	query := `
		SELECT v.id, v.user_id, v.video_url, v.thumbnail_url, v.description, v.music_name,
		       v.likes_count, v.comments_count, v.shares_count, v.views_count, v.created_at,
		       u.username, u.avatar_url
		FROM videos v
		JOIN users u ON v.user_id = u.id
		ORDER BY v.created_at DESC, v.id DESC
		LIMIT $1
	`
	rows := []model.FeedRow{}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return rows, nil
}

// Create registers a new video. Counters start at zero.
func (r *videoRepository) Create(ctx context.Context, tx *sqlx.Tx, req *model.UploadRequest) (*model.Video, error) {
	query := `
		INSERT INTO videos (user_id, video_url, thumbnail_url, description, music_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, video_url, thumbnail_url, description, music_name,
		          likes_count, comments_count, shares_count, views_count, created_at
	`
	var v model.Video
	err := tx.GetContext(ctx, &v, query, req.UserID, req.VideoURL, req.ThumbnailURL, req.Description, req.MusicName)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return nil, model.ErrUnknownUserOrVideo
		}
		if isPQCode(err, pqStringTooLong) {
			return nil, model.ErrValueTooLong
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return &v, nil
}

// Like inserts a like record. A repeated like is a no-op.
func (r *videoRepository) Like(ctx context.Context, tx *sqlx.Tx, userID, videoID int64) (bool, error) {
	query := `
		INSERT INTO likes (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, userID, videoID)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return false, model.ErrUnknownUserOrVideo
		}
		return false, fmt.Errorf("insert like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// RecountLikes recomputes likes_count from the likes table.
func (r *videoRepository) RecountLikes(ctx context.Context, tx *sqlx.Tx, videoID int64) (int64, error) {
	query := `
		UPDATE videos
		SET likes_count = (SELECT COUNT(*) FROM likes WHERE video_id = $1)
		WHERE id = $1
		RETURNING likes_count
	`
	var count int64
	if err := tx.GetContext(ctx, &count, query, videoID); err != nil {
		return 0, fmt.Errorf("recount likes: %w", err)
	}
	return count, nil
}

// RecountComments recomputes comments_count from the comments table.
func (r *videoRepository) RecountComments(ctx context.Context, tx *sqlx.Tx, videoID int64) (int64, error) {
	query := `
		UPDATE videos
		SET comments_count = (SELECT COUNT(*) FROM comments WHERE video_id = $1)
		WHERE id = $1
		RETURNING comments_count
	`
	var count int64
	if err := tx.GetContext(ctx, &count, query, videoID); err != nil {
		return 0, fmt.Errorf("recount comments: %w", err)
	}
	return count, nil
}
