package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"clipfeed/internal/model"
)

type hashtagRepository struct {
	db *sqlx.DB
}

func NewHashtagRepository(db *sqlx.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// GetTrending returns the most viewed hashtags.
func (r *hashtagRepository) GetTrending(ctx context.Context, limit int) ([]model.Hashtag, error) {
	query := `
		SELECT tag, views_count
		FROM hashtags
		ORDER BY views_count DESC, tag ASC
		LIMIT $1
	`
	tags := []model.Hashtag{}
	if err := r.db.SelectContext(ctx, &tags, query, limit); err != nil {
		return nil, fmt.Errorf("get trending hashtags: %w", err)
	}
	return tags, nil
}

// EnsureTags inserts any tag not yet known. Existing view counts are untouched.
func (r *hashtagRepository) EnsureTags(ctx context.Context, tx *sqlx.Tx, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	query := `
		INSERT INTO hashtags (tag)
		SELECT unnest($1::text[])
		ON CONFLICT (tag) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, pq.Array(tags)); err != nil {
		return fmt.Errorf("ensure hashtags: %w", err)
	}
	return nil
}

// LinkVideo records which tags a video carries.
func (r *hashtagRepository) LinkVideo(ctx context.Context, tx *sqlx.Tx, videoID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	query := `
		INSERT INTO video_hashtags (video_id, tag)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (video_id, tag) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, videoID, pq.Array(tags)); err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return model.ErrUnknownUserOrVideo
		}
		return fmt.Errorf("link video hashtags: %w", err)
	}
	return nil
}
