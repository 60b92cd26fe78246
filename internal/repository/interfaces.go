package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/model"
)

// Methods taking a *sqlx.Tx run inside the caller's transaction; the rest use
// the pool directly.

type UserRepository interface {
	ExistsByEmailOrUsername(ctx context.Context, tx *sqlx.Tx, email, username string) (bool, error)
	Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	TouchLastLogin(ctx context.Context, tx *sqlx.Tx, userID int64) error
	UpdatePasswordHash(ctx context.Context, tx *sqlx.Tx, userID int64, hash string) error
}

type SessionRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, session *model.Session) error
	// DeleteByToken is idempotent: deleting an unknown token is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// FindActiveUser returns the owner of a token whose expiry is strictly in the future.
	FindActiveUser(ctx context.Context, token string) (*model.User, error)
}

type VideoRepository interface {
	GetFeed(ctx context.Context, limit int) ([]model.FeedRow, error)
	Create(ctx context.Context, tx *sqlx.Tx, req *model.UploadRequest) (*model.Video, error)
	// Like reports whether a new like row was inserted.
	Like(ctx context.Context, tx *sqlx.Tx, userID, videoID int64) (bool, error)
	// RecountLikes sets likes_count to the exact number of like rows and returns it.
	RecountLikes(ctx context.Context, tx *sqlx.Tx, videoID int64) (int64, error)
	// RecountComments sets comments_count to the exact number of comment rows and returns it.
	RecountComments(ctx context.Context, tx *sqlx.Tx, videoID int64) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, req *model.CommentRequest) (*model.Comment, error)
}

type HashtagRepository interface {
	GetTrending(ctx context.Context, limit int) ([]model.Hashtag, error)
	// EnsureTags inserts missing tags with a zero view count.
	EnsureTags(ctx context.Context, tx *sqlx.Tx, tags []string) error
	LinkVideo(ctx context.Context, tx *sqlx.Tx, videoID int64, tags []string) error
}
