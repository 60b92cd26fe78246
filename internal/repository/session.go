package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/model"
)

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row
func (r *sessionRepository) Create(ctx context.Context, tx *sqlx.Tx, s *model.Session) error {
	query := `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := tx.QueryRowxContext(ctx, query, s.UserID, s.Token, s.ExpiresAt).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// DeleteByToken removes a session; zero affected rows is fine
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// FindActiveUser returns the user behind an unexpired token
func (r *sessionRepository) FindActiveUser(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.avatar_url, u.bio,
		       u.followers_count, u.following_count
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = $1 AND s.expires_at > NOW()
	`
	var u model.User
	err := r.db.GetContext(ctx, &u, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &u, nil
}
