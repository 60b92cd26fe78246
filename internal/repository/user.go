package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// ExistsByEmailOrUsername checks whether either identifier is already taken
func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, tx *sqlx.Tx, email, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`

	var exists bool
	if err := tx.GetContext(ctx, &exists, query, email, username); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, tx *sqlx.Tx, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, avatar_url, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, followers_count, following_count, created_at
	`

	err := tx.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.AvatarURL,
		u.IsVerified,
	).Scan(
		&u.ID,
		&u.FollowersCount,
		&u.FollowingCount,
		&u.CreatedAt,
	)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return model.ErrUserExists
		}
		if isPQCode(err, pqStringTooLong) {
			return model.ErrValueTooLong
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by their (already lowercased) email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, avatar_url, bio,
		       followers_count, following_count, is_verified, last_login, created_at
		FROM users
		WHERE email = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// TouchLastLogin stamps the user's last successful login
func (r *userRepository) TouchLastLogin(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash, e.g. after upgrading a legacy one
func (r *userRepository) UpdatePasswordHash(ctx context.Context, tx *sqlx.Tx, userID int64, hash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, hash, userID); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}
