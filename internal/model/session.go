package model

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// Session is an opaque bearer token stored in the database.
type Session struct {
	ID        int64     `db:"id" json:"-"`
	UserID    int64     `db:"user_id" json:"-"`
	Token     string    `db:"token" json:"token"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// sessionTokenBytes is the entropy of a token before encoding (256 bits).
const sessionTokenBytes = 32

// GenerateSessionToken creates a cryptographically secure URL-safe token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Session errors
var (
	ErrTokenMissing   = errors.New("token not provided")
	ErrSessionInvalid = errors.New("token is invalid or expired")
)

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
}

// ProfileResponse is returned by token validation.
type ProfileResponse struct {
	Success bool    `json:"success"`
	User    Profile `json:"user"`
}

// SuccessResponse is the bare acknowledgement body.
type SuccessResponse struct {
	Success bool `json:"success"`
}
