package model

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// User represents a user in the system
type User struct {
	ID             int64      `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"` // "-" hides from JSON output
	AvatarURL      *string    `db:"avatar_url" json:"avatar"`
	Bio            *string    `db:"bio" json:"bio"`
	FollowersCount int        `db:"followers_count" json:"followersCount"`
	FollowingCount int        `db:"following_count" json:"followingCount"`
	IsVerified     bool       `db:"is_verified" json:"-"`
	LastLogin      *time.Time `db:"last_login" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"-"`
}

// Profile is the public view of a user returned by login and validate.
type Profile struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Avatar         *string `json:"avatar"`
	Bio            *string `json:"bio"`
	FollowersCount int     `json:"followersCount"`
	FollowingCount int     `json:"followingCount"`
}

// NewUserSummary is the trimmed profile returned right after registration.
type NewUserSummary struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
}

// Profile returns the public profile of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Avatar:         u.AvatarURL,
		Bio:            u.Bio,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
	}
}

// Summary returns the registration view of u.
func (u *User) Summary() NewUserSummary {
	return NewUserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.AvatarURL,
	}
}

// AvatarBaseURL is the placeholder avatar generator seeded by username.
const AvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// PlaceholderAvatarURL derives a deterministic avatar URL from a username.
func PlaceholderAvatarURL(username string) string {
	return fmt.Sprintf("%s?seed=%s", AvatarBaseURL, url.QueryEscape(username))
}

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when the email or username is already taken
	ErrUserExists = errors.New("user with this email or username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRegisterFieldsRequired is returned when a registration field is blank
	ErrRegisterFieldsRequired = errors.New("all fields are required")

	// ErrPasswordTooShort is returned when the password is under MinPasswordLength
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrLoginFieldsRequired is returned when email or password is missing on login
	ErrLoginFieldsRequired = errors.New("email and password are required")
)
