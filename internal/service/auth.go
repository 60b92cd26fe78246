package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/database"
	"clipfeed/internal/model"
	"clipfeed/internal/password"
	"clipfeed/internal/repository"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
	// NeedsRehash reports whether a verified hash should be upgraded.
	NeedsRehash(encoded string) bool
}

// AuthService handles registration, login and opaque session tokens.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tx         database.TxRunner
	hasher     PasswordHasher
	sessionTTL time.Duration

	now      func() time.Time
	newToken func() (string, error)
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tx database.TxRunner,
	hasher PasswordHasher,
	sessionMaxAge int,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tx:         tx,
		hasher:     hasher,
		sessionTTL: time.Duration(sessionMaxAge) * time.Second,
		now:        time.Now,
		newToken:   model.GenerateSessionToken,
	}
}

// Register creates a verified user and signs them in.
// The user row and its first session are written in one transaction.
func (s *AuthService) Register(ctx context.Context, cmd model.RegisterCommand) (*model.AuthResponse, error) {
	username := strings.TrimSpace(cmd.Username)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	if username == "" || email == "" || cmd.Password == "" {
		return nil, model.ErrRegisterFieldsRequired
	}
	if utf8.RuneCountInString(cmd.Password) < model.MinPasswordLength {
		return nil, model.ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	avatar := model.PlaceholderAvatarURL(username)
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    &avatar,
		IsVerified:   true,
	}

	var session *model.Session
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.users.ExistsByEmailOrUsername(ctx, tx, email, username)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrUserExists
		}

		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}

		session, err = s.createSession(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Registered user=%d username=%s", user.ID, user.Username)

	return &model.AuthResponse{
		Success: true,
		Token:   session.Token,
		User:    user.Summary(),
	}, nil
}

// Login verifies credentials and issues a fresh session.
// Existing sessions of the user stay valid.
func (s *AuthService) Login(ctx context.Context, cmd model.LoginCommand) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return nil, model.ErrLoginFieldsRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(cmd.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) || errors.Is(err, password.ErrIncompatibleVersion) {
			log.Printf("[AuthService] Unreadable password hash: user=%d err=%v", user.ID, err)
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, model.ErrInvalidCredentials
	}

	// Upgrade legacy or outdated hashes while the plain password is at hand
	var rehashed string
	if s.hasher.NeedsRehash(user.PasswordHash) {
		rehashed, err = s.hasher.Hash(cmd.Password)
		if err != nil {
			log.Printf("[AuthService] Rehash FAILED: user=%d err=%v", user.ID, err)
		}
	}

	var session *model.Session
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.TouchLastLogin(ctx, tx, user.ID); err != nil {
			return err
		}
		if rehashed != "" {
			if err := s.users.UpdatePasswordHash(ctx, tx, user.ID, rehashed); err != nil {
				return err
			}
		}
		session, err = s.createSession(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if rehashed != "" {
		log.Printf("[AuthService] Password hash upgraded: user=%d", user.ID)
	}
	log.Printf("[AuthService] Login OK: user=%d", user.ID)

	return &model.AuthResponse{
		Success: true,
		Token:   session.Token,
		User:    user.Profile(),
	}, nil
}

// Logout deletes the session behind token. Unknown or empty tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, cmd model.LogoutCommand) (*model.SuccessResponse, error) {
	if cmd.Token != "" {
		if err := s.sessions.DeleteByToken(ctx, cmd.Token); err != nil {
			return nil, err
		}
	}
	return &model.SuccessResponse{Success: true}, nil
}

// Validate resolves a token to the profile of its user.
func (s *AuthService) Validate(ctx context.Context, cmd model.ValidateCommand) (*model.ProfileResponse, error) {
	if cmd.Token == "" {
		return nil, model.ErrTokenMissing
	}

	user, err := s.sessions.FindActiveUser(ctx, cmd.Token)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{Success: true, User: user.Profile()}, nil
}

func (s *AuthService) createSession(ctx context.Context, tx *sqlx.Tx, userID int64) (*model.Session, error) {
	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	session := &model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, tx, session); err != nil {
		return nil, err
	}
	return session, nil
}
