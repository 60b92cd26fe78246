package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"clipfeed/internal/httputil"
	"clipfeed/internal/model"
)

// AuthService is the behaviour the auth handler needs from the service layer.
type AuthService interface {
	Register(ctx context.Context, cmd model.RegisterCommand) (*model.AuthResponse, error)
	Login(ctx context.Context, cmd model.LoginCommand) (*model.AuthResponse, error)
	Logout(ctx context.Context, cmd model.LogoutCommand) (*model.SuccessResponse, error)
	Validate(ctx context.Context, cmd model.ValidateCommand) (*model.ProfileResponse, error)
}

// AuthCORS is the preflight answer of the auth endpoint.
var AuthCORS = httputil.CORS{
	AllowMethods: "GET, POST, OPTIONS",
	AllowHeaders: "Content-Type, Authorization",
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Handle serves one auth invocation:
//
//	POST {action: register|login|logout}
//	GET  ?token=  validates a session
func (h *AuthHandler) Handle(ctx context.Context, req httputil.Request) httputil.Response {
	if method(req) == http.MethodOptions {
		return AuthCORS.Preflight()
	}

	cmd, err := DecodeAuthCommand(req)
	if err != nil {
		return authError(err)
	}

	var out interface{}
	switch c := cmd.(type) {
	case model.RegisterCommand:
		out, err = h.authService.Register(ctx, c)
	case model.LoginCommand:
		out, err = h.authService.Login(ctx, c)
	case model.LogoutCommand:
		out, err = h.authService.Logout(ctx, c)
	case model.ValidateCommand:
		out, err = h.authService.Validate(ctx, c)
	default:
		return httputil.MethodNotAllowed()
	}
	if err != nil {
		return authError(err)
	}

	return httputil.JSON(http.StatusOK, out)
}

func authError(err error) httputil.Response {
	switch {
	case errors.Is(err, model.ErrMethodNotAllowed):
		return httputil.MethodNotAllowed()
	case errors.Is(err, model.ErrInvalidBody):
		return httputil.BadRequest("Invalid request body")
	case errors.Is(err, model.ErrRegisterFieldsRequired):
		return httputil.BadRequest("All fields are required")
	case errors.Is(err, model.ErrPasswordTooShort):
		return httputil.BadRequest("Password must be at least 6 characters")
	case errors.Is(err, model.ErrUserExists):
		return httputil.BadRequest("User with this email or username already exists")
	case errors.Is(err, model.ErrValueTooLong):
		return httputil.BadRequest("Username or email is too long")
	case errors.Is(err, model.ErrLoginFieldsRequired):
		return httputil.BadRequest("Email and password are required")
	case errors.Is(err, model.ErrInvalidCredentials):
		return httputil.Unauthorized("Invalid email or password")
	case errors.Is(err, model.ErrTokenMissing):
		return httputil.Unauthorized("Token not provided")
	case errors.Is(err, model.ErrSessionInvalid):
		return httputil.Unauthorized("Token is invalid or expired")
	default:
		log.Printf("[ERROR] Auth handler: %v", err)
		return httputil.InternalError()
	}
}
