package model

import "errors"

// Actions carried in the "action" field of a request.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionLogout   = "logout"

	ActionFeed     = "feed"
	ActionTrending = "trending"
	ActionUpload   = "upload"
	ActionLike     = "like"
	ActionComment  = "comment"
	ActionPresign  = "presign"
)

// AuthCommand is one of RegisterCommand, LoginCommand, LogoutCommand or
// ValidateCommand. The set is closed by the unexported marker method.
type AuthCommand interface {
	authCommand()
}

type RegisterCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LogoutCommand struct {
	Token string `json:"token"`
}

type ValidateCommand struct {
	Token string
}

func (RegisterCommand) authCommand() {}
func (LoginCommand) authCommand()    {}
func (LogoutCommand) authCommand()   {}
func (ValidateCommand) authCommand() {}

// VideoCommand is one of FeedCommand, TrendingCommand, UploadCommand,
// LikeCommand, CommentCommand or PresignCommand.
type VideoCommand interface {
	videoCommand()
}

type FeedCommand struct{}

type TrendingCommand struct{}

type UploadCommand struct {
	UploadRequest
}

type LikeCommand struct {
	LikeRequest
}

type CommentCommand struct {
	CommentRequest
}

type PresignCommand struct {
	PresignRequest
}

func (FeedCommand) videoCommand()     {}
func (TrendingCommand) videoCommand() {}
func (UploadCommand) videoCommand()   {}
func (LikeCommand) videoCommand()     {}
func (CommentCommand) videoCommand()  {}
func (PresignCommand) videoCommand()  {}

// Decoding errors
var (
	ErrInvalidBody      = errors.New("invalid request body")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrValueTooLong     = errors.New("value is too long")
)
