package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"clipfeed/internal/httputil"
	"clipfeed/internal/model"
)

// envelope is the part of every POST body that selects the command.
type envelope struct {
	Action string `json:"action"`
}

// method normalizes the request method; a missing method means GET.
func method(req httputil.Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(req.Method)
}

// decodeBody reads the action of a POST body and returns the raw bytes for the
// second, command-specific pass. An empty body decodes as {}.
func decodeBody(body string) (string, []byte, error) {
	raw := []byte(body)
	if strings.TrimSpace(body) == "" {
		raw = []byte("{}")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", nil, model.ErrInvalidBody
	}
	return env.Action, raw, nil
}

func decodeAuth[T model.AuthCommand](raw []byte) (model.AuthCommand, error) {
	var cmd T
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, model.ErrInvalidBody
	}
	return cmd, nil
}

func decodeVideo[T model.VideoCommand](raw []byte) (model.VideoCommand, error) {
	var cmd T
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, model.ErrInvalidBody
	}
	return cmd, nil
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(req httputil.Request) string {
	const prefix = "bearer "
	h := strings.TrimSpace(req.Header("Authorization"))
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// headerUserID returns a positive X-User-Id header, or 0.
func headerUserID(req httputil.Request) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(req.Header("X-User-Id")), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// DecodeAuthCommand maps a request to one of the auth commands.
func DecodeAuthCommand(req httputil.Request) (model.AuthCommand, error) {
	switch method(req) {
	case http.MethodGet:
		token := req.QueryParam("token")
		if token == "" {
			token = bearerToken(req)
		}
		return model.ValidateCommand{Token: token}, nil

	case http.MethodPost:
		action, raw, err := decodeBody(req.Body)
		if err != nil {
			return nil, err
		}

		switch action {
		case model.ActionRegister:
			return decodeAuth[model.RegisterCommand](raw)
		case model.ActionLogin:
			return decodeAuth[model.LoginCommand](raw)
		case model.ActionLogout:
			var cmd model.LogoutCommand
			if err := json.Unmarshal(raw, &cmd); err != nil {
				return nil, model.ErrInvalidBody
			}
			if cmd.Token == "" {
				cmd.Token = bearerToken(req)
			}
			return cmd, nil
		}
	}

	return nil, model.ErrMethodNotAllowed
}

// DecodeVideoCommand maps a request to one of the video commands.
// GET defaults to the feed when no action is given.
func DecodeVideoCommand(req httputil.Request) (model.VideoCommand, error) {
	switch method(req) {
	case http.MethodGet:
		action := req.QueryParam("action")
		if action == "" {
			action = model.ActionFeed
		}
		switch action {
		case model.ActionFeed:
			return model.FeedCommand{}, nil
		case model.ActionTrending:
			return model.TrendingCommand{}, nil
		}

	case http.MethodPost:
		action, raw, err := decodeBody(req.Body)
		if err != nil {
			return nil, err
		}

		var cmd model.VideoCommand
		switch action {
		case model.ActionUpload:
			cmd, err = decodeVideo[model.UploadCommand](raw)
		case model.ActionLike:
			cmd, err = decodeVideo[model.LikeCommand](raw)
		case model.ActionComment:
			cmd, err = decodeVideo[model.CommentCommand](raw)
		case model.ActionPresign:
			cmd, err = decodeVideo[model.PresignCommand](raw)
		default:
			return nil, model.ErrMethodNotAllowed
		}
		if err != nil {
			return nil, err
		}
		return withHeaderUser(cmd, headerUserID(req)), nil
	}

	return nil, model.ErrMethodNotAllowed
}

// withHeaderUser fills a missing body userId from the X-User-Id header.
// A userId in the body always wins.
func withHeaderUser(cmd model.VideoCommand, userID int64) model.VideoCommand {
	if userID == 0 {
		return cmd
	}

	switch c := cmd.(type) {
	case model.UploadCommand:
		if c.UserID == 0 {
			c.UserID = userID
		}
		return c
	case model.LikeCommand:
		if c.UserID == 0 {
			c.UserID = userID
		}
		return c
	case model.CommentCommand:
		if c.UserID == 0 {
			c.UserID = userID
		}
		return c
	case model.PresignCommand:
		if c.UserID == 0 {
			c.UserID = userID
		}
		return c
	}
	return cmd
}
