package model

import (
	"errors"
	"strings"
	"time"
)

// Comment represents a comment on a video.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	VideoID   int64     `db:"video_id" json:"videoId"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CommentRequest is the body of a comment action.
type CommentRequest struct {
	UserID  int64  `json:"userId"`
	VideoID int64  `json:"videoId"`
	Text    string `json:"text"`
}

func (r *CommentRequest) Validate() error {
	if r.UserID <= 0 || r.VideoID <= 0 || strings.TrimSpace(r.Text) == "" {
		return ErrCommentFieldsRequired
	}
	return nil
}

var ErrCommentFieldsRequired = errors.New("userId, videoId and text are required")
