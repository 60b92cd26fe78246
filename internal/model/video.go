package model

import (
	"errors"
	"strings"
	"time"
)

// Video represents an uploaded short video with its engagement counters.
type Video struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"userId"`
	VideoURL      string    `db:"video_url" json:"videoUrl"`
	ThumbnailURL  *string   `db:"thumbnail_url" json:"thumbnail"`
	Description   string    `db:"description" json:"description"`
	MusicName     *string   `db:"music_name" json:"music"`
	LikesCount    int64     `db:"likes_count" json:"likesCount"`
	CommentsCount int64     `db:"comments_count" json:"commentsCount"`
	SharesCount   int64     `db:"shares_count" json:"sharesCount"`
	ViewsCount    int64     `db:"views_count" json:"viewsCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// FeedRow is a video joined with its author, as read by the feed query.
type FeedRow struct {
	Video
	Username  string  `db:"username"`
	AvatarURL *string `db:"avatar_url"`
}

// FeedVideo is a single feed entry with human-readable counters.
type FeedVideo struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Avatar      *string `json:"avatar"`
	Description string  `json:"description"`
	Likes       string  `json:"likes"`
	Comments    string  `json:"comments"`
	Shares      string  `json:"shares"`
	Music       string  `json:"music"`
	VideoURL    string  `json:"videoUrl"`
	Thumbnail   *string `json:"thumbnail"`
}

// DefaultMusicName is shown when a video has no soundtrack name.
const DefaultMusicName = "Original Sound"

// FeedLimit is the number of newest videos returned by the feed.
const FeedLimit = 20

// ToFeedVideo renders a feed row for the client.
func (r *FeedRow) ToFeedVideo() FeedVideo {
	music := DefaultMusicName
	if r.MusicName != nil && *r.MusicName != "" {
		music = *r.MusicName
	}
	return FeedVideo{
		ID:          r.ID,
		Username:    r.Username,
		Avatar:      r.AvatarURL,
		Description: r.Description,
		Likes:       FormatCount(r.LikesCount),
		Comments:    FormatCount(r.CommentsCount),
		Shares:      FormatCount(r.SharesCount),
		Music:       music,
		VideoURL:    r.VideoURL,
		Thumbnail:   r.ThumbnailURL,
	}
}

// FeedResponse is the feed listing body.
type FeedResponse struct {
	Videos []FeedVideo `json:"videos"`
}

// UploadRequest registers a video whose bytes already live in object storage.
type UploadRequest struct {
	UserID       int64   `json:"userId"`
	VideoURL     string  `json:"videoUrl"`
	Description  string  `json:"description"`
	MusicName    *string `json:"musicName"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

// Validate performs presence checks only.
func (r *UploadRequest) Validate() error {
	if r.UserID <= 0 || strings.TrimSpace(r.VideoURL) == "" {
		return ErrUploadFieldsRequired
	}
	return nil
}

// UploadResponse carries the id of the registered video.
type UploadResponse struct {
	Success bool  `json:"success"`
	VideoID int64 `json:"videoId"`
}

// LikeRequest records that a user liked a video.
type LikeRequest struct {
	UserID  int64 `json:"userId"`
	VideoID int64 `json:"videoId"`
}

func (r *LikeRequest) Validate() error {
	if r.UserID <= 0 || r.VideoID <= 0 {
		return ErrLikeFieldsRequired
	}
	return nil
}

// Video errors
var (
	ErrUploadFieldsRequired = errors.New("userId and videoUrl are required")
	ErrLikeFieldsRequired   = errors.New("userId and videoId are required")
	ErrUnknownUserOrVideo   = errors.New("unknown user or video")
)
