package model

import (
	"errors"
	"strings"
)

// Object kinds accepted by the presign action.
const (
	MediaKindVideo     = "video"
	MediaKindThumbnail = "thumbnail"
)

// Object key folders per kind
const (
	VideoFolder     = "videos"
	ThumbnailFolder = "thumbnails"
)

// Supported content types for direct uploads
const (
	ContentTypeMP4       = "video/mp4"
	ContentTypeQuickTime = "video/quicktime"
	ContentTypeWebM      = "video/webm"
	ContentTypeJPEG      = "image/jpeg"
	ContentTypePNG       = "image/png"
	ContentTypeWebP      = "image/webp"
)

var allowedContentTypes = map[string]map[string]string{
	MediaKindVideo: {
		ContentTypeMP4:       ".mp4",
		ContentTypeQuickTime: ".mov",
		ContentTypeWebM:      ".webm",
	},
	MediaKindThumbnail: {
		ContentTypeJPEG: ".jpg",
		ContentTypePNG:  ".png",
		ContentTypeWebP: ".webp",
	},
}

// FileExtension returns the object extension for a kind/content type pair,
// and false when the pair is not accepted.
func FileExtension(kind, contentType string) (string, bool) {
	types, ok := allowedContentTypes[kind]
	if !ok {
		return "", false
	}
	ext, ok := types[contentType]
	return ext, ok
}

// FolderFor returns the bucket folder for a media kind.
func FolderFor(kind string) string {
	if kind == MediaKindThumbnail {
		return ThumbnailFolder
	}
	return VideoFolder
}

// PresignRequest asks for a direct-to-bucket upload URL.
// The client PUTs bytes to UploadURL, then registers PublicURL with the upload action.
type PresignRequest struct {
	UserID      int64  `json:"userId"`
	ContentType string `json:"contentType"`
	Kind        string `json:"kind"`
}

// Normalize trims the request and defaults Kind to video.
func (r *PresignRequest) Normalize() {
	r.ContentType = strings.TrimSpace(r.ContentType)
	if idx := strings.Index(r.ContentType, ";"); idx != -1 {
		r.ContentType = strings.TrimSpace(r.ContentType[:idx])
	}
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	if r.Kind == "" {
		r.Kind = MediaKindVideo
	}
}

func (r *PresignRequest) Validate() error {
	if r.UserID <= 0 || r.ContentType == "" {
		return ErrPresignFieldsRequired
	}
	if _, ok := FileExtension(r.Kind, r.ContentType); !ok {
		return ErrInvalidContentType
	}
	return nil
}

// PresignResponse returns upload details for a direct-to-bucket upload.
type PresignResponse struct {
	UploadURL  string `json:"uploadUrl"`
	PublicURL  string `json:"publicUrl"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expiresIn"`
}

// Domain errors for media operations
var (
	ErrPresignFieldsRequired = errors.New("userId and contentType are required")
	ErrInvalidContentType    = errors.New("unsupported content type")
	ErrUploadsDisabled       = errors.New("uploads are not configured")
)
