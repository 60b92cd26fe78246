package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"clipfeed/internal/httputil"
	"clipfeed/internal/model"
)

// VideoService is the behaviour the video handler needs from the service layer.
type VideoService interface {
	Feed(ctx context.Context) (*model.FeedResponse, error)
	Trending(ctx context.Context) (*model.TrendingResponse, error)
	Upload(ctx context.Context, req *model.UploadRequest) (*model.UploadResponse, error)
	Like(ctx context.Context, req *model.LikeRequest) (*model.SuccessResponse, error)
	Comment(ctx context.Context, req *model.CommentRequest) (*model.SuccessResponse, error)
}

// UploadPresigner signs direct-to-bucket uploads.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, req *model.PresignRequest) (*model.PresignResponse, error)
}

// VideoCORS is the preflight answer of the video endpoint.
var VideoCORS = httputil.CORS{
	AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	AllowHeaders: "Content-Type, X-User-Id",
}

type VideoHandler struct {
	videoService VideoService
	presigner    UploadPresigner // nil when object storage is not configured
}

func NewVideoHandler(videoService VideoService, presigner UploadPresigner) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		presigner:    presigner,
	}
}

// Handle serves one video invocation:
//
//	GET  ?action=feed|trending
//	POST {action: upload|like|comment|presign}
func (h *VideoHandler) Handle(ctx context.Context, req httputil.Request) httputil.Response {
	if method(req) == http.MethodOptions {
		return VideoCORS.Preflight()
	}

	cmd, err := DecodeVideoCommand(req)
	if err != nil {
		return videoError(err)
	}

	var out interface{}
	switch c := cmd.(type) {
	case model.FeedCommand:
		out, err = h.videoService.Feed(ctx)
	case model.TrendingCommand:
		out, err = h.videoService.Trending(ctx)
	case model.UploadCommand:
		out, err = h.videoService.Upload(ctx, &c.UploadRequest)
	case model.LikeCommand:
		out, err = h.videoService.Like(ctx, &c.LikeRequest)
	case model.CommentCommand:
		out, err = h.videoService.Comment(ctx, &c.CommentRequest)
	case model.PresignCommand:
		if h.presigner == nil {
			return videoError(model.ErrUploadsDisabled)
		}
		out, err = h.presigner.PresignUpload(ctx, &c.PresignRequest)
	default:
		return httputil.MethodNotAllowed()
	}
	if err != nil {
		return videoError(err)
	}

	return httputil.JSON(http.StatusOK, out)
}

func videoError(err error) httputil.Response {
	switch {
	case errors.Is(err, model.ErrMethodNotAllowed):
		return httputil.MethodNotAllowed()
	case errors.Is(err, model.ErrInvalidBody):
		return httputil.BadRequest("Invalid request body")
	case errors.Is(err, model.ErrUploadFieldsRequired):
		return httputil.BadRequest("userId and videoUrl are required")
	case errors.Is(err, model.ErrLikeFieldsRequired):
		return httputil.BadRequest("userId and videoId are required")
	case errors.Is(err, model.ErrCommentFieldsRequired):
		return httputil.BadRequest("userId, videoId and text are required")
	case errors.Is(err, model.ErrUnknownUserOrVideo):
		return httputil.BadRequest("Unknown user or video")
	case errors.Is(err, model.ErrValueTooLong):
		return httputil.BadRequest("Music name is too long")
	case errors.Is(err, model.ErrPresignFieldsRequired):
		return httputil.BadRequest("userId and contentType are required")
	case errors.Is(err, model.ErrInvalidContentType):
		return httputil.BadRequest("Unsupported content type")
	case errors.Is(err, model.ErrUploadsDisabled):
		return httputil.ServiceUnavailable("Uploads are not configured")
	default:
		log.Printf("[ERROR] Video handler: %v", err)
		return httputil.InternalError()
	}
}
