package service

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/database"
	"clipfeed/internal/model"
	"clipfeed/internal/queue"
	"clipfeed/internal/repository"
)

// VideoService serves the feed and records uploads, likes and comments.
type VideoService struct {
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	hashtags  repository.HashtagRepository
	tx        database.TxRunner
	publisher queue.Publisher // nil when Redis is not configured
}

func NewVideoService(
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	hashtags repository.HashtagRepository,
	tx database.TxRunner,
	publisher queue.Publisher,
) *VideoService {
	return &VideoService{
		videos:    videos,
		comments:  comments,
		hashtags:  hashtags,
		tx:        tx,
		publisher: publisher,
	}
}

// Feed returns the newest videos with formatted counters.
func (s *VideoService) Feed(ctx context.Context) (*model.FeedResponse, error) {
	rows, err := s.videos.GetFeed(ctx, model.FeedLimit)
	if err != nil {
		return nil, err
	}

	videos := make([]model.FeedVideo, 0, len(rows))
	for i := range rows {
		videos = append(videos, rows[i].ToFeedVideo())
	}
	return &model.FeedResponse{Videos: videos}, nil
}

// Trending returns the most viewed hashtags.
func (s *VideoService) Trending(ctx context.Context) (*model.TrendingResponse, error) {
	tags, err := s.hashtags.GetTrending(ctx, model.TrendingLimit)
	if err != nil {
		return nil, err
	}

	out := make([]model.TrendingHashtag, 0, len(tags))
	for _, t := range tags {
		out = append(out, model.TrendingHashtag{Tag: t.Tag, Views: model.FormatCount(t.ViewsCount)})
	}
	return &model.TrendingResponse{Hashtags: out}, nil
}

// Upload registers a video whose bytes are already in object storage.
func (s *VideoService) Upload(ctx context.Context, req *model.UploadRequest) (*model.UploadResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var video *model.Video
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		video, err = s.videos.Create(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[VideoService] User %d uploaded video %d", video.UserID, video.ID)

	// Publish indexing event (after commit, best-effort)
	if s.publisher != nil {
		event := queue.NewVideoUploadedEvent(video.ID, video.UserID, video.Description)
		if _, err := s.publisher.Publish(ctx, queue.StreamVideos, event); err != nil {
			log.Printf("[VideoService] Failed to publish VideoUploaded event: video=%d err=%v", video.ID, err)
		}
	}

	return &model.UploadResponse{Success: true, VideoID: video.ID}, nil
}

// Like records a like and recounts likes_count in the same transaction.
// Liking twice leaves one like row.
func (s *VideoService) Like(ctx context.Context, req *model.LikeRequest) (*model.SuccessResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		inserted bool
		count    int64
	)
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		inserted, err = s.videos.Like(ctx, tx, req.UserID, req.VideoID)
		if err != nil {
			return err
		}
		count, err = s.videos.RecountLikes(ctx, tx, req.VideoID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[VideoService] User %d liked video %d (new=%v likes=%d)", req.UserID, req.VideoID, inserted, count)
	return &model.SuccessResponse{Success: true}, nil
}

// Comment appends a comment and recounts comments_count in the same transaction.
func (s *VideoService) Comment(ctx context.Context, req *model.CommentRequest) (*model.SuccessResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var count int64
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.comments.Create(ctx, tx, req); err != nil {
			return err
		}
		var err error
		count, err = s.videos.RecountComments(ctx, tx, req.VideoID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[VideoService] User %d commented on video %d (comments=%d)", req.UserID, req.VideoID, count)
	return &model.SuccessResponse{Success: true}, nil
}
