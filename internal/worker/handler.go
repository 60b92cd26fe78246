package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/database"
	"clipfeed/internal/model"
	"clipfeed/internal/queue"
)

// HashtagStore persists the tags found on a video.
type HashtagStore interface {
	// EnsureTags inserts unknown tags with zero views.
	EnsureTags(ctx context.Context, tx *sqlx.Tx, tags []string) error
	// LinkVideo records which tags a video carries.
	LinkVideo(ctx context.Context, tx *sqlx.Tx, videoID int64, tags []string) error
}

// ErrPermanent marks failures that a retry cannot fix. The manager acks such
// messages; any other error leaves the message pending.
var ErrPermanent = errors.New("permanent failure")

func permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Handler indexes hashtags of uploaded videos.
type Handler struct {
	hashtags HashtagStore
	tx       database.TxRunner
}

func NewHandler(hashtags HashtagStore, tx database.TxRunner) *Handler {
	return &Handler{
		hashtags: hashtags,
		tx:       tx,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.VideoEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventVideoUploaded:
		err = h.handleVideoUploaded(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return permanent(fmt.Errorf("unknown event type: %s", event.Type))
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleVideoUploaded extracts the description's hashtags and links them to
// the video. View counts of existing tags are never modified.
func (h *Handler) handleVideoUploaded(ctx context.Context, event queue.VideoEvent) error {
	tags := model.ExtractHashtags(event.Description)
	if len(tags) == 0 {
		log.Printf("[Worker] VideoUploaded: video=%d has no hashtags", event.VideoID)
		return nil
	}

	err := h.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := h.hashtags.EnsureTags(ctx, tx, tags); err != nil {
			return err
		}
		return h.hashtags.LinkVideo(ctx, tx, event.VideoID, tags)
	})
	if err != nil {
		// The video was deleted before indexing
		if errors.Is(err, model.ErrUnknownUserOrVideo) {
			err = permanent(err)
		}
		return fmt.Errorf("index hashtags of video %d: %w", event.VideoID, err)
	}

	log.Printf("[Worker] VideoUploaded DONE: video=%d tags=%v", event.VideoID, tags)
	return nil
}
