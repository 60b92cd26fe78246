package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the video stream
const (
	EventVideoUploaded = "video_uploaded"
)

// Stream names
const (
	StreamVideos = "stream:videos"
)

// Consumer group name for hashtag indexers
const (
	ConsumerGroupHashtags = "hashtag_indexers"
)

// VideoEvent represents an event published to the video stream.
type VideoEvent struct {
	Type      string `json:"type"`      // EventVideoUploaded
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	VideoID     int64  `json:"video_id"`
	UserID      int64  `json:"user_id"`
	Description string `json:"description,omitempty"`
}

// NewVideoUploadedEvent creates an event for a freshly registered video.
// The indexer extracts hashtags from the description.
func NewVideoUploadedEvent(videoID, userID int64, description string) VideoEvent {
	return VideoEvent{
		Type:        EventVideoUploaded,
		Timestamp:   time.Now().Unix(),
		VideoID:     videoID,
		UserID:      userID,
		Description: description,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e VideoEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseVideoEvent parses a VideoEvent from Redis stream message values.
func ParseVideoEvent(values map[string]interface{}) (VideoEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return VideoEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event VideoEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return VideoEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
