package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is one parsed entry of a Redis stream.
type Message struct {
	ID    string // e.g. "1702000000000-0"
	Event VideoEvent
}

// Consumer reads events as a member of a consumer group.
type Consumer interface {
	// EnsureGroup creates the group (and the stream) when missing.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Read returns up to count new messages, blocking up to block for the first one.
	Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error)

	// ReadPending re-reads messages delivered to this consumer but never acked.
	ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error)

	// Ack removes messages from the group's pending list.
	Ack(ctx context.Context, stream, group string, messageIDs ...string) error

	// Pending returns the number of unacknowledged messages of the group.
	Pending(ctx context.Context, stream, group string) (int64, error)
}

// RedisConsumer implements Consumer using Redis Streams.
type RedisConsumer struct {
	client *redis.Client
}

func NewConsumer(client *redis.Client) *RedisConsumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup runs XGROUP CREATE ... MKSTREAM. The group starts at "0" so
// videos uploaded before the first worker boot are indexed too.
func (c *RedisConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	err := c.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			log.Printf("[Consumer] EnsureGroup: stream=%s group=%s (already exists)", stream, group)
			return nil
		}
		log.Printf("[Consumer] EnsureGroup FAILED: stream=%s group=%s err=%v", stream, group, err)
		return fmt.Errorf("create consumer group: %w", err)
	}

	log.Printf("[Consumer] EnsureGroup OK: stream=%s group=%s (created)", stream, group)
	return nil
}

// Read reads never-delivered messages (id ">") with XREADGROUP.
func (c *RedisConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error) {
	startTime := time.Now()

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	messages := c.parse(ctx, stream, group, streams)
	if len(messages) > 0 {
		log.Printf("[Consumer] Read OK: stream=%s consumer=%s count=%d duration=%v",
			stream, consumer, len(messages), time.Since(startTime))
	}
	return messages, nil
}

// ReadPending reads this consumer's unacknowledged messages (id "0").
// Used at startup to recover work that was in flight during a crash.
func (c *RedisConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, "0"},
		Count:    count,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup pending: %w", err)
	}

	return c.parse(ctx, stream, group, streams), nil
}

// parse decodes stream entries. Entries that cannot be decoded are acked
// right away so they do not stay pending forever.
func (c *RedisConsumer) parse(ctx context.Context, stream, group string, streams []redis.XStream) []Message {
	var (
		messages []Message
		bad      []string
	)
	for _, s := range streams {
		for _, msg := range s.Messages {
			event, err := ParseVideoEvent(msg.Values)
			if err != nil {
				log.Printf("[Consumer] Dropping malformed message: msgID=%s err=%v", msg.ID, err)
				bad = append(bad, msg.ID)
				continue
			}
			messages = append(messages, Message{ID: msg.ID, Event: event})
		}
	}

	if len(bad) > 0 {
		if err := c.Ack(ctx, stream, group, bad...); err != nil {
			log.Printf("[Consumer] Ack of malformed messages FAILED: %v", err)
		}
	}
	return messages
}

// Ack acknowledges messages using XACK.
func (c *RedisConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	if err := c.client.XAck(ctx, stream, group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("xack: %w", err)
	}
	return nil
}

// Pending returns the count of pending messages for the consumer group.
func (c *RedisConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	info, err := c.client.XPending(ctx, stream, group).Result()
	if err != nil {
		return 0, fmt.Errorf("xpending: %w", err)
	}
	return info.Count, nil
}
