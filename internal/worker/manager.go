package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"clipfeed/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second

	// DefaultRetryInterval is the pause before failed messages are retried
	DefaultRetryInterval = 30 * time.Second
)

// EventHandler processes one stream event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queue.VideoEvent) error
}

// Manager orchestrates worker goroutines that consume from Redis Streams.
type Manager struct {
	consumer    queue.Consumer
	handler     EventHandler
	stream      string
	group       string
	workerCount int
	batchSize   int64
	blockTime   time.Duration
	retryEvery  time.Duration
	namePrefix  string

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	Stream       string
	Group        string
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP

	// RetryInterval is how often a worker re-reads its pending messages
	// after a transient handler failure.
	RetryInterval time.Duration

	// ConsumerPrefix names this process inside the group. It must be stable
	// across restarts so pending messages are recovered. Defaults to the hostname.
	ConsumerPrefix string
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Stream:       queue.StreamVideos,
		Group:        queue.ConsumerGroupHashtags,
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout:  DefaultBlockTimeout,
		RetryInterval: DefaultRetryInterval,
	}
}

// NewManager creates a new worker manager.
func NewManager(consumer queue.Consumer, handler EventHandler, cfg ManagerConfig) *Manager {
	if cfg.Stream == "" {
		cfg.Stream = queue.StreamVideos
	}
	if cfg.Group == "" {
		cfg.Group = queue.ConsumerGroupHashtags
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.ConsumerPrefix == "" {
		cfg.ConsumerPrefix = defaultConsumerPrefix()
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		stream:      cfg.Stream,
		group:       cfg.Group,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
		retryEvery:  cfg.RetryInterval,
		namePrefix:  cfg.ConsumerPrefix,
	}
}

// Start begins the worker goroutines.
// Call Stop() to gracefully shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	// Ensure consumer group exists
	if err := m.consumer.EnsureGroup(m.ctx, m.stream, m.group); err != nil {
		return err
	}

	log.Printf("[Manager] Starting %d workers for stream=%s group=%s",
		m.workerCount, m.stream, m.group)

	// Spin up worker goroutines
	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		consumerName := m.consumerName(workerID)

		m.wg.Add(1)
		go m.runWorker(workerID, consumerName)
	}

	log.Printf("[Manager] All %d workers started", m.workerCount)
	return nil
}

// Stop gracefully shuts down all workers.
// Blocks until all workers have finished.
func (m *Manager) Stop() {
	log.Printf("[Manager] Stopping workers...")
	m.cancel()
	m.wg.Wait()
	log.Printf("[Manager] All workers stopped")
}

// runWorker is the main loop for a single worker goroutine.
func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	log.Printf("[Worker-%d] Started (consumer=%s)", workerID, consumerName)

	// First, process any pending messages from previous runs (crash recovery)
	settled := m.processPending(workerID, consumerName)
	nextRetry := time.Now().Add(m.retryEvery)

	// Main loop: read new messages, retrying failed ones every retryEvery
	for {
		select {
		case <-m.ctx.Done():
			log.Printf("[Worker-%d] Shutting down", workerID)
			return
		default:
		}

		if !settled && !time.Now().Before(nextRetry) {
			settled = m.processPending(workerID, consumerName)
			nextRetry = time.Now().Add(m.retryEvery)
		}

		if !m.processMessages(workerID, consumerName) && settled {
			settled = false
			nextRetry = time.Now().Add(m.retryEvery)
		}
	}
}

// processPending handles messages that were delivered but not acknowledged.
// It reports whether the pending list was drained.
func (m *Manager) processPending(workerID int, consumerName string) bool {
	log.Printf("[Worker-%d] Checking for pending messages...", workerID)

	for {
		messages, err := m.consumer.ReadPending(m.ctx, m.stream, m.group, consumerName, m.batchSize)
		if err != nil {
			log.Printf("[Worker-%d] Error reading pending: %v", workerID, err)
			return false
		}

		if len(messages) == 0 {
			log.Printf("[Worker-%d] No pending messages", workerID)
			return true
		}

		log.Printf("[Worker-%d] Processing %d pending messages", workerID, len(messages))
		if !m.handleMessages(workerID, messages) {
			// Unacked entries would be read again right away
			return false
		}
	}
}

// processMessages reads and handles a batch of messages.
// It reports false when a message was left pending.
func (m *Manager) processMessages(workerID int, consumerName string) bool {
	messages, err := m.consumer.Read(
		m.ctx,
		m.stream,
		m.group,
		consumerName,
		m.batchSize,
		m.blockTime,
	)

	if err != nil {
		if m.ctx.Err() != nil {
			return true
		}
		log.Printf("[Worker-%d] Error reading: %v", workerID, err)
		select { // Back off on error
		case <-m.ctx.Done():
		case <-time.After(time.Second):
		}
		return true
	}

	if len(messages) == 0 {
		return true // Timeout, no messages
	}

	log.Printf("[Worker-%d] Received %d messages", workerID, len(messages))
	return m.handleMessages(workerID, messages)
}

// handleMessages processes a batch of messages. Successes and permanent
// failures are acknowledged, transient failures stay pending.
// It reports whether every message was acked.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) bool {
	acked := true
	for _, msg := range messages {
		log.Printf("[Worker-%d] Processing msgID=%s type=%s", workerID, msg.ID, msg.Event.Type)

		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			if !errors.Is(err, ErrPermanent) {
				log.Printf("[Worker-%d] Handler error msgID=%s, left pending: %v", workerID, msg.ID, err)
				acked = false
				continue
			}
			log.Printf("[Worker-%d] Dropping msgID=%s: %v", workerID, msg.ID, err)
		}

		if err := m.consumer.Ack(m.ctx, m.stream, m.group, msg.ID); err != nil {
			log.Printf("[Worker-%d] ACK error msgID=%s: %v", workerID, msg.ID, err)
			acked = false
		}
	}
	return acked
}

func (m *Manager) consumerName(workerID int) string {
	return fmt.Sprintf("%s-%d", m.namePrefix, workerID)
}

func defaultConsumerPrefix() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "indexer"
	}
	return "indexer-" + host
}
