package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/metrics"
	"github.com/digital-profile/internal/worker"
)

const (
	defaultConcurrency = 4
	defaultMinIdle     = time.Minute
	defaultReclaimTick = 30 * time.Second
	eventTimeout       = 30 * time.Second
)

// Cleanup outcomes
const (
	ResultProcessed = "processed"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

type Options struct {
	ConsumerGroup   string
	Concurrency     int
	MaxRetries      int
	MinIdle         time.Duration // pending time before another consumer may claim an event
	ReclaimInterval time.Duration
}

// CleanupWorker removes storage objects and media rows orphaned by entity deletes.
// Failed events stay pending and are retried through ReclaimPending until
// MaxRetries deliveries.
type CleanupWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	storage      repository.ObjectStorage
	mediaRepo    repository.MediaRepository
	metrics      *metrics.Metrics
	opts         Options
	consumerName string
}

func NewCleanupWorker(
	streamRepo repository.StreamRepository,
	storage repository.ObjectStorage,
	mediaRepo repository.MediaRepository,
	m *metrics.Metrics,
	opts Options,
	logger *zap.Logger,
) *CleanupWorker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.MinIdle <= 0 {
		opts.MinIdle = defaultMinIdle
	}
	if opts.ReclaimInterval <= 0 {
		opts.ReclaimInterval = defaultReclaimTick
	}

	hostname, _ := os.Hostname()
	return &CleanupWorker{
		BaseWorker:   worker.NewBaseWorker("media-cleanup", opts.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		storage:      storage,
		mediaRepo:    mediaRepo,
		metrics:      m,
		opts:         opts,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
	}
}

func (w *CleanupWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	ctx, cancel := w.Context(ctx)
	defer cancel()

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamMediaCleanup, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamMediaCleanup, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	logger.Info("Media cleanup worker started",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("concurrency", w.opts.Concurrency))

	// in-flight events finish even after ctx is cancelled
	g := new(errgroup.Group)
	g.SetLimit(w.opts.Concurrency)
	defer g.Wait() //nolint:errcheck

	ticker := time.NewTicker(w.opts.ReclaimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Media cleanup worker stopping")
			return nil

		case <-ticker.C:
			reclaimed, err := w.streamRepo.ReclaimPending(ctx, domain.StreamMediaCleanup, w.ConsumerGroup(),
				w.consumerName, w.opts.MinIdle, int64(w.opts.MaxRetries))
			if err != nil {
				logger.Warn("Failed to reclaim pending events", zap.Error(err))
				continue
			}
			for _, msg := range reclaimed {
				w.dispatch(g, msg)
			}

		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			w.dispatch(g, msg)
		}
	}
}

func (w *CleanupWorker) dispatch(g *errgroup.Group, msg domain.StreamMessage) {
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		w.handle(ctx, msg)
		return nil
	})
}

// handle processes one event and returns its outcome. The event is acknowledged
// unless it failed, failed events are redelivered.
func (w *CleanupWorker) handle(ctx context.Context, msg domain.StreamMessage) string {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.MediaCleanupEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Dropping malformed cleanup event", zap.Error(err))
		w.ack(ctx, logger, msg.ID)
		w.metrics.Cleanup(ResultDropped)
		return ResultDropped
	}

	logger = logger.With(
		zap.String("entity_type", string(event.EntityType)),
		zap.String("entity_id", event.EntityID))

	if len(event.FilePaths) > 0 {
		if err := w.storage.DeleteObjects(ctx, event.FilePaths); err != nil {
			logger.Error("Failed to delete objects", zap.Int("objects", len(event.FilePaths)), zap.Error(err))
			w.metrics.Cleanup(ResultFailed)
			return ResultFailed
		}
	}

	if len(event.MediaIDs) > 0 {
		if err := w.mediaRepo.DeleteMedia(ctx, event.MediaIDs); err != nil {
			logger.Error("Failed to delete media rows", zap.Int("media", len(event.MediaIDs)), zap.Error(err))
			w.metrics.Cleanup(ResultFailed)
			return ResultFailed
		}
	}

	w.ack(ctx, logger, msg.ID)
	w.metrics.Cleanup(ResultProcessed)
	logger.Info("Media cleaned up",
		zap.Int("objects", len(event.FilePaths)),
		zap.Int("media", len(event.MediaIDs)))
	return ResultProcessed
}

func (w *CleanupWorker) ack(ctx context.Context, logger *zap.Logger, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamMediaCleanup, w.ConsumerGroup(), id); err != nil {
		logger.Warn("Failed to acknowledge event", zap.Error(err))
	}
}
