package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
)

const (
	readBatch    = 10
	pendingBatch = 100
	dataField    = "data"
)

type streamRepository struct {
	client      *redis.Client
	logger      *zap.Logger
	readTimeout time.Duration
}

// NewStreamRepository - readTimeout bounds a single blocking XREADGROUP call
func NewStreamRepository(client *redis.Client, logger *zap.Logger, readTimeout time.Duration) repository.StreamRepository {
	if readTimeout <= 0 {
		readTimeout = time.Second
	}
	return &streamRepository{
		client:      client,
		logger:      logger,
		readTimeout: readTimeout,
	}
}

// CreateConsumerGroup creates the group from "$" and the stream itself when missing
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created successfully",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	msgChan := make(chan domain.StreamMessage, readBatch)

	go func() {
		defer close(msgChan)

		for {
			if ctx.Err() != nil {
				r.logger.Info("Stream consumer stopped",
					zap.String("stream", stream),
					zap.String("consumer", consumer))
				return
			}

			result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    readBatch,
				Block:    r.readTimeout,
			}).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, s := range result {
				for _, msg := range s.Messages {
					m, ok := r.toStreamMessage(msg)
					if !ok {
						continue
					}
					select {
					case msgChan <- m:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return msgChan, nil
}

func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	r.logger.Debug("Message acknowledged", zap.String("message_id", messageID))
	return nil
}

func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{dataField: string(jsonData)},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return nil
}

func (r *streamRepository) ReclaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxDeliveries int64) ([]domain.StreamMessage, error) {
	pending, err := r.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: stream,
		Group:  group,
		Start:  "-",
		End:    "+",
		Count:  pendingBatch,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}

	var claim, drop []string
	for _, p := range pending {
		if p.Idle < minIdle {
			continue
		}
		if maxDeliveries > 0 && p.RetryCount >= maxDeliveries {
			drop = append(drop, p.ID)
			continue
		}
		claim = append(claim, p.ID)
	}

	if len(drop) > 0 {
		r.logger.Warn("Dropping messages after max deliveries",
			zap.String("stream", stream),
			zap.Strings("message_ids", drop),
			zap.Int64("max_deliveries", maxDeliveries))
		if err := r.client.XAck(ctx, stream, group, drop...).Err(); err != nil {
			return nil, fmt.Errorf("failed to acknowledge dropped messages: %w", err)
		}
	}

	if len(claim) == 0 {
		return nil, nil
	}

	claimed, err := r.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: claim,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending messages: %w", err)
	}

	result := make([]domain.StreamMessage, 0, len(claimed))
	for _, msg := range claimed {
		if m, ok := r.toStreamMessage(msg); ok {
			result = append(result, m)
		}
	}

	r.logger.Info("Reclaimed pending messages",
		zap.String("stream", stream),
		zap.String("consumer", consumer),
		zap.Int("count", len(result)))
	return result, nil
}

func (r *streamRepository) toStreamMessage(msg redis.XMessage) (domain.StreamMessage, bool) {
	data, ok := msg.Values[dataField].(string)
	if !ok {
		r.logger.Warn("Message does not contain 'data' field", zap.String("message_id", msg.ID))
		return domain.StreamMessage{}, false
	}
	return domain.StreamMessage{ID: msg.ID, Data: data}, true
}
