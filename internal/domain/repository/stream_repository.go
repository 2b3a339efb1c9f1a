package repository

import (
	"context"
	"time"

	"github.com/digital-profile/internal/domain"
)

// StreamRepository - Redis Streams access for events between the API and the worker
type StreamRepository interface {
	// ConsumeStream reads new messages for the consumer until ctx is cancelled
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	// AckMessage marks a message as processed
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// CreateConsumerGroup is idempotent
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream stores data as JSON under the "data" field
	PublishToStream(ctx context.Context, stream string, data interface{}) error

	// ReclaimPending takes over messages pending longer than minIdle. Messages
	// already delivered maxDeliveries times are acknowledged and dropped.
	ReclaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxDeliveries int64) ([]domain.StreamMessage, error)
}
