package repository

import (
	"context"
	"time"

	"github.com/digital-profile/internal/domain"
)

// CacheRepository - key/value cache in front of read models
type CacheRepository interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// DeleteByPrefix drops every key starting with prefix
	DeleteByPrefix(ctx context.Context, prefix string) error

	// GetDemographicSummary returns nil, nil on a miss
	GetDemographicSummary(ctx context.Context, key string) (*domain.DemographicSummary, error)

	SetDemographicSummary(ctx context.Context, key string, summary *domain.DemographicSummary, ttl time.Duration) error
}
