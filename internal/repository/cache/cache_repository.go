package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/metrics"
)

const (
	// scanBatch - SCAN COUNT hint for prefix deletion
	scanBatch = 200

	cacheDemographics = "demographics"
)

type cacheRepository struct {
	client  *redis.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewCacheRepository(redis *Redis, m *metrics.Metrics) repository.CacheRepository {
	return &cacheRepository{
		client:  redis.Client(),
		logger:  redis.logger,
		metrics: m,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// DeleteByPrefix walks the keyspace with SCAN, KEYS would block the server
func (r *cacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	deleted := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return err
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= scanBatch {
			if err := flush(); err != nil {
				return fmt.Errorf("cache delete by prefix: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan cache", zap.String("prefix", prefix), zap.Error(err))
		return fmt.Errorf("cache scan error: %w", err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("cache delete by prefix: %w", err)
	}

	r.logger.Debug("Cache prefix invalidated", zap.String("prefix", prefix), zap.Int("keys", deleted))
	return nil
}

func (r *cacheRepository) GetDemographicSummary(ctx context.Context, key string) (*domain.DemographicSummary, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		r.metrics.CacheMiss(cacheDemographics)
		return nil, nil
	}

	var summary domain.DemographicSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		r.logger.Error("Failed to unmarshal demographic summary", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unmarshal demographic summary: %w", err)
	}

	r.metrics.CacheHit(cacheDemographics)
	return &summary, nil
}

func (r *cacheRepository) SetDemographicSummary(ctx context.Context, key string, summary *domain.DemographicSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		r.logger.Error("Failed to marshal demographic summary", zap.Error(err))
		return fmt.Errorf("marshal demographic summary: %w", err)
	}

	return r.Set(ctx, key, data, ttl)
}
