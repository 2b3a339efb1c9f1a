package repository

import (
	"context"
	"time"

	"github.com/digital-profile/internal/domain"
)

// MediaRepository - read side of the media subsystem plus cleanup
type MediaRepository interface {
	// GetPrimaryMedia returns at most one media per entity id
	GetPrimaryMedia(ctx context.Context, entityType domain.EntityType, entityIDs []string) (map[string]domain.Media, error)

	// DeleteMedia removes media rows still unreferenced by any entity
	DeleteMedia(ctx context.Context, mediaIDs []string) error
}

// ObjectStorage - signed access to stored media files
type ObjectStorage interface {
	// PresignBatch returns one result per item, in input order
	PresignBatch(ctx context.Context, items []domain.PresignItem, expiry time.Duration) ([]domain.PresignResult, error)

	DeleteObjects(ctx context.Context, keys []string) error
}
