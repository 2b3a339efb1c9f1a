package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/metrics"
)

// FieldPrimaryMedia - row field holding the hydrated media or null
const FieldPrimaryMedia = "primaryMedia"

// MediaHydrator attaches the primary media of each row with a signed URL
type MediaHydrator struct {
	mediaRepo repository.MediaRepository
	storage   repository.ObjectStorage
	expiry    time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewMediaHydrator(
	mediaRepo repository.MediaRepository,
	storage repository.ObjectStorage,
	expiry time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *MediaHydrator {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &MediaHydrator{
		mediaRepo: mediaRepo,
		storage:   storage,
		expiry:    expiry,
		metrics:   m,
		logger:    logger,
	}
}

// Hydrate issues one lookup and one presign batch for all rows. A URL that
// fails to sign degrades to "" for that row only; a failed lookup fails the call.
func (h *MediaHydrator) Hydrate(ctx context.Context, entityType domain.EntityType, rows []*domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	defer h.metrics.ObservePhase(string(entityType), metrics.PhaseMedia, time.Now())

	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		id := r.ID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	found, err := h.mediaRepo.GetPrimaryMedia(ctx, entityType, ids)
	if err != nil {
		return fmt.Errorf("lookup primary media: %w", err)
	}

	// items[i] belongs to owners[i]
	items := make([]domain.PresignItem, 0, len(found))
	owners := make([]string, 0, len(found))
	for _, id := range ids {
		m, ok := found[id]
		if !ok {
			continue
		}
		items = append(items, domain.PresignItem{ID: m.ID, FilePath: m.FilePath, FileName: m.FileName})
		owners = append(owners, id)
	}

	urls, err := h.presign(ctx, entityType, items, owners)
	if err != nil {
		return err
	}

	for _, r := range rows {
		m, ok := found[r.ID()]
		if !ok {
			r.Set(FieldPrimaryMedia, nil)
			continue
		}
		r.Set(FieldPrimaryMedia, &domain.PrimaryMedia{
			MediaID:  m.ID,
			URL:      urls[r.ID()],
			FileName: m.FileName,
			MimeType: m.MimeType,
		})
	}

	return nil
}

// presign returns signed URLs keyed by entity id; failed entries are absent.
// Only a cancelled request is reported as an error.
func (h *MediaHydrator) presign(ctx context.Context, entityType domain.EntityType, items []domain.PresignItem, owners []string) (map[string]string, error) {
	urls := make(map[string]string, len(items))
	if len(items) == 0 {
		return urls, nil
	}

	results, err := h.storage.PresignBatch(ctx, items, h.expiry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		h.logger.Warn("Presign batch failed, media urls left empty",
			zap.String("entity_type", string(entityType)),
			zap.Int("count", len(items)),
			zap.Error(err))
		h.metrics.PresignFailed(string(entityType), len(items))
		return urls, nil
	}

	failed := 0
	for i, owner := range owners {
		if i >= len(results) || results[i].Err != nil || results[i].URL == "" {
			failed++
			var cause error
			if i < len(results) {
				cause = results[i].Err
			}
			h.logger.Warn("Failed to sign media url",
				zap.String("entity_type", string(entityType)),
				zap.String("entity_id", owner),
				zap.String("media_id", items[i].ID),
				zap.Error(cause))
			continue
		}
		urls[owner] = results[i].URL
	}
	h.metrics.PresignFailed(string(entityType), failed)

	return urls, nil
}
