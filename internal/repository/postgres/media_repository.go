package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
)

type mediaRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMediaRepository - media and entity_media access
func NewMediaRepository(db *DB) repository.MediaRepository {
	return &mediaRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetPrimaryMedia - one query for the whole page. When several rows are flagged
// primary the lowest display_order wins, then the earliest created_at, then
// the lowest media id.
func (r *mediaRepository) GetPrimaryMedia(ctx context.Context, entityType domain.EntityType, entityIDs []string) (map[string]domain.Media, error) {
	result := make(map[string]domain.Media, len(entityIDs))
	if len(entityIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT DISTINCT ON (em.entity_id)
			em.entity_id::text AS entity_id,
			m.id::text AS id,
			m.file_path,
			m.file_name,
			m.mime_type
		FROM entity_media em
		JOIN media m ON m.id = em.media_id
		WHERE em.entity_type = $1
		  AND em.is_primary
		  AND em.entity_id::text = ANY($2)
		ORDER BY em.entity_id, em.display_order ASC, em.created_at ASC, m.id ASC
	`

	var records []domain.PrimaryMediaRecord
	if err := r.db.SelectContext(ctx, &records, query, string(entityType), pq.Array(entityIDs)); err != nil {
		r.logger.Error("failed to get primary media",
			zap.String("entity_type", string(entityType)),
			zap.Int("entities", len(entityIDs)),
			zap.Error(err))
		return nil, fmt.Errorf("get primary media: %w", err)
	}

	for _, rec := range records {
		result[rec.EntityID] = rec.Media
	}
	return result, nil
}

// DeleteMedia - rows still linked to an entity are kept
func (r *mediaRepository) DeleteMedia(ctx context.Context, mediaIDs []string) error {
	if len(mediaIDs) == 0 {
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM media
		WHERE id::text = ANY($1)
		  AND NOT EXISTS (SELECT 1 FROM entity_media em WHERE em.media_id = media.id)
	`, pq.Array(mediaIDs))
	if err != nil {
		r.logger.Error("failed to delete media", zap.Int("count", len(mediaIDs)), zap.Error(err))
		return fmt.Errorf("delete media: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		r.logger.Debug("media rows deleted", zap.Int64("deleted", n), zap.Int("requested", len(mediaIDs)))
	}
	return nil
}
