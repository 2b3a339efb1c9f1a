package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/metrics"
	"github.com/digital-profile/internal/pkg/slug"
)

const uniqueViolation = "23505"

type listingRepository struct {
	db      *sqlx.DB
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewListingRepository - one repository serves every entity table, the schema
// passed to each call selects the table and columns
func NewListingRepository(db *DB, m *metrics.Metrics) repository.ListingRepository {
	return &listingRepository{
		db:      db.DB,
		logger:  db.logger,
		metrics: m,
	}
}

// List runs count and page inside one REPEATABLE READ READ ONLY transaction
// so totalItems and items describe the same snapshot
func (r *listingRepository) List(ctx context.Context, schema *domain.Schema, q domain.ListQuery) ([]*domain.Row, int, error) {
	b := newQueryBuilder(schema).
		ApplyFilter(q.Filter).
		OrderBy(q.SortBy, q.SortOrder)

	countSQL, countArgs, err := b.BuildCount()
	if err != nil {
		return nil, 0, fmt.Errorf("build count for %s: %w", schema.Table, err)
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		r.logger.Error("failed to begin listing snapshot", zap.String("table", schema.Table), zap.Error(err))
		return nil, 0, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	start := time.Now()
	var total int
	if err := tx.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		r.logger.Error("failed to count rows",
			zap.String("table", schema.Table),
			zap.String("query", countSQL),
			zap.Error(err))
		return nil, 0, fmt.Errorf("count %s: %w", schema.Table, err)
	}
	r.metrics.ObservePhase(string(schema.Type), metrics.PhaseCount, start)

	// nothing matches or the page lies beyond the last one
	if total == 0 || q.Offset() >= total {
		return []*domain.Row{}, total, tx.Commit()
	}

	pageSQL, pageArgs, cols, err := b.BuildPage(q.ViewType, q.Page, q.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("build page for %s: %w", schema.Table, err)
	}

	start = time.Now()
	rows, err := tx.QueryxContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		r.logger.Error("failed to query page",
			zap.String("table", schema.Table),
			zap.String("query", pageSQL),
			zap.Error(err))
		return nil, 0, fmt.Errorf("query %s page: %w", schema.Table, err)
	}
	items, err := scanRows(rows, cols)
	if err != nil {
		r.logger.Error("failed to scan page", zap.String("table", schema.Table), zap.Error(err))
		return nil, 0, fmt.Errorf("scan %s page: %w", schema.Table, err)
	}
	r.metrics.ObservePhase(string(schema.Type), metrics.PhasePage, start)

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit snapshot: %w", err)
	}

	return items, total, nil
}

func (r *listingRepository) GetByID(ctx context.Context, schema *domain.Schema, id string) (*domain.Row, error) {
	// a malformed id can never match and would only produce a cast error
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, r.db, schema, "id", id)
}

func (r *listingRepository) GetBySlug(ctx context.Context, schema *domain.Schema, slugValue string) (*domain.Row, error) {
	return r.getOne(ctx, r.db, schema, "slug", slugValue)
}

func (r *listingRepository) getOne(ctx context.Context, q sqlx.QueryerContext, schema *domain.Schema, column string, value any) (*domain.Row, error) {
	query, args, cols, err := newQueryBuilder(schema).BuildSingle(column, value)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to get entity",
			zap.String("table", schema.Table),
			zap.String("by", column),
			zap.Error(err))
		return nil, fmt.Errorf("get %s by %s: %w", schema.Table, column, err)
	}

	items, err := scanRows(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", schema.Table, err)
	}
	if len(items) == 0 {
		return nil, repository.ErrNotFound
	}
	return items[0], nil
}

func (r *listingRepository) TakenSlugs(ctx context.Context, schema *domain.Schema, base, excludeID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT slug FROM %s
		WHERE (slug = $1 OR slug LIKE $2)
		  AND ($3 = '' OR id::text <> $3)
	`, schema.Table)

	var candidates []string
	if err := r.db.SelectContext(ctx, &candidates, query, base, escapeLike(base)+"-%", excludeID); err != nil {
		r.logger.Error("failed to load slugs", zap.String("table", schema.Table), zap.Error(err))
		return nil, fmt.Errorf("load %s slugs: %w", schema.Table, err)
	}

	taken := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if slug.Suffix(base, c) >= 0 {
			taken = append(taken, c)
		}
	}
	return taken, nil
}

func (r *listingRepository) Create(ctx context.Context, schema *domain.Schema, values map[string]interface{}) (*domain.Row, error) {
	names, placeholders, args := writeColumns(schema, values)
	if len(names) == 0 {
		return nil, fmt.Errorf("create %s: no values", schema.Table)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id::text",
		schema.Table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)

	var id string
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isSlugConflict(err) {
			return nil, repository.ErrSlugTaken
		}
		r.logger.Error("failed to insert entity", zap.String("table", schema.Table), zap.Error(err))
		return nil, fmt.Errorf("insert %s: %w", schema.Table, err)
	}

	r.logger.Debug("entity created", zap.String("table", schema.Table), zap.String("id", id))
	return r.GetByID(ctx, schema, id)
}

func (r *listingRepository) Update(ctx context.Context, schema *domain.Schema, id string, values map[string]interface{}) (*domain.Row, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	names, placeholders, args := writeColumns(schema, values)
	if len(names) == 0 {
		return r.GetByID(ctx, schema, id)
	}

	sets := make([]string, len(names))
	for i := range names {
		sets[i] = names[i] + " = " + placeholders[i]
	}
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		schema.Table,
		strings.Join(sets, ", "),
		len(args),
	)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isSlugConflict(err) {
			return nil, repository.ErrSlugTaken
		}
		r.logger.Error("failed to update entity",
			zap.String("table", schema.Table),
			zap.String("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("update %s: %w", schema.Table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, schema, id)
}

// Delete removes the entity and its entity_media rows in one transaction.
// The returned media are no longer linked to any entity.
func (r *listingRepository) Delete(ctx context.Context, schema *domain.Schema, id string) ([]domain.Media, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	orphaned := make([]domain.Media, 0)
	err = tx.SelectContext(ctx, &orphaned, `
		SELECT m.id::text AS id, m.file_path, m.file_name, m.mime_type
		FROM entity_media em
		JOIN media m ON m.id = em.media_id
		WHERE em.entity_type = $1 AND em.entity_id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM entity_media other
			WHERE other.media_id = em.media_id
			  AND NOT (other.entity_type = $1 AND other.entity_id = $2)
		  )
		ORDER BY em.display_order, m.id
	`, string(schema.Type), id)
	if err != nil {
		r.logger.Error("failed to collect entity media", zap.String("table", schema.Table), zap.Error(err))
		return nil, fmt.Errorf("collect media of %s: %w", schema.Table, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM entity_media WHERE entity_type = $1 AND entity_id = $2`,
		string(schema.Type), id,
	); err != nil {
		return nil, fmt.Errorf("delete media links: %w", err)
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", schema.Table), id)
	if err != nil {
		r.logger.Error("failed to delete entity",
			zap.String("table", schema.Table),
			zap.String("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("delete %s: %w", schema.Table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}

	r.logger.Info("entity deleted",
		zap.String("table", schema.Table),
		zap.String("id", id),
		zap.Int("orphaned_media", len(orphaned)))
	return orphaned, nil
}

// writeColumns - column list, placeholders and args for the supplied values in
// schema order. Geometry goes through ST_GeomFromGeoJSON, JSON is cast to jsonb.
func writeColumns(schema *domain.Schema, values map[string]interface{}) ([]string, []string, []any) {
	names := make([]string, 0, len(values))
	placeholders := make([]string, 0, len(values))
	args := make([]any, 0, len(values))

	for _, c := range schema.Columns {
		v, ok := values[c.Name]
		if !ok {
			continue
		}
		args = append(args, v)
		n := len(args)

		var ph string
		switch {
		case c.Kind.IsGeometry():
			ph = fmt.Sprintf("ST_SetSRID(ST_GeomFromGeoJSON($%d::text), %d)", n, SRID4326)
			if v == nil {
				ph = fmt.Sprintf("$%d::geometry", n)
			}
		case c.Kind == domain.KindJSON:
			ph = fmt.Sprintf("$%d::jsonb", n)
		default:
			ph = fmt.Sprintf("$%d", n)
		}

		names = append(names, c.Name)
		placeholders = append(placeholders, ph)
	}

	return names, placeholders, args
}

func isSlugConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && strings.Contains(pgErr.ConstraintName, "slug")
}
