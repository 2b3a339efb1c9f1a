package repository

import (
	"context"
	"errors"

	"github.com/digital-profile/internal/domain"
)

var (
	// ErrNotFound - no row matched the id or slug
	ErrNotFound = errors.New("entity not found")
	// ErrSlugTaken - insert or update lost a race on the unique slug index
	ErrSlugTaken = errors.New("slug already taken")
)

// ListingRepository - generic storage for every listable entity, driven by a schema
type ListingRepository interface {
	// List returns the requested page and the filtered total, both read from one snapshot
	List(ctx context.Context, schema *domain.Schema, query domain.ListQuery) ([]*domain.Row, int, error)

	GetByID(ctx context.Context, schema *domain.Schema, id string) (*domain.Row, error)

	GetBySlug(ctx context.Context, schema *domain.Schema, slug string) (*domain.Row, error)

	// TakenSlugs returns existing slugs equal to base or base-N, ignoring excludeID
	TakenSlugs(ctx context.Context, schema *domain.Schema, base, excludeID string) ([]string, error)

	// Create inserts values keyed by database column
	Create(ctx context.Context, schema *domain.Schema, values map[string]interface{}) (*domain.Row, error)

	// Update changes only the supplied columns
	Update(ctx context.Context, schema *domain.Schema, id string, values map[string]interface{}) (*domain.Row, error)

	// Delete removes the row with its media links and returns the media left orphaned
	Delete(ctx context.Context, schema *domain.Schema, id string) ([]domain.Media, error)
}
