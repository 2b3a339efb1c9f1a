package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/errors"
)

// ListingUseCase runs the listing pipeline shared by every entity kind
type ListingUseCase struct {
	listingRepo repository.ListingRepository
	hydrator    *MediaHydrator
	timeout     time.Duration
	maxPageSize int
	pageSize    int
	logger      *zap.Logger
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	hydrator *MediaHydrator,
	timeout time.Duration,
	pageSize, maxPageSize int,
	logger *zap.Logger,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		hydrator:    hydrator,
		timeout:     timeout,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// List returns one page of entities with their primary media
func (uc *ListingUseCase) List(ctx context.Context, schema *domain.Schema, q domain.ListQuery) (*domain.Page[*domain.Row], error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	q = uc.normalize(schema, q)

	rows, total, err := uc.listingRepo.List(ctx, schema, q)
	if err != nil {
		uc.logger.Error("Failed to list entities",
			zap.String("entity_type", string(schema.Type)),
			zap.Int("page", q.Page),
			zap.Int("page_size", q.PageSize),
			zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	if err := uc.hydrator.Hydrate(ctx, schema.Type, rows); err != nil {
		uc.logger.Error("Failed to hydrate media",
			zap.String("entity_type", string(schema.Type)),
			zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	page := domain.NewPage(rows, q.Page, q.PageSize, total)
	uc.logger.Debug("Entities listed",
		zap.String("entity_type", string(schema.Type)),
		zap.Int("total", total),
		zap.Int("returned", len(page.Items)))
	return &page, nil
}

// normalize fills the gaps for callers that did not go through request parsing
func (uc *ListingUseCase) normalize(schema *domain.Schema, q domain.ListQuery) domain.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > domain.MaxPage {
		q.Page = domain.MaxPage
	}
	if q.PageSize < 1 {
		q.PageSize = uc.pageSize
	}
	if q.PageSize < 1 {
		q.PageSize = 12
	}
	if uc.maxPageSize > 0 && q.PageSize > uc.maxPageSize {
		q.PageSize = uc.maxPageSize
	}
	if q.SortBy == "" {
		q.SortBy = schema.DefaultSort
	}
	if q.SortOrder == "" {
		q.SortOrder = domain.SortAsc
	}
	if q.ViewType == "" {
		q.ViewType = domain.ViewTable
	}
	return q
}
