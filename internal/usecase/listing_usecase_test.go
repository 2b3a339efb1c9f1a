package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	apperrors "github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/schema"
	"github.com/digital-profile/internal/usecase"
)

// pagedRepo serves n generated rows, slicing them like LIMIT/OFFSET
type pagedRepo struct {
	MockListingRepository
	n int
}

func (r *pagedRepo) List(_ context.Context, _ *domain.Schema, q domain.ListQuery) ([]*domain.Row, int, error) {
	rows := []*domain.Row{}
	for i := q.Offset(); i < r.n && i < q.Offset()+q.PageSize; i++ {
		row := domain.NewRow(2)
		row.Set("id", fmt.Sprintf("id-%02d", i))
		row.Set("name", fmt.Sprintf("Farm %02d", i))
		rows = append(rows, row)
	}
	return rows, r.n, nil
}

// noMedia - hydrator collaborators for entities without any media
func noMedia() (*MockMediaRepository, *MockObjectStorage) {
	mediaRepo := &MockMediaRepository{}
	mediaRepo.On("GetPrimaryMedia", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]domain.Media{}, nil)
	return mediaRepo, &MockObjectStorage{}
}

func newListing(repo repository.ListingRepository, mediaRepo *MockMediaRepository, storage *MockObjectStorage) *usecase.ListingUseCase {
	hydrator := usecase.NewMediaHydrator(mediaRepo, storage, 24*time.Hour, nil, zap.NewNop())
	return usecase.NewListingUseCase(repo, hydrator, time.Second, 12, 100, zap.NewNop())
}

func query(page, pageSize int) domain.ListQuery {
	return domain.ListQuery{Page: page, PageSize: pageSize, SortBy: "name", SortOrder: domain.SortAsc, ViewType: domain.ViewTable}
}

func TestListingUseCase_PaginationConsistency(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 25, 100} {
		for _, p := range []int{1, 5, 12, 100} {
			t.Run(fmt.Sprintf("N=%d P=%d", n, p), func(t *testing.T) {
				mediaRepo, storage := noMedia()
				uc := newListing(&pagedRepo{n: n}, mediaRepo, storage)

				first, err := uc.List(context.Background(), schema.Farm(), query(1, p))
				require.NoError(t, err)
				assert.Equal(t, (n+p-1)/p, first.TotalPages)

				seen := 0
				for page := 1; page <= first.TotalPages; page++ {
					res, err := uc.List(context.Background(), schema.Farm(), query(page, p))
					require.NoError(t, err)
					seen += len(res.Items)
					assert.Equal(t, page > 1, res.HasPreviousPage)
					assert.Equal(t, page < first.TotalPages, res.HasNextPage)
				}
				assert.Equal(t, n, seen)
			})
		}
	}
}

func TestListingUseCase_TwentyFiveFarms(t *testing.T) {
	mediaRepo, storage := noMedia()
	uc := newListing(&pagedRepo{n: 25}, mediaRepo, storage)
	ctx := context.Background()

	page1, err := uc.List(ctx, schema.Farm(), query(1, 12))
	require.NoError(t, err)
	assert.Len(t, page1.Items, 12)
	assert.Equal(t, 25, page1.TotalItems)
	assert.Equal(t, 3, page1.TotalPages)
	assert.True(t, page1.HasNextPage)
	assert.False(t, page1.HasPreviousPage)

	page3, err := uc.List(ctx, schema.Farm(), query(3, 12))
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
	assert.False(t, page3.HasNextPage)
	assert.True(t, page3.HasPreviousPage)

	beyond, err := uc.List(ctx, schema.Farm(), query(9, 12))
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.False(t, beyond.HasNextPage)
	assert.True(t, beyond.HasPreviousPage)
}

func TestListingUseCase_EmptyResultSkipsHydration(t *testing.T) {
	repo := &MockListingRepository{}
	mediaRepo := &MockMediaRepository{}
	storage := &MockObjectStorage{}
	uc := newListing(repo, mediaRepo, storage)

	repo.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.Row{}, 0, nil)

	res, err := uc.List(context.Background(), schema.Farm(), query(2, 12))
	require.NoError(t, err)

	assert.Equal(t, []*domain.Row{}, res.Items)
	assert.Equal(t, 0, res.TotalItems)
	assert.Equal(t, 0, res.TotalPages)
	assert.False(t, res.HasNextPage)
	assert.True(t, res.HasPreviousPage)
	mediaRepo.AssertNotCalled(t, "GetPrimaryMedia", mock.Anything, mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "PresignBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestListingUseCase_NormalizesQuery(t *testing.T) {
	repo := &MockListingRepository{}
	mediaRepo, storage := noMedia()
	uc := newListing(repo, mediaRepo, storage)

	want := domain.ListQuery{Page: 1, PageSize: 100, SortBy: "name", SortOrder: domain.SortAsc, ViewType: domain.ViewTable}
	repo.On("List", mock.Anything, mock.Anything, want).Return([]*domain.Row{}, 0, nil)

	_, err := uc.List(context.Background(), schema.Farm(), domain.ListQuery{Page: -3, PageSize: 5000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListingUseCase_PageFarBeyondTotal(t *testing.T) {
	repo := &MockListingRepository{}
	mediaRepo, storage := noMedia()
	uc := newListing(repo, mediaRepo, storage)

	repo.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(q domain.ListQuery) bool {
		return q.Page == domain.MaxPage
	})).Return([]*domain.Row{}, 25, nil)

	res, err := uc.List(context.Background(), schema.Farm(), query(math.MaxInt64/12, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalPages)
	assert.False(t, res.HasNextPage)
	assert.True(t, res.HasPreviousPage)
	assert.Empty(t, res.Items)
	repo.AssertExpectations(t)
}

func TestListingUseCase_Failures(t *testing.T) {
	t.Run("query failure is internal", func(t *testing.T) {
		repo := &MockListingRepository{}
		mediaRepo, storage := noMedia()
		uc := newListing(repo, mediaRepo, storage)
		repo.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, 0, errors.New("connection refused"))

		res, err := uc.List(context.Background(), schema.Farm(), query(1, 12))
		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
		assert.NotContains(t, err.Error(), "connection refused")
	})

	t.Run("media lookup failure aborts", func(t *testing.T) {
		repo := &pagedRepo{n: 3}
		mediaRepo := &MockMediaRepository{}
		mediaRepo.On("GetPrimaryMedia", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
		uc := newListing(repo, mediaRepo, &MockObjectStorage{})

		res, err := uc.List(context.Background(), schema.Farm(), query(1, 12))
		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
	})
}
