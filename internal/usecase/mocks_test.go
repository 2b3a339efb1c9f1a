package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/digital-profile/internal/domain"
)

// MockListingRepository is a mock of ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) List(ctx context.Context, schema *domain.Schema, q domain.ListQuery) ([]*domain.Row, int, error) {
	args := m.Called(ctx, schema, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Row), args.Int(1), args.Error(2)
}

func (m *MockListingRepository) GetByID(ctx context.Context, schema *domain.Schema, id string) (*domain.Row, error) {
	args := m.Called(ctx, schema, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Row), args.Error(1)
}

func (m *MockListingRepository) GetBySlug(ctx context.Context, schema *domain.Schema, slug string) (*domain.Row, error) {
	args := m.Called(ctx, schema, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Row), args.Error(1)
}

func (m *MockListingRepository) TakenSlugs(ctx context.Context, schema *domain.Schema, base, excludeID string) ([]string, error) {
	args := m.Called(ctx, schema, base, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockListingRepository) Create(ctx context.Context, schema *domain.Schema, values map[string]interface{}) (*domain.Row, error) {
	args := m.Called(ctx, schema, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Row), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, schema *domain.Schema, id string, values map[string]interface{}) (*domain.Row, error) {
	args := m.Called(ctx, schema, id, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Row), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, schema *domain.Schema, id string) ([]domain.Media, error) {
	args := m.Called(ctx, schema, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Media), args.Error(1)
}

// MockMediaRepository is a mock of MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) GetPrimaryMedia(ctx context.Context, entityType domain.EntityType, ids []string) (map[string]domain.Media, error) {
	args := m.Called(ctx, entityType, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Media), args.Error(1)
}

func (m *MockMediaRepository) DeleteMedia(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

// MockObjectStorage is a mock of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PresignBatch(ctx context.Context, items []domain.PresignItem, expiry time.Duration) ([]domain.PresignResult, error) {
	args := m.Called(ctx, items, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PresignResult), args.Error(1)
}

func (m *MockObjectStorage) DeleteObjects(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

func (m *MockStreamRepository) ReclaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxDeliveries int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, maxDeliveries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func (m *MockCacheRepository) GetDemographicSummary(ctx context.Context, key string) (*domain.DemographicSummary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemographicSummary), args.Error(1)
}

func (m *MockCacheRepository) SetDemographicSummary(ctx context.Context, key string, summary *domain.DemographicSummary, ttl time.Duration) error {
	return m.Called(ctx, key, summary, ttl).Error(0)
}

// MockDemographicsRepository is a mock of DemographicsRepository
type MockDemographicsRepository struct {
	mock.Mock
}

func (m *MockDemographicsRepository) ListWards(ctx context.Context) ([]domain.WardDemographics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WardDemographics), args.Error(1)
}

func (m *MockDemographicsRepository) GetAgeGenderCounts(ctx context.Context, ward *int) ([]domain.AgeGenderCount, error) {
	args := m.Called(ctx, ward)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgeGenderCount), args.Error(1)
}

func ptrInt(v int) *int {
	return &v
}
