package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/usecase/dto"
)

type mockListing struct {
	mock.Mock
}

func (m *mockListing) List(ctx context.Context, s *domain.Schema, q domain.ListQuery) (*domain.Page[*domain.Row], error) {
	args := m.Called(ctx, s, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Row]), args.Error(1)
}

type mockEntities struct {
	mock.Mock
}

func (m *mockEntities) row(args mock.Arguments) (*domain.Row, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Row), args.Error(1)
}

func (m *mockEntities) GetBySlug(ctx context.Context, s *domain.Schema, slug string) (*domain.Row, error) {
	return m.row(m.Called(ctx, s, slug))
}

func (m *mockEntities) GetByID(ctx context.Context, s *domain.Schema, id string) (*domain.Row, error) {
	return m.row(m.Called(ctx, s, id))
}

func (m *mockEntities) Create(ctx context.Context, s *domain.Schema, input dto.EntityInput, actor string) (*domain.Row, error) {
	return m.row(m.Called(ctx, s, input, actor))
}

func (m *mockEntities) Update(ctx context.Context, s *domain.Schema, id string, input dto.EntityInput, actor string) (*domain.Row, error) {
	return m.row(m.Called(ctx, s, id, input, actor))
}

func (m *mockEntities) Delete(ctx context.Context, s *domain.Schema, id, actor string) (*dto.DeleteResponse, error) {
	args := m.Called(ctx, s, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteResponse), args.Error(1)
}

type mockDemographics struct {
	mock.Mock
}

func (m *mockDemographics) ListWards(ctx context.Context) (*dto.WardsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WardsResponse), args.Error(1)
}

func (m *mockDemographics) GetSummary(ctx context.Context, req dto.DemographicsSummaryRequest) (*domain.DemographicSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemographicSummary), args.Error(1)
}
