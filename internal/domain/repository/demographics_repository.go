package repository

import (
	"context"

	"github.com/digital-profile/internal/domain"
)

type DemographicsRepository interface {
	ListWards(ctx context.Context) ([]domain.WardDemographics, error)

	// GetAgeGenderCounts returns every ward when wardNumber is nil
	GetAgeGenderCounts(ctx context.Context, wardNumber *int) ([]domain.AgeGenderCount, error)
}
