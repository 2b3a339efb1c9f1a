package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
)

type demographicsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDemographicsRepository(db *DB) repository.DemographicsRepository {
	return &demographicsRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ListWards returns ward level indicators ordered by ward number
func (r *demographicsRepository) ListWards(ctx context.Context) ([]domain.WardDemographics, error) {
	query := `
		SELECT
			ward_number,
			total_population,
			male_population,
			female_population,
			COALESCE(other_population, 0) AS other_population,
			total_households,
			COALESCE(average_household_size, 0) AS average_household_size,
			COALESCE(sex_ratio, 0) AS sex_ratio
		FROM ward_demographics
		ORDER BY ward_number
	`

	wards := make([]domain.WardDemographics, 0)
	if err := r.db.SelectContext(ctx, &wards, query); err != nil {
		r.logger.Error("failed to list ward demographics", zap.Error(err))
		return nil, fmt.Errorf("list ward demographics: %w", err)
	}
	return wards, nil
}

// GetAgeGenderCounts returns population per age band and gender
func (r *demographicsRepository) GetAgeGenderCounts(ctx context.Context, wardNumber *int) ([]domain.AgeGenderCount, error) {
	query := `
		SELECT ward_number, age_group, gender, population
		FROM ward_age_gender_population
		WHERE ($1::int IS NULL OR ward_number = $1)
		ORDER BY ward_number, age_group, gender
	`

	counts := make([]domain.AgeGenderCount, 0)
	if err := r.db.SelectContext(ctx, &counts, query, wardNumber); err != nil {
		r.logger.Error("failed to get age gender counts", zap.Error(err))
		return nil, fmt.Errorf("get age gender counts: %w", err)
	}
	return counts, nil
}
