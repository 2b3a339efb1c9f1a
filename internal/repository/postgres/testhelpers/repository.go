package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/metrics"
	"github.com/digital-profile/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewListingRepositoryForTest creates a listing repository with its own metrics registry
func NewListingRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ListingRepository {
	return postgres.NewListingRepository(NewDBForTest(db, logger), metrics.New())
}

// NewMediaRepositoryForTest creates a media repository with test database and logger
func NewMediaRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.MediaRepository {
	return postgres.NewMediaRepository(NewDBForTest(db, logger))
}

// NewDemographicsRepositoryForTest creates a demographics repository with test database and logger
func NewDemographicsRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.DemographicsRepository {
	return postgres.NewDemographicsRepository(NewDBForTest(db, logger))
}
