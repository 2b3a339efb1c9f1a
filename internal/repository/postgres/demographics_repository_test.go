package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/repository/postgres/testhelpers"
)

type DemographicsRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.DemographicsRepository
	ctx    context.Context
}

func (s *DemographicsRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()

	err := s.testDB.Migrate(context.Background(), migrationsPath)
	s.Require().NoError(err, "Failed to apply migrations")

	s.Require().NoError(s.testDB.Cleanup(s.ctx))
	err = testhelpers.LoadFixtures(s.testDB.DB.DB, fixturesPath, []string{"demographics.sql"})
	s.Require().NoError(err, "Failed to load fixtures")

	s.repo = testhelpers.NewDemographicsRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *DemographicsRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *DemographicsRepositoryTestSuite) TestListWards() {
	wards, err := s.repo.ListWards(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(wards, 3)

	s.Equal(1, wards[0].WardNumber)
	s.Equal(1000, wards[0].TotalPopulation)
	s.Equal(5, wards[0].OtherPopulation)
	s.InDelta(4.55, wards[0].AverageHouseholdSize, 1e-9)
	s.Equal(3, wards[2].WardNumber)
}

func (s *DemographicsRepositoryTestSuite) TestGetAgeGenderCounts() {
	all, err := s.repo.GetAgeGenderCounts(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 14)

	ward := 2
	counts, err := s.repo.GetAgeGenderCounts(s.ctx, &ward)
	s.Require().NoError(err)
	s.Len(counts, 4)
	for _, c := range counts {
		s.Equal(2, c.WardNumber)
	}
}

func TestDemographicsRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(DemographicsRepositoryTestSuite))
}
