package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/numerals"
	"github.com/digital-profile/internal/usecase/dto"
)

// Age band boundaries of the dependency ratios
const (
	workingAgeFrom = 15
	oldAgeFrom     = 60
)

// DemographicsCachePrefix - every cached summary lives under this prefix
const DemographicsCachePrefix = "demographics:summary:"

// DemographicsUseCase aggregates ward population data into summaries
type DemographicsUseCase struct {
	demoRepo  repository.DemographicsRepository
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewDemographicsUseCase(
	demoRepo repository.DemographicsRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DemographicsUseCase {
	return &DemographicsUseCase{
		demoRepo:  demoRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (uc *DemographicsUseCase) ListWards(ctx context.Context) (*dto.WardsResponse, error) {
	wards, err := uc.demoRepo.ListWards(ctx)
	if err != nil {
		uc.logger.Error("Failed to list wards", zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	return &dto.WardsResponse{Wards: wards, Total: len(wards)}, nil
}

// GetSummary returns the municipality summary, or one ward's when req.Ward is
// set. The cache is best effort: its failures are logged and skipped.
func (uc *DemographicsUseCase) GetSummary(ctx context.Context, req dto.DemographicsSummaryRequest) (*domain.DemographicSummary, error) {
	f := numerals.New(req.Lang)
	key := summaryCacheKey(req.Ward, f.Lang())

	cached, err := uc.cacheRepo.GetDemographicSummary(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get demographic summary from cache", zap.String("key", key), zap.Error(err))
	}
	if cached != nil {
		uc.logger.Debug("Demographic summary fetched from cache", zap.String("key", key))
		return cached, nil
	}

	wards, err := uc.demoRepo.ListWards(ctx)
	if err != nil {
		uc.logger.Error("Failed to list wards", zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	if req.Ward != nil && !hasWard(wards, *req.Ward) {
		return nil, errors.NotFound(fmt.Sprintf("ward %d", *req.Ward))
	}

	counts, err := uc.demoRepo.GetAgeGenderCounts(ctx, req.Ward)
	if err != nil {
		uc.logger.Error("Failed to get age and gender counts", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	summary := buildSummary(req.Ward, wards, counts, f)

	if err := uc.cacheRepo.SetDemographicSummary(ctx, key, summary, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache demographic summary", zap.String("key", key), zap.Error(err))
	}

	return summary, nil
}

func summaryCacheKey(ward *int, lang string) string {
	scope := "all"
	if ward != nil {
		scope = strconv.Itoa(*ward)
	}
	return DemographicsCachePrefix + scope + ":" + lang
}

func hasWard(wards []domain.WardDemographics, n int) bool {
	for _, w := range wards {
		if w.WardNumber == n {
			return true
		}
	}
	return false
}

func buildSummary(ward *int, wards []domain.WardDemographics, counts []domain.AgeGenderCount, f *numerals.Formatter) *domain.DemographicSummary {
	s := &domain.DemographicSummary{WardNumber: ward, Lang: f.Lang()}

	for _, w := range wards {
		if ward != nil && w.WardNumber != *ward {
			continue
		}
		s.TotalPopulation += w.TotalPopulation
		s.MalePopulation += w.MalePopulation
		s.FemalePopulation += w.FemalePopulation
		s.OtherPopulation += w.OtherPopulation
		s.TotalHouseholds += w.TotalHouseholds
	}
	if s.FemalePopulation > 0 {
		s.SexRatio = round2(float64(s.MalePopulation) / float64(s.FemalePopulation) * 100)
	}

	s.AgePyramid = agePyramid(counts)
	s.Dependency = dependencyRatios(s.AgePyramid)

	s.Display = map[string]string{
		"totalPopulation":  f.Int(s.TotalPopulation),
		"malePopulation":   f.Int(s.MalePopulation),
		"femalePopulation": f.Int(s.FemalePopulation),
		"otherPopulation":  f.Int(s.OtherPopulation),
		"totalHouseholds":  f.Int(s.TotalHouseholds),
		"sexRatio":         f.Float(s.SexRatio, 2),
		"youngDependency":  f.Percent(s.Dependency.Young, 2),
		"oldDependency":    f.Percent(s.Dependency.Old, 2),
		"totalDependency":  f.Percent(s.Dependency.Total, 2),
	}
	return s
}

// agePyramid - one band per age group ordered by lower bound, male counts negated
func agePyramid(counts []domain.AgeGenderCount) []domain.AgeBand {
	bands := map[string]*domain.AgeBand{}
	for _, c := range counts {
		b, ok := bands[c.AgeGroup]
		if !ok {
			b = &domain.AgeBand{AgeGroup: c.AgeGroup}
			bands[c.AgeGroup] = b
		}
		switch strings.ToLower(c.Gender) {
		case "male":
			b.Male -= c.Population
		case "female":
			b.Female += c.Population
		default:
			b.Other += c.Population
		}
		b.Total += c.Population
	}

	out := make([]domain.AgeBand, 0, len(bands))
	for _, b := range bands {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := lowerBound(out[i].AgeGroup), lowerBound(out[j].AgeGroup)
		if li != lj {
			return li < lj
		}
		return out[i].AgeGroup < out[j].AgeGroup
	})
	return out
}

// dependencyRatios - young = 0-14 / 15-59 x 100, old = 60+ / 15-59 x 100
func dependencyRatios(bands []domain.AgeBand) domain.DependencyRatios {
	var young, working, old int
	for _, b := range bands {
		switch lb := lowerBound(b.AgeGroup); {
		case lb < 0:
			continue
		case lb < workingAgeFrom:
			young += b.Total
		case lb < oldAgeFrom:
			working += b.Total
		default:
			old += b.Total
		}
	}
	if working == 0 {
		return domain.DependencyRatios{}
	}

	r := domain.DependencyRatios{
		Young: round2(float64(young) / float64(working) * 100),
		Old:   round2(float64(old) / float64(working) * 100),
	}
	r.Total = round2(r.Young + r.Old)
	return r
}

// lowerBound - first number of an age group label such as "15-19", "75+" or
// "AGE_0_4"; -1 when the label has none
func lowerBound(group string) int {
	start := strings.IndexFunc(group, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return -1
	}
	end := start
	for end < len(group) && group[end] >= '0' && group[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(group[start:end])
	if err != nil {
		return -1
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
