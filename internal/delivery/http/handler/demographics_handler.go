package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/utils"
	"github.com/digital-profile/internal/pkg/validator"
	"github.com/digital-profile/internal/usecase/dto"
)

type DemographicsService interface {
	ListWards(ctx context.Context) (*dto.WardsResponse, error)
	GetSummary(ctx context.Context, req dto.DemographicsSummaryRequest) (*domain.DemographicSummary, error)
}

// DemographicsHandler serves ward statistics
type DemographicsHandler struct {
	demographics DemographicsService
	logger       *zap.Logger
}

func NewDemographicsHandler(demographics DemographicsService, logger *zap.Logger) *DemographicsHandler {
	return &DemographicsHandler{
		demographics: demographics,
		logger:       logger,
	}
}

// ListWards godoc
// @Summary Ward demographics
// @Description Population, households and sex ratio per ward
// @Tags Demographics
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.WardsResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/demographics/wards [get]
func (h *DemographicsHandler) ListWards(c *fiber.Ctx) error {
	res, err := h.demographics.ListWards(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, res, &utils.Meta{Total: res.Total})
}

// GetSummary godoc
// @Summary Demographic summary
// @Description Totals, age pyramid and dependency ratios for the municipality or one ward. Display strings use Devanagari digits for lang=ne.
// @Tags Demographics
// @Produce json
// @Param ward query int false "Ward number"
// @Param lang query string false "Display language" Enums(en, ne) default(en)
// @Success 200 {object} utils.SuccessResponse{data=domain.DemographicSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/demographics/summary [get]
func (h *DemographicsHandler) GetSummary(c *fiber.Ctx) error {
	var req dto.DemographicsSummaryRequest
	req.Lang = c.Query("lang", "en")
	if raw := c.Query("ward"); raw != "" {
		ward := c.QueryInt("ward", -1)
		if ward == -1 {
			return utils.SendError(c, errors.BadRequest("Invalid ward %q", raw))
		}
		req.Ward = &ward
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	summary, err := h.demographics.GetSummary(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, summary, nil)
}
