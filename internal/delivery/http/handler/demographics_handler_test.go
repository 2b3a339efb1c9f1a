package handler_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/delivery/http/handler"
	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/usecase/dto"
)

func demographicsApp(svc *mockDemographics) *fiber.App {
	h := handler.NewDemographicsHandler(svc, zap.NewNop())
	app := fiber.New()
	app.Get("/wards", h.ListWards)
	app.Get("/summary", h.GetSummary)
	return app
}

func TestDemographicsHandler_ListWards(t *testing.T) {
	svc := &mockDemographics{}
	svc.On("ListWards", mock.Anything).Return(&dto.WardsResponse{
		Wards: []domain.WardDemographics{{WardNumber: 1, TotalPopulation: 340}},
		Total: 1,
	}, nil)

	resp, err := demographicsApp(svc).Test(httptest.NewRequest(fiber.MethodGet, "/wards", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.EqualValues(t, 1, body["meta"].(map[string]interface{})["total"])
	wards := body["data"].(map[string]interface{})["wards"].([]interface{})
	assert.EqualValues(t, 340, wards[0].(map[string]interface{})["totalPopulation"])
}

func TestDemographicsHandler_GetSummary(t *testing.T) {
	svc := &mockDemographics{}
	svc.On("GetSummary", mock.Anything, mock.MatchedBy(func(req dto.DemographicsSummaryRequest) bool {
		return req.Ward != nil && *req.Ward == 4 && req.Lang == "ne"
	})).Return(&domain.DemographicSummary{TotalPopulation: 340, Lang: "ne"}, nil)
	svc.On("GetSummary", mock.Anything, mock.MatchedBy(func(req dto.DemographicsSummaryRequest) bool {
		return req.Ward == nil && req.Lang == "en"
	})).Return(&domain.DemographicSummary{TotalPopulation: 1200, Lang: "en"}, nil)

	app := demographicsApp(svc)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/summary?ward=4&lang=ne", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 340, decode(t, resp.Body)["data"].(map[string]interface{})["totalPopulation"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1200, decode(t, resp.Body)["data"].(map[string]interface{})["totalPopulation"])
	svc.AssertExpectations(t)
}

func TestDemographicsHandler_GetSummaryRejects(t *testing.T) {
	for _, url := range []string{"/summary?ward=abc", "/summary?ward=0", "/summary?lang=fr"} {
		t.Run(url, func(t *testing.T) {
			svc := &mockDemographics{}
			resp, err := demographicsApp(svc).Test(httptest.NewRequest(fiber.MethodGet, url, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			svc.AssertNotCalled(t, "GetSummary", mock.Anything, mock.Anything)
		})
	}
}
