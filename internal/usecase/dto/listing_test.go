package dto_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-profile/internal/domain"
	apperrors "github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/schema"
	"github.com/digital-profile/internal/usecase/dto"
)

var defaults = dto.ListDefaults{PageSize: 12, MaxPageSize: 100}

func TestParseListParams_Defaults(t *testing.T) {
	q, err := dto.ParseListParams(schema.Farm(), map[string]string{}, defaults)
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 12, q.PageSize)
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, domain.SortAsc, q.SortOrder)
	assert.Equal(t, domain.ViewTable, q.ViewType)
	assert.True(t, q.Filter.IsEmpty())
}

func TestParseListParams_Filters(t *testing.T) {
	q, err := dto.ParseListParams(schema.Farm(), map[string]string{
		"page":                   "2",
		"pageSize":               "5",
		"viewType":               "MAP",
		"sortBy":                 "totalAreaInHectares",
		"sortOrder":              "desc",
		"searchTerm":             " rice ",
		"wardNumber":             "3",
		"farmType":               "CROP",
		"farmingSystem":          "",
		"hasIrrigation":          "false",
		"minTotalAreaInHectares": "10",
		"maxLivestockCount":      "40",
	}, defaults)
	require.NoError(t, err)

	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.PageSize)
	assert.Equal(t, domain.ViewMap, q.ViewType)
	assert.Equal(t, domain.SortDesc, q.SortOrder)
	assert.Equal(t, "totalAreaInHectares", q.SortBy)

	f := q.Filter
	assert.Equal(t, map[string]string{"farm_type": "CROP"}, f.Equals)
	assert.Equal(t, map[string]bool{"has_irrigation": false}, f.Bools)
	require.Contains(t, f.Ranges, "total_area_in_hectares")
	assert.Equal(t, 10.0, *f.Ranges["total_area_in_hectares"].Min)
	assert.Nil(t, f.Ranges["total_area_in_hectares"].Max)
	assert.Equal(t, 40.0, *f.Ranges["livestock_count"].Max)
	require.NotNil(t, f.WardNumber)
	assert.Equal(t, 3, *f.WardNumber)
	assert.Equal(t, "rice", f.SearchTerm)
}

func TestParseListParams_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown filter":   {"ownerName": "x"},
		"foreign filter":   {"waterSource": "RIVER"},
		"bad bool":         {"hasStorage": "maybe"},
		"bad range":        {"minLivestockCount": "many"},
		"page zero":        {"page": "0"},
		"page not number":  {"page": "first"},
		"page beyond last": {"page": strconv.Itoa(math.MaxInt64 / 12)},
		"page over limit":  {"page": "1000001"},
		"page size large":  {"pageSize": "101"},
		"page size zero":   {"pageSize": "0"},
		"bad view":         {"viewType": "list"},
		"bad order":        {"sortOrder": "up"},
		"bad ward":         {"wardNumber": "0"},
		"ward not numeric": {"wardNumber": "two"},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dto.ParseListParams(schema.Farm(), params, defaults)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestParseListParams_HighestPage(t *testing.T) {
	q, err := dto.ParseListParams(schema.Farm(), map[string]string{"page": strconv.Itoa(domain.MaxPage)}, defaults)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPage, q.Page)

	_, err = dto.ParseListBody(schema.Farm(), []byte(`{"page": 1e30}`), defaults)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestParseListParams_ConfiguredMaxPageSize(t *testing.T) {
	_, err := dto.ParseListParams(schema.Farm(), map[string]string{"pageSize": "60"},
		dto.ListDefaults{PageSize: 10, MaxPageSize: 50})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestParseListBody(t *testing.T) {
	body := []byte(`{"page": 3, "pageSize": 12, "hasIrrigation": true, "farmType": null, "minLivestockCount": 2.5}`)

	q, err := dto.ParseListBody(schema.Farm(), body, defaults)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, map[string]bool{"has_irrigation": true}, q.Filter.Bools)
	assert.Empty(t, q.Filter.Equals)
	assert.Equal(t, 2.5, *q.Filter.Ranges["livestock_count"].Min)

	q, err = dto.ParseListBody(schema.Farm(), nil, defaults)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)

	_, err = dto.ParseListBody(schema.Farm(), []byte(`{"farmType": ["CROP"]}`), defaults)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = dto.ParseListBody(schema.Farm(), []byte(`{`), defaults)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestAllowedFilters(t *testing.T) {
	keys := dto.AllowedFilters(schema.Farm())
	assert.Contains(t, keys, "farmType")
	assert.Contains(t, keys, "isVerified")
	assert.Contains(t, keys, "minCultivatedAreaInHectares")
	assert.Contains(t, keys, "maxTotalAreaInHectares")
}
