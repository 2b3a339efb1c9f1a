package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/schema"
)

func ptr[T any](v T) *T { return &v }

func TestQueryBuilder_NoFilterMatchesAll(t *testing.T) {
	b := newQueryBuilder(schema.Farm()).ApplyFilter(domain.ListFilter{})

	query, args, err := b.BuildCount()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM farms", query)
	assert.Empty(t, args)

	blank := domain.ListFilter{Equals: map[string]string{"farm_type": ""}, Ranges: map[string]domain.Range{"livestock_count": {}}, SearchTerm: "  "}
	query, args, err = newQueryBuilder(schema.Farm()).ApplyFilter(blank).BuildCount()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM farms", query)
	assert.Empty(t, args)
}

func TestQueryBuilder_ConjunctionAndNumbering(t *testing.T) {
	f := domain.ListFilter{
		Equals: map[string]string{"farm_type": "CROP", "farming_system": ""},
		Bools:  map[string]bool{"has_irrigation": false},
		Ranges: map[string]domain.Range{
			"total_area_in_hectares": {Min: ptr(2.0), Max: ptr(10.0)},
			"livestock_count":        {Max: ptr(50.0)},
		},
		WardNumber: ptr(3),
		SearchTerm: "rice",
	}

	query, args, err := newQueryBuilder(schema.Farm()).ApplyFilter(f).BuildCount()
	require.NoError(t, err)

	// schema column order first, then ward, then search
	assert.Equal(t,
		"SELECT COUNT(*) FROM farms WHERE farm_type = $1"+
			" AND total_area_in_hectares >= $2 AND total_area_in_hectares <= $3"+
			" AND livestock_count <= $4"+
			" AND has_irrigation = $5"+
			" AND ward_number = $6"+
			" AND (name ILIKE $7 OR description ILIKE $8 OR location ILIKE $9 OR address ILIKE $10 OR major_crops ILIKE $11)",
		query,
	)
	assert.Equal(t, []any{"CROP", 2.0, 10.0, 50.0, false, 3, "%rice%", "%rice%", "%rice%", "%rice%", "%rice%"}, args)
}

func TestQueryBuilder_RejectsForeignColumns(t *testing.T) {
	f := domain.ListFilter{Equals: map[string]string{"grassland_type": "RANGELAND"}}

	_, _, err := newQueryBuilder(schema.Farm()).ApplyFilter(f).BuildCount()
	assert.Error(t, err)

	_, _, _, err = newQueryBuilder(schema.Farm()).ApplyFilter(f).BuildPage(domain.ViewTable, 1, 12)
	assert.Error(t, err)
}

func TestQueryBuilder_SearchEscapesWildcards(t *testing.T) {
	_, args, err := newQueryBuilder(schema.Grassland()).WhereSearch(" 100%_pure ", "name").BuildCount()
	require.NoError(t, err)
	assert.Equal(t, []any{`%100\%\_pure%`}, args)

	query, args, err := newQueryBuilder(schema.Grassland()).WhereSearch("   ", "name").BuildCount()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM grasslands", query)
	assert.Empty(t, args)
}

func TestQueryBuilder_OrderByAllowList(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		order    domain.SortOrder
		expected string
	}{
		{"default", "", domain.SortAsc, " ORDER BY name ASC NULLS LAST, id ASC"},
		{"api field desc", "totalAreaInHectares", domain.SortDesc, " ORDER BY total_area_in_hectares DESC NULLS LAST, id DESC"},
		{"column name", "ward_number", domain.SortAsc, " ORDER BY ward_number ASC NULLS LAST, id ASC"},
		{"injection falls back", "name; DROP TABLE farms --", domain.SortAsc, " ORDER BY name ASC NULLS LAST, id ASC"},
		{"geometry falls back", "locationPoint", domain.SortDesc, " ORDER BY name DESC NULLS LAST, id DESC"},
		{"id", "id", domain.SortDesc, " ORDER BY id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newQueryBuilder(schema.Farm()).OrderBy(tt.sortBy, tt.order)
			assert.Equal(t, tt.expected, b.buildOrderBy())
		})
	}
}

func TestQueryBuilder_BuildPageProjection(t *testing.T) {
	s := schema.Farm()

	query, _, cols, err := newQueryBuilder(s).OrderBy("name", domain.SortAsc).BuildPage(domain.ViewMap, 3, 12)
	require.NoError(t, err)
	assert.Contains(t, query, "ST_AsGeoJSON(location_point) AS location_point")
	assert.Contains(t, query, "ST_AsGeoJSON(farm_boundary) AS farm_boundary")
	assert.Contains(t, query, "LIMIT 12 OFFSET 24")
	assert.NotContains(t, query, "description")
	assert.Len(t, cols, len(s.ColumnsFor(domain.ViewMap)))

	query, _, _, err = newQueryBuilder(s).BuildPage(domain.ViewGrid, 1, 12)
	require.NoError(t, err)
	assert.Contains(t, query, "ST_AsGeoJSON(location_point) AS location_point")
	assert.NotContains(t, query, "farm_boundary")
	assert.Contains(t, query, "LIMIT 12 OFFSET 0")
}

func TestQueryBuilder_BuildSingleIncludesGeometry(t *testing.T) {
	query, args, cols, err := newQueryBuilder(schema.AgricZone()).BuildSingle("slug", "terai-pocket")
	require.NoError(t, err)

	assert.Contains(t, query, "ST_AsGeoJSON(area_polygon) AS area_polygon")
	assert.Contains(t, query, "WHERE slug = $1")
	assert.Equal(t, []any{"terai-pocket"}, args)
	assert.Equal(t, "areaPolygon", cols[len(cols)-1].Field)

	_, _, _, err = newQueryBuilder(schema.AgricZone()).BuildSingle("nope", "x")
	assert.Error(t, err)
}

func TestWriteColumns(t *testing.T) {
	s := schema.Farm()
	names, placeholders, args := writeColumns(s, map[string]interface{}{
		"name":              "Green Valley",
		"location_point":    `{"type":"Point","coordinates":[81.6,28.1]}`,
		"linked_grasslands": `[]`,
		"farm_boundary":     nil,
		"unknown_column":    "ignored",
	})

	assert.Equal(t, []string{"name", "location_point", "farm_boundary", "linked_grasslands"}, names)
	assert.Equal(t, []string{
		"$1",
		"ST_SetSRID(ST_GeomFromGeoJSON($2::text), 4326)",
		"$3::geometry",
		"$4::jsonb",
	}, placeholders)
	assert.Len(t, args, 4)
}
