package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSchema() *Schema {
	return &Schema{
		Type:  EntityFarm,
		Kind:  "farms",
		Table: "farms",
		Columns: []Column{
			{Name: "id", Field: "id", Kind: KindText, Views: InAll},
			{Name: "name", Field: "name", Kind: KindText, Views: InAll},
			{Name: "total_area_in_hectares", Field: "totalAreaInHectares", Kind: KindFloat, Views: InListing},
			{Name: "location_point", Field: "locationPoint", Kind: KindPoint, Views: InAll},
			{Name: "farm_boundary", Field: "farmBoundary", Kind: KindPolygon, Views: InMap},
			{Name: "linked_grasslands", Field: "linkedGrasslands", Kind: KindJSON, Views: InTable},
		},
		DefaultSort: "name",
	}
}

func TestSchema_ColumnsFor(t *testing.T) {
	s := testSchema()

	names := func(cols []Column) []string {
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"id", "name", "total_area_in_hectares", "location_point", "linked_grasslands"}, names(s.ColumnsFor(ViewTable)))
	assert.Equal(t, []string{"id", "name", "total_area_in_hectares", "location_point"}, names(s.ColumnsFor(ViewGrid)))
	assert.Equal(t, []string{"id", "name", "location_point", "farm_boundary"}, names(s.ColumnsFor(ViewMap)))
}

func TestSchema_SortColumn(t *testing.T) {
	s := testSchema()

	col, ok := s.SortColumn("totalAreaInHectares")
	assert.True(t, ok)
	assert.Equal(t, "total_area_in_hectares", col)

	col, ok = s.SortColumn("name")
	assert.True(t, ok)
	assert.Equal(t, "name", col)

	_, ok = s.SortColumn("name; DROP TABLE farms")
	assert.False(t, ok)

	_, ok = s.SortColumn("locationPoint")
	assert.False(t, ok)

	_, ok = s.SortColumn("linkedGrasslands")
	assert.False(t, ok)
}

func TestSchema_GeometryColumns(t *testing.T) {
	cols := testSchema().GeometryColumns()
	assert.Len(t, cols, 2)
	assert.Equal(t, KindPoint, cols[0].Kind)
	assert.Equal(t, KindPolygon, cols[1].Kind)
}
