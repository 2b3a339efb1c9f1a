package domain

// ColumnKind - storage type of a column, drives scanning and write conversion
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindJSON
	KindPoint
	KindPolygon
)

// IsGeometry - column is projected through ST_AsGeoJSON
func (k ColumnKind) IsGeometry() bool {
	return k == KindPoint || k == KindPolygon
}

// ViewSet - bitmask of views a column participates in
type ViewSet uint8

const (
	InTable ViewSet = 1 << iota
	InGrid
	InMap

	InAll     = InTable | InGrid | InMap
	InListing = InTable | InGrid
)

func (s ViewSet) Has(v ViewType) bool {
	switch v {
	case ViewTable:
		return s&InTable != 0
	case ViewGrid:
		return s&InGrid != 0
	case ViewMap:
		return s&InMap != 0
	}
	return false
}

// Column - one field of an entity table
type Column struct {
	Name     string // database column
	Field    string // API field
	Kind     ColumnKind
	Views    ViewSet
	Writable bool
	Required bool

	// Default applied on create when the field is absent
	Default interface{}

	// Values - closed set accepted on write for enum columns
	Values []string

	// GeometryTypes accepted on write, e.g. Point or Polygon+MultiPolygon
	GeometryTypes []string

	// Min - inclusive lower bound of numeric columns, nil when unbounded
	Min *float64
}

// AcceptsNumber reports whether v satisfies the column's lower bound
func (c Column) AcceptsNumber(v float64) bool {
	return c.Min == nil || v >= *c.Min
}

// AcceptsValue - true for non-enum columns or a listed enum tag
func (c Column) AcceptsValue(v string) bool {
	if len(c.Values) == 0 {
		return true
	}
	for _, allowed := range c.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

// Schema - everything the listing pipeline needs to know about one entity table
type Schema struct {
	Type  EntityType
	Kind  string // URL segment
	Table string

	Columns []Column

	EnumFilters   []string // API fields filtered by equality
	BoolFilters   []string // API fields filtered three-valued
	RangeFilters  []string // API fields filtered by min<Field>/max<Field>
	SearchColumns []string // database columns matched by searchTerm

	WardColumn  string
	DefaultSort string
}

// ColumnByField - resolve an API field name
func (s *Schema) ColumnByField(field string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnByName - resolve a database column name
func (s *Schema) ColumnByName(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnsFor - projection for a view, in declaration order
func (s *Schema) ColumnsFor(view ViewType) []Column {
	cols := make([]Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Views.Has(view) {
			cols = append(cols, c)
		}
	}
	return cols
}

// SortColumn - database column for a sort key; the key may be an API field
// or a column name. Geometry and JSON columns are not sortable.
func (s *Schema) SortColumn(key string) (string, bool) {
	c, ok := s.ColumnByField(key)
	if !ok {
		c, ok = s.ColumnByName(key)
	}
	if !ok || c.Kind.IsGeometry() || c.Kind == KindJSON {
		return "", false
	}
	return c.Name, true
}

// GeometryColumns - columns holding PostGIS geometry
func (s *Schema) GeometryColumns() []Column {
	var cols []Column
	for _, c := range s.Columns {
		if c.Kind.IsGeometry() {
			cols = append(cols, c)
		}
	}
	return cols
}
