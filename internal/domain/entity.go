package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// MaxPage - highest page number a listing request may ask for
const MaxPage = 1_000_000

// EntityType - tag of a listable entity kind, also stored in entity_media.entity_type
type EntityType string

const (
	EntityFarm             EntityType = "farm"
	EntityFishFarm         EntityType = "fish_farm"
	EntityGrassland        EntityType = "grassland"
	EntityAgricZone        EntityType = "agric_zone"
	EntityProcessingCenter EntityType = "processing_center"
)

// ViewType - projection requested by the listing client
type ViewType string

const (
	ViewTable ViewType = "table"
	ViewGrid  ViewType = "grid"
	ViewMap   ViewType = "map"
)

// ParseViewType - empty input falls back to table
func ParseViewType(s string) (ViewType, error) {
	switch v := ViewType(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ViewTable, nil
	case ViewTable, ViewGrid, ViewMap:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view type %q", s)
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder - empty input falls back to asc
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortAsc, nil
	case SortAsc, SortDesc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Geometry - GeoJSON geometry as returned to clients
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// LinkedRef - denormalized reference to another entity, stored inline as JSONB
type LinkedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Row - one entity record keyed by API field name. Keys keep their insertion
// order so the JSON output follows the schema's column order.
type Row struct {
	keys   []string
	values map[string]interface{}
}

func NewRow(capacity int) *Row {
	return &Row{
		keys:   make([]string, 0, capacity),
		values: make(map[string]interface{}, capacity),
	}
}

func (r *Row) Set(key string, value interface{}) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Row) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Row) Keys() []string {
	return r.keys
}

// ID - value of the "id" field, empty when absent
func (r *Row) ID() string {
	if v, ok := r.values["id"].(string); ok {
		return v
	}
	return ""
}

func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Range - inclusive numeric bounds, each side optional
type Range struct {
	Min *float64
	Max *float64
}

// ListFilter - parsed filter keyed by database column
type ListFilter struct {
	Equals     map[string]string
	Bools      map[string]bool
	Ranges     map[string]Range
	WardNumber *int
	SearchTerm string
}

// IsEmpty reports whether the filter produces no predicate at all
func (f ListFilter) IsEmpty() bool {
	for _, v := range f.Equals {
		if v != "" {
			return false
		}
	}
	for _, r := range f.Ranges {
		if r.Min != nil || r.Max != nil {
			return false
		}
	}
	return len(f.Bools) == 0 && f.WardNumber == nil && strings.TrimSpace(f.SearchTerm) == ""
}

// ListQuery - normalized listing request
type ListQuery struct {
	Filter    ListFilter
	Page      int
	PageSize  int
	SortBy    string
	SortOrder SortOrder
	ViewType  ViewType
}

// Offset - rows skipped before the requested page
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	if q.PageSize > 0 && q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// Page - response envelope of every listing endpoint
type Page[T any] struct {
	Items           []T  `json:"items"`
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPage assembles the envelope and derives the navigation fields
func NewPage[T any](items []T, page, pageSize, totalItems int) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if pageSize > 0 && totalItems > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}

	return Page[T]{
		Items:           items,
		Page:            page,
		PageSize:        pageSize,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
