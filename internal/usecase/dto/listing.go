package dto

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/validator"
)

// Reserved listing parameters; every other key must be a filter of the schema
const (
	ParamPage       = "page"
	ParamPageSize   = "pageSize"
	ParamViewType   = "viewType"
	ParamSortBy     = "sortBy"
	ParamSortOrder  = "sortOrder"
	ParamSearchTerm = "searchTerm"
	ParamWardNumber = "wardNumber"
)

// ListDefaults - values used when the request leaves a parameter out
type ListDefaults struct {
	PageSize    int
	MaxPageSize int
}

// ListRequest - paging and presentation part of a listing request
type ListRequest struct {
	Page       int    `json:"page" validate:"min=1,max=1000000"`
	PageSize   int    `json:"pageSize" validate:"min=1,max=100"`
	SortBy     string `json:"sortBy" validate:"omitempty,max=64"`
	SortOrder  string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
	ViewType   string `json:"viewType" validate:"omitempty,oneof=table grid map"`
	SearchTerm string `json:"searchTerm" validate:"max=200"`
	WardNumber *int   `json:"wardNumber" validate:"omitempty,min=1"`
}

// ParseListParams builds a normalized query from flat string parameters, the
// query string of GET requests
func ParseListParams(schema *domain.Schema, params map[string]string, defaults ListDefaults) (domain.ListQuery, error) {
	req := ListRequest{Page: 1, PageSize: defaults.PageSize}
	if req.PageSize <= 0 {
		req.PageSize = 12
	}

	filters := make(map[string]string, len(params))
	for key, raw := range params {
		value := strings.TrimSpace(raw)
		switch key {
		case ParamPage:
			if err := parseIntParam(key, value, &req.Page); err != nil {
				return domain.ListQuery{}, err
			}
		case ParamPageSize:
			if err := parseIntParam(key, value, &req.PageSize); err != nil {
				return domain.ListQuery{}, err
			}
		case ParamViewType:
			req.ViewType = strings.ToLower(value)
		case ParamSortBy:
			req.SortBy = value
		case ParamSortOrder:
			req.SortOrder = strings.ToLower(value)
		case ParamSearchTerm:
			req.SearchTerm = value
		case ParamWardNumber:
			if value == "" {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return domain.ListQuery{}, errors.BadRequest("Invalid wardNumber %q", raw)
			}
			req.WardNumber = &n
		default:
			filters[key] = value
		}
	}

	if err := validator.Validate(&req); err != nil {
		return domain.ListQuery{}, err
	}
	if defaults.MaxPageSize > 0 && req.PageSize > defaults.MaxPageSize {
		return domain.ListQuery{}, errors.BadRequest("pageSize must not exceed %d", defaults.MaxPageSize)
	}

	filter, err := ParseFilter(schema, filters)
	if err != nil {
		return domain.ListQuery{}, err
	}
	filter.WardNumber = req.WardNumber
	filter.SearchTerm = req.SearchTerm

	view, err := domain.ParseViewType(req.ViewType)
	if err != nil {
		return domain.ListQuery{}, errors.BadRequest("Invalid viewType %q", req.ViewType)
	}
	order, err := domain.ParseSortOrder(req.SortOrder)
	if err != nil {
		return domain.ListQuery{}, errors.BadRequest("Invalid sortOrder %q", req.SortOrder)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = schema.DefaultSort
	}

	return domain.ListQuery{
		Filter:    filter,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    sortBy,
		SortOrder: order,
		ViewType:  view,
	}, nil
}

// ParseListBody accepts the same parameters as a flat JSON object, the body of
// POST search requests. Nulls are treated as absent.
func ParseListBody(schema *domain.Schema, body []byte, defaults ListDefaults) (domain.ListQuery, error) {
	params := map[string]string{}
	if len(strings.TrimSpace(string(body))) > 0 {
		var raw map[string]interface{}
		if err := json.Unmarshal(body, &raw); err != nil {
			return domain.ListQuery{}, errors.BadRequest("Invalid request body")
		}
		for key, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				params[key] = val
			case float64:
				params[key] = strconv.FormatFloat(val, 'f', -1, 64)
			case bool:
				params[key] = strconv.FormatBool(val)
			default:
				return domain.ListQuery{}, errors.BadRequest("Parameter %q must be a scalar", key)
			}
		}
	}
	return ParseListParams(schema, params, defaults)
}

// ParseFilter maps request filter keys onto schema columns. Enum keys match by
// equality, boolean keys accept true/false, range keys are min<Field>/max<Field>.
// Empty values are ignored; keys the schema does not declare are rejected.
func ParseFilter(schema *domain.Schema, params map[string]string) (domain.ListFilter, error) {
	filter := domain.ListFilter{
		Equals: map[string]string{},
		Bools:  map[string]bool{},
		Ranges: map[string]domain.Range{},
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(params[key])

		if field, ok := lookup(schema.EnumFilters, key); ok {
			if value == "" {
				continue
			}
			col, _ := schema.ColumnByField(field)
			filter.Equals[col.Name] = value
			continue
		}

		if field, ok := lookup(schema.BoolFilters, key); ok {
			if value == "" {
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return domain.ListFilter{}, errors.BadRequest("Filter %s must be true or false", key)
			}
			col, _ := schema.ColumnByField(field)
			filter.Bools[col.Name] = b
			continue
		}

		if field, isMin, ok := rangeField(schema, key); ok {
			if value == "" {
				continue
			}
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return domain.ListFilter{}, errors.BadRequest("Filter %s must be a number", key)
			}
			col, _ := schema.ColumnByField(field)
			r := filter.Ranges[col.Name]
			if isMin {
				r.Min = &f
			} else {
				r.Max = &f
			}
			filter.Ranges[col.Name] = r
			continue
		}

		return domain.ListFilter{}, errors.ErrBadRequest.
			WithMessage(fmt.Sprintf("Unknown filter %q", key)).
			WithDetails(map[string]interface{}{"allowed": AllowedFilters(schema)})
	}

	return filter, nil
}

// AllowedFilters lists every filter key the schema accepts
func AllowedFilters(schema *domain.Schema) []string {
	keys := append([]string{}, schema.EnumFilters...)
	keys = append(keys, schema.BoolFilters...)
	for _, f := range schema.RangeFilters {
		keys = append(keys, "min"+capitalize(f), "max"+capitalize(f))
	}
	return keys
}

func lookup(fields []string, key string) (string, bool) {
	for _, f := range fields {
		if f == key {
			return f, true
		}
	}
	return "", false
}

func rangeField(schema *domain.Schema, key string) (string, bool, bool) {
	for _, f := range schema.RangeFilters {
		switch key {
		case "min" + capitalize(f):
			return f, true, true
		case "max" + capitalize(f):
			return f, false, true
		}
	}
	return "", false, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseIntParam(key, value string, dst *int) error {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return errors.BadRequest("Invalid %s %q", key, value)
	}
	*dst = n
	return nil
}
