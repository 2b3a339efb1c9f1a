package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/geo"
	"github.com/digital-profile/internal/usecase/dto"
)

const dateLayout = "2006-01-02"

// decodeInput checks a write payload against the schema and returns values
// keyed by database column. Nothing is written when it fails.
func decodeInput(schema *domain.Schema, input dto.EntityInput) (map[string]interface{}, error) {
	fields := make([]string, 0, len(input))
	for f := range input {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		col, ok := schema.ColumnByField(f)
		if !ok {
			return nil, errors.BadRequest("Unknown field %q", f)
		}
		if !col.Writable {
			return nil, errors.BadRequest("Field %q is read-only", f)
		}
	}

	// geometry first so a malformed shape is reported before anything else
	values := make(map[string]interface{}, len(input))
	for _, col := range schema.GeometryColumns() {
		if !input.Has(col.Field) {
			continue
		}
		v, err := decodeValue(col, input[col.Field])
		if err != nil {
			return nil, err
		}
		values[col.Name] = v
	}

	for _, col := range schema.Columns {
		if col.Kind.IsGeometry() || !input.Has(col.Field) {
			continue
		}
		v, err := decodeValue(col, input[col.Field])
		if err != nil {
			return nil, err
		}
		values[col.Name] = v
	}

	return values, nil
}

func decodeValue(col domain.Column, raw json.RawMessage) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		if col.Required {
			return nil, errors.BadRequest("Field %q is required", col.Field)
		}
		return nil, nil
	}

	switch col.Kind {
	case domain.KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.BadRequest("Field %q must be a string", col.Field)
		}
		s = strings.TrimSpace(s)
		if col.Required && s == "" {
			return nil, errors.BadRequest("Field %q is required", col.Field)
		}
		if s != "" && !col.AcceptsValue(s) {
			return nil, errors.ErrBadRequest.
				WithMessage(fmt.Sprintf("Field %q has unsupported value %q", col.Field, s)).
				WithDetails(map[string]interface{}{"allowed": col.Values})
		}
		return s, nil

	case domain.KindInt:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) {
			return nil, errors.BadRequest("Field %q must be an integer", col.Field)
		}
		// integer columns are 32-bit in the store
		if f < math.MinInt32 || f > math.MaxInt32 {
			return nil, errors.BadRequest("Field %q is out of range", col.Field)
		}
		if !col.AcceptsNumber(f) {
			return nil, errors.BadRequest("Field %q must be at least %g", col.Field, *col.Min)
		}
		return int64(f), nil

	case domain.KindFloat:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, errors.BadRequest("Field %q must be a number", col.Field)
		}
		if !col.AcceptsNumber(f) {
			return nil, errors.BadRequest("Field %q must be at least %g", col.Field, *col.Min)
		}
		return f, nil

	case domain.KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, errors.BadRequest("Field %q must be true or false", col.Field)
		}
		return b, nil

	case domain.KindTime:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.BadRequest("Field %q must be a date", col.Field)
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, errors.BadRequest("Field %q must be RFC 3339 or YYYY-MM-DD", col.Field)
		}
		return t, nil

	case domain.KindJSON:
		var refs []domain.LinkedRef
		if err := json.Unmarshal(raw, &refs); err != nil {
			return nil, errors.BadRequest("Field %q must be a list of {id, name}", col.Field)
		}
		for _, r := range refs {
			if r.ID == "" {
				return nil, errors.BadRequest("Field %q contains a reference without id", col.Field)
			}
		}
		if refs == nil {
			refs = []domain.LinkedRef{}
		}
		out, err := json.Marshal(refs)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col.Name, err)
		}
		return string(out), nil

	case domain.KindPoint, domain.KindPolygon:
		canonical, err := geo.Validate(raw, col.GeometryTypes...)
		if err != nil {
			return nil, errors.BadRequest("Invalid geometry in %q: %v", col.Field, err)
		}
		return string(canonical), nil
	}

	return nil, fmt.Errorf("column %s: unsupported kind %d", col.Name, col.Kind)
}
