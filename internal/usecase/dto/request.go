package dto

import "encoding/json"

// EntityInput - create/update payload keyed by API field. Values stay raw until
// they are checked against the column kind.
type EntityInput map[string]json.RawMessage

// Has reports whether the field was supplied, null included
func (in EntityInput) Has(field string) bool {
	_, ok := in[field]
	return ok
}

// IsNull - field supplied as JSON null
func (in EntityInput) IsNull(field string) bool {
	raw, ok := in[field]
	return ok && string(raw) == "null"
}

// DemographicsSummaryRequest - query of GET /demographics/summary
type DemographicsSummaryRequest struct {
	Ward *int   `json:"ward" validate:"omitempty,min=1"`
	Lang string `json:"lang" validate:"omitempty,oneof=en ne"`
}
