package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/digital-profile/internal/domain"
)

var (
	ErrInvalidGeoJSON   = errors.New("invalid geojson")
	ErrUnexpectedType   = errors.New("unexpected geometry type")
	ErrCoordinateRange  = errors.New("coordinate out of range")
	ErrRingNotClosed    = errors.New("polygon ring is not closed")
	ErrTooFewRingPoints = errors.New("polygon ring needs at least four positions")
)

// Parse - decode GeoJSON text produced by ST_AsGeoJSON. Empty input is a NULL
// column and yields nil.
func Parse(raw []byte) (*domain.Geometry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
	}
	if g.Coordinates == nil {
		return nil, fmt.Errorf("%w: %s without coordinates", ErrInvalidGeoJSON, g.Type)
	}

	return &domain.Geometry{
		Type:        g.Coordinates.GeoJSONType(),
		Coordinates: g.Coordinates,
	}, nil
}

// Validate - check client supplied geometry before it reaches the store.
// The type tag must be one of allowed, coordinates must be valid WGS84 and
// polygon rings must be closed. Returns canonical GeoJSON for ST_GeomFromGeoJSON.
func Validate(raw []byte, allowed ...string) ([]byte, error) {
	var envelope struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
	}
	if !contains(allowed, envelope.Type) {
		return nil, fmt.Errorf("%w: got %q, want one of %v", ErrUnexpectedType, envelope.Type, allowed)
	}
	if len(envelope.Coordinates) == 0 || string(envelope.Coordinates) == "null" {
		return nil, fmt.Errorf("%w: missing coordinates", ErrInvalidGeoJSON)
	}
	if envelope.Type == "Point" {
		// orb decodes [] into a zero point, so the position length is checked up front
		var pos []float64
		if err := json.Unmarshal(envelope.Coordinates, &pos); err != nil || len(pos) < 2 || len(pos) > 3 {
			return nil, fmt.Errorf("%w: point needs [lon, lat]", ErrInvalidGeoJSON)
		}
	}

	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
	}

	if err := validateGeometry(g.Coordinates); err != nil {
		return nil, err
	}

	return geojson.NewGeometry(g.Coordinates).MarshalJSON()
}

func validateGeometry(g orb.Geometry) error {
	switch geom := g.(type) {
	case orb.Point:
		return validatePoint(geom)
	case orb.Polygon:
		return validatePolygon(geom)
	case orb.MultiPolygon:
		if len(geom) == 0 {
			return fmt.Errorf("%w: empty multipolygon", ErrInvalidGeoJSON)
		}
		for _, p := range geom {
			if err := validatePolygon(p); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnexpectedType, g)
	}
}

func validatePoint(p orb.Point) error {
	if p.Lon() < -180 || p.Lon() > 180 || p.Lat() < -90 || p.Lat() > 90 {
		return fmt.Errorf("%w: [%v, %v]", ErrCoordinateRange, p.Lon(), p.Lat())
	}
	return nil
}

func validatePolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: polygon without rings", ErrInvalidGeoJSON)
	}
	for _, ring := range p {
		if len(ring) < 4 {
			return ErrTooFewRingPoints
		}
		if !ring.Closed() {
			return ErrRingNotClosed
		}
		for _, pt := range ring {
			if err := validatePoint(pt); err != nil {
				return err
			}
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
