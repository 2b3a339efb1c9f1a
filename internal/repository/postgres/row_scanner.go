package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/pkg/geo"
)

// newHolder - scan destination matching the column kind
func newHolder(kind domain.ColumnKind) any {
	switch kind {
	case domain.KindInt:
		return new(sql.NullInt64)
	case domain.KindFloat:
		return new(sql.NullFloat64)
	case domain.KindBool:
		return new(sql.NullBool)
	case domain.KindTime:
		return new(sql.NullTime)
	default:
		// text, json and GeoJSON projections all arrive as text
		return new(sql.NullString)
	}
}

// holderValue - unwrap a scanned holder; NULL becomes nil
func holderValue(c domain.Column, holder any) (any, error) {
	switch h := holder.(type) {
	case *sql.NullInt64:
		if !h.Valid {
			return nil, nil
		}
		return h.Int64, nil
	case *sql.NullFloat64:
		if !h.Valid {
			return nil, nil
		}
		return h.Float64, nil
	case *sql.NullBool:
		if !h.Valid {
			return nil, nil
		}
		return h.Bool, nil
	case *sql.NullTime:
		if !h.Valid {
			return nil, nil
		}
		return h.Time, nil
	case *sql.NullString:
		if !h.Valid {
			return nil, nil
		}
		switch {
		case c.Kind.IsGeometry():
			g, err := geo.Parse([]byte(h.String))
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			return g, nil
		case c.Kind == domain.KindJSON:
			if !json.Valid([]byte(h.String)) {
				return nil, fmt.Errorf("column %s: invalid json", c.Name)
			}
			return json.RawMessage(h.String), nil
		default:
			return h.String, nil
		}
	default:
		return nil, fmt.Errorf("column %s: unsupported holder %T", c.Name, holder)
	}
}

// scanRow - convert the current row into a domain.Row keyed by API field
func scanRow(rows *sqlx.Rows, cols []domain.Column) (*domain.Row, error) {
	holders := make([]any, len(cols))
	for i, c := range cols {
		holders[i] = newHolder(c.Kind)
	}

	if err := rows.Scan(holders...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := domain.NewRow(len(cols) + 1)
	for i, c := range cols {
		v, err := holderValue(c, holders[i])
		if err != nil {
			return nil, err
		}
		row.Set(c.Field, v)
	}
	return row, nil
}

func scanRows(rows *sqlx.Rows, cols []domain.Column) ([]*domain.Row, error) {
	defer rows.Close()

	result := make([]*domain.Row, 0)
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
