package postgres

import (
	"fmt"
	"strings"

	"github.com/digital-profile/internal/domain"
)

type condition struct {
	clause string
	args   []any
}

// queryBuilder - schema driven SQL for the listing pipeline with automatic
// $N numbering. Every column it touches must be declared in the schema.
type queryBuilder struct {
	schema     *domain.Schema
	conditions []condition
	orderBy    string
	descending bool
	err        error
}

func newQueryBuilder(schema *domain.Schema) *queryBuilder {
	return &queryBuilder{
		schema:     schema,
		conditions: make([]condition, 0),
	}
}

// column - guard against identifiers the schema does not declare
func (b *queryBuilder) column(name string) (string, bool) {
	if _, ok := b.schema.ColumnByName(name); !ok {
		if b.err == nil {
			b.err = fmt.Errorf("column %q is not part of %s", name, b.schema.Table)
		}
		return "", false
	}
	return name, true
}

// WhereEquals - exact match. Nil values and empty strings are ignored.
func (b *queryBuilder) WhereEquals(column string, value any) *queryBuilder {
	if value == nil {
		return b
	}
	if s, ok := value.(string); ok && s == "" {
		return b
	}
	col, ok := b.column(column)
	if !ok {
		return b
	}
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s = $%%d", col),
		args:   []any{value},
	})
	return b
}

// WhereBool - three-valued flag filter, nil means no predicate
func (b *queryBuilder) WhereBool(column string, value *bool) *queryBuilder {
	if value == nil {
		return b
	}
	return b.WhereEquals(column, *value)
}

// WhereRange - inclusive bounds, each side optional
func (b *queryBuilder) WhereRange(column string, r domain.Range) *queryBuilder {
	if r.Min == nil && r.Max == nil {
		return b
	}
	col, ok := b.column(column)
	if !ok {
		return b
	}
	if r.Min != nil {
		b.conditions = append(b.conditions, condition{
			clause: fmt.Sprintf("%s >= $%%d", col),
			args:   []any{*r.Min},
		})
	}
	if r.Max != nil {
		b.conditions = append(b.conditions, condition{
			clause: fmt.Sprintf("%s <= $%%d", col),
			args:   []any{*r.Max},
		})
	}
	return b
}

// WhereSearch - case-insensitive substring match OR-combined across columns.
// LIKE wildcards in the term are matched literally.
func (b *queryBuilder) WhereSearch(term string, columns ...string) *queryBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return b
	}

	pattern := "%" + escapeLike(term) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, name := range columns {
		col, ok := b.column(name)
		if !ok {
			return b
		}
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%%d", col))
		args = append(args, pattern)
	}

	b.conditions = append(b.conditions, condition{
		clause: "(" + strings.Join(clauses, " OR ") + ")",
		args:   args,
	})
	return b
}

// ApplyFilter - add every active predicate of f in schema column order
func (b *queryBuilder) ApplyFilter(f domain.ListFilter) *queryBuilder {
	if f.IsEmpty() {
		return b
	}
	for _, c := range b.schema.Columns {
		if v, ok := f.Equals[c.Name]; ok {
			b.WhereEquals(c.Name, v)
		}
		if v, ok := f.Bools[c.Name]; ok {
			b.WhereBool(c.Name, &v)
		}
		if r, ok := f.Ranges[c.Name]; ok {
			b.WhereRange(c.Name, r)
		}
	}
	for name := range f.Equals {
		b.column(name)
	}
	for name := range f.Bools {
		b.column(name)
	}
	for name := range f.Ranges {
		b.column(name)
	}

	if f.WardNumber != nil {
		b.WhereEquals(b.schema.WardColumn, *f.WardNumber)
	}
	return b.WhereSearch(f.SearchTerm, b.schema.SearchColumns...)
}

// OrderBy - sort key is checked against the schema allow-list, anything
// unknown falls back to the default sort
func (b *queryBuilder) OrderBy(key string, order domain.SortOrder) *queryBuilder {
	col, ok := b.schema.SortColumn(key)
	if !ok {
		col, _ = b.schema.SortColumn(b.schema.DefaultSort)
	}
	b.orderBy = col
	b.descending = order == domain.SortDesc
	return b
}

// BuildCount returns a COUNT(*) query with the current conditions
func (b *queryBuilder) BuildCount() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	where, args := b.buildWhere(1)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.schema.Table, where), args, nil
}

// BuildPage returns the windowed select for view together with the projected columns
func (b *queryBuilder) BuildPage(view domain.ViewType, page, pageSize int) (string, []any, []domain.Column, error) {
	if b.err != nil {
		return "", nil, nil, b.err
	}
	if page < 1 {
		page = 1
	}

	cols := b.schema.ColumnsFor(view)
	where, args := b.buildWhere(1)
	query := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		selectList(cols),
		b.schema.Table,
		where,
		b.buildOrderBy(),
		pageSize,
		(page-1)*pageSize,
	)
	return query, args, cols, nil
}

// BuildSingle returns the full table projection of the row matching column = value
func (b *queryBuilder) BuildSingle(column string, value any) (string, []any, []domain.Column, error) {
	col, ok := b.column(column)
	if !ok {
		return "", nil, nil, b.err
	}
	cols := b.schema.ColumnsFor(domain.ViewTable)
	cols = appendMissing(cols, b.schema.GeometryColumns())

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		selectList(cols),
		b.schema.Table,
		col,
	)
	return query, []any{value}, cols, nil
}

func (b *queryBuilder) buildOrderBy() string {
	orderCol := b.orderBy
	if orderCol == "" {
		orderCol, _ = b.schema.SortColumn(b.schema.DefaultSort)
	}

	dir := "ASC"
	if b.descending {
		dir = "DESC"
	}

	// id breaks ties so pages never overlap
	if orderCol == "id" {
		return fmt.Sprintf(" ORDER BY id %s", dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id %s", orderCol, dir, dir)
}

func (b *queryBuilder) buildWhere(startParam int) (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	paramIdx := startParam

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", paramIdx), 1)
			args = append(args, arg)
			paramIdx++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// selectList - geometry is converted to GeoJSON text in the database
func selectList(cols []domain.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if c.Kind.IsGeometry() {
			parts[i] = fmt.Sprintf("ST_AsGeoJSON(%s) AS %s", c.Name, c.Name)
			continue
		}
		parts[i] = c.Name
	}
	return strings.Join(parts, ", ")
}

func appendMissing(cols, extra []domain.Column) []domain.Column {
	for _, e := range extra {
		found := false
		for _, c := range cols {
			if c.Name == e.Name {
				found = true
				break
			}
		}
		if !found {
			cols = append(cols, e)
		}
	}
	return cols
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
