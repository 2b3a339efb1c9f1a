package schema

import "github.com/digital-profile/internal/domain"

var (
	pointTypes   = []string{"Point"}
	polygonTypes = []string{"Polygon", "MultiPolygon"}
)

func text(name, field string, views domain.ViewSet) domain.Column {
	return domain.Column{Name: name, Field: field, Kind: domain.KindText, Views: views, Writable: true}
}

func enum(name, field string, views domain.ViewSet, values ...string) domain.Column {
	return domain.Column{Name: name, Field: field, Kind: domain.KindText, Views: views, Writable: true, Values: values}
}

// integer and float columns hold counts, areas and capacities: never negative
func integer(name, field string, views domain.ViewSet) domain.Column {
	return atLeast(domain.Column{Name: name, Field: field, Kind: domain.KindInt, Views: views, Writable: true}, 0)
}

func float(name, field string, views domain.ViewSet) domain.Column {
	return atLeast(domain.Column{Name: name, Field: field, Kind: domain.KindFloat, Views: views, Writable: true}, 0)
}

func atLeast(c domain.Column, min float64) domain.Column {
	c.Min = &min
	return c
}

func flag(name, field string, views domain.ViewSet, def bool) domain.Column {
	return domain.Column{Name: name, Field: field, Kind: domain.KindBool, Views: views, Writable: true, Default: def}
}

func linked(name, field string) domain.Column {
	return domain.Column{Name: name, Field: field, Kind: domain.KindJSON, Views: domain.InTable, Writable: true, Default: "[]"}
}

func polygon(name, field string) domain.Column {
	return domain.Column{
		Name:          name,
		Field:         field,
		Kind:          domain.KindPolygon,
		Views:         domain.InMap,
		Writable:      true,
		GeometryTypes: polygonTypes,
	}
}

func required(c domain.Column) domain.Column {
	c.Required = true
	return c
}

// identity - columns every entity starts with
func identity() []domain.Column {
	return []domain.Column{
		{Name: "id", Field: "id", Kind: domain.KindText, Views: domain.InAll},
		required(text("name", "name", domain.InAll)),
		text("slug", "slug", domain.InAll),
	}
}

// placement - description and where the entity is
func placement() []domain.Column {
	return []domain.Column{
		text("description", "description", domain.InListing),
		atLeast(integer("ward_number", "wardNumber", domain.InAll), 1),
		text("location", "location", domain.InListing),
		text("address", "address", domain.InTable),
	}
}

func locationPoint() domain.Column {
	return domain.Column{
		Name:          "location_point",
		Field:         "locationPoint",
		Kind:          domain.KindPoint,
		Views:         domain.InAll,
		Writable:      true,
		GeometryTypes: pointTypes,
	}
}

// lifecycle - activity, verification, SEO and audit columns
func lifecycle() []domain.Column {
	return []domain.Column{
		flag("is_active", "isActive", domain.InTable, true),
		flag("is_verified", "isVerified", domain.InListing, false),
		{Name: "verification_date", Field: "verificationDate", Kind: domain.KindTime, Views: domain.InTable, Writable: true},
		text("verified_by", "verifiedBy", domain.InTable),
		text("meta_title", "metaTitle", domain.InTable),
		text("meta_description", "metaDescription", domain.InTable),
		text("keywords", "keywords", domain.InTable),
		{Name: "created_at", Field: "createdAt", Kind: domain.KindTime, Views: domain.InTable},
		{Name: "updated_at", Field: "updatedAt", Kind: domain.KindTime, Views: domain.InTable},
		{Name: "created_by", Field: "createdBy", Kind: domain.KindText, Views: domain.InTable},
		{Name: "updated_by", Field: "updatedBy", Kind: domain.KindText, Views: domain.InTable},
	}
}

func compose(parts ...[]domain.Column) []domain.Column {
	var cols []domain.Column
	for _, p := range parts {
		cols = append(cols, p...)
	}
	return cols
}

// commonSearch - text columns searched for every entity
var commonSearch = []string{"name", "description", "location", "address"}

func search(extra ...string) []string {
	return append(append([]string{}, commonSearch...), extra...)
}
