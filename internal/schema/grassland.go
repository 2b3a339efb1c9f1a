package schema

import "github.com/digital-profile/internal/domain"

// Grassland - pastures and rangeland
func Grassland() *domain.Schema {
	return &domain.Schema{
		Type:  domain.EntityGrassland,
		Kind:  "grasslands",
		Table: "grasslands",
		Columns: compose(
			identity(),
			[]domain.Column{
				required(enum("grassland_type", "grasslandType", domain.InAll,
					"NATURAL_MEADOW", "IMPROVED_PASTURE", "RANGELAND", "ALPINE_MEADOW", "SHRUBLAND", "OTHER")),
				enum("vegetation_density", "vegetationDensity", domain.InListing,
					"VERY_DENSE", "DENSE", "MODERATE", "SPARSE", "VERY_SPARSE"),
			},
			placement(),
			[]domain.Column{
				float("area_in_hectares", "areaInHectares", domain.InListing),
				integer("grazing_capacity", "grazingCapacity", domain.InListing),
				text("dominant_species", "dominantSpecies", domain.InListing),
				flag("is_community_owned", "isCommunityOwned", domain.InListing, false),
				flag("has_water_source", "hasWaterSource", domain.InTable, false),
				flag("is_protected", "isProtected", domain.InTable, false),
				locationPoint(),
				polygon("boundary", "boundary"),
				linked("linked_farms", "linkedFarms"),
			},
			lifecycle(),
		),
		EnumFilters:   []string{"grasslandType", "vegetationDensity"},
		BoolFilters:   []string{"isCommunityOwned", "hasWaterSource", "isProtected", "isVerified"},
		RangeFilters:  []string{"areaInHectares", "grazingCapacity"},
		SearchColumns: search("dominant_species"),
		WardColumn:    "ward_number",
		DefaultSort:   "name",
	}
}
