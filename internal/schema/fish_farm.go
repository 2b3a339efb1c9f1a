package schema

import "github.com/digital-profile/internal/domain"

// FishFarm - aquaculture sites
func FishFarm() *domain.Schema {
	return &domain.Schema{
		Type:  domain.EntityFishFarm,
		Kind:  "fish-farms",
		Table: "fish_farms",
		Columns: compose(
			identity(),
			[]domain.Column{
				required(enum("farm_type", "farmType", domain.InAll,
					"POND", "CAGE", "RACEWAY", "TANK", "INTEGRATED", "OTHER")),
				enum("water_source", "waterSource", domain.InListing,
					"RIVER", "STREAM", "SPRING", "GROUNDWATER", "RAINWATER", "CANAL", "MIXED"),
			},
			placement(),
			[]domain.Column{
				float("total_area_in_hectares", "totalAreaInHectares", domain.InListing),
				float("water_body_area_in_hectares", "waterBodyAreaInHectares", domain.InTable),
				integer("pond_count", "pondCount", domain.InListing),
				float("annual_production_in_tonnes", "annualProductionInTonnes", domain.InListing),
				text("primary_species", "primarySpecies", domain.InListing),
				flag("has_hatchery", "hasHatchery", domain.InTable, false),
				flag("has_aeration", "hasAeration", domain.InTable, false),
				flag("has_electricity", "hasElectricity", domain.InTable, false),
				locationPoint(),
				polygon("farm_boundary", "farmBoundary"),
				linked("linked_processing_centers", "linkedProcessingCenters"),
			},
			lifecycle(),
		),
		EnumFilters:   []string{"farmType", "waterSource"},
		BoolFilters:   []string{"hasHatchery", "hasAeration", "hasElectricity", "isVerified"},
		RangeFilters:  []string{"totalAreaInHectares", "waterBodyAreaInHectares", "pondCount", "annualProductionInTonnes"},
		SearchColumns: search("primary_species"),
		WardColumn:    "ward_number",
		DefaultSort:   "name",
	}
}
