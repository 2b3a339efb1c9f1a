package schema

import "github.com/digital-profile/internal/domain"

// Farm - crop, livestock and mixed farms
func Farm() *domain.Schema {
	return &domain.Schema{
		Type:  domain.EntityFarm,
		Kind:  "farms",
		Table: "farms",
		Columns: compose(
			identity(),
			[]domain.Column{
				required(enum("farm_type", "farmType", domain.InAll,
					"CROP", "LIVESTOCK", "MIXED", "POULTRY", "HORTICULTURE", "DAIRY", "OTHER")),
				enum("farming_system", "farmingSystem", domain.InListing,
					"CONVENTIONAL", "ORGANIC", "INTEGRATED", "SUBSISTENCE", "COMMERCIAL"),
			},
			placement(),
			[]domain.Column{
				float("total_area_in_hectares", "totalAreaInHectares", domain.InListing),
				float("cultivated_area_in_hectares", "cultivatedAreaInHectares", domain.InTable),
				text("major_crops", "majorCrops", domain.InListing),
				integer("livestock_count", "livestockCount", domain.InTable),
				integer("farmer_count", "farmerCount", domain.InTable),
				flag("has_irrigation", "hasIrrigation", domain.InListing, false),
				flag("has_storage", "hasStorage", domain.InTable, false),
				flag("has_electricity", "hasElectricity", domain.InTable, false),
				flag("has_road_access", "hasRoadAccess", domain.InTable, false),
				flag("uses_chemical_fertilizer", "usesChemicalFertilizer", domain.InTable, false),
				locationPoint(),
				polygon("farm_boundary", "farmBoundary"),
				linked("linked_grasslands", "linkedGrasslands"),
				linked("linked_processing_centers", "linkedProcessingCenters"),
			},
			lifecycle(),
		),
		EnumFilters:   []string{"farmType", "farmingSystem"},
		BoolFilters:   []string{"hasIrrigation", "hasStorage", "hasElectricity", "hasRoadAccess", "usesChemicalFertilizer", "isVerified"},
		RangeFilters:  []string{"totalAreaInHectares", "cultivatedAreaInHectares", "livestockCount"},
		SearchColumns: search("major_crops"),
		WardColumn:    "ward_number",
		DefaultSort:   "name",
	}
}
