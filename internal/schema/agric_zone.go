package schema

import "github.com/digital-profile/internal/domain"

// AgricZone - designated agricultural production zones
func AgricZone() *domain.Schema {
	return &domain.Schema{
		Type:  domain.EntityAgricZone,
		Kind:  "agric-zones",
		Table: "agric_zones",
		Columns: compose(
			identity(),
			[]domain.Column{
				required(enum("zone_type", "zoneType", domain.InAll,
					"POCKET", "BLOCK", "ZONE", "SUPER_ZONE", "SPECIAL")),
				enum("soil_quality", "soilQuality", domain.InListing,
					"EXCELLENT", "GOOD", "AVERAGE", "POOR", "VERY_POOR"),
				enum("irrigation_system", "irrigationSystem", domain.InTable,
					"CANAL", "DRIP", "SPRINKLER", "RAINFED", "MIXED", "NONE"),
			},
			placement(),
			[]domain.Column{
				float("area_in_hectares", "areaInHectares", domain.InListing),
				integer("farmer_count", "farmerCount", domain.InTable),
				text("major_crops", "majorCrops", domain.InListing),
				flag("has_cold_storage", "hasColdStorage", domain.InTable, false),
				flag("has_market_access", "hasMarketAccess", domain.InListing, false),
				flag("is_government_owned", "isGovernmentOwned", domain.InTable, false),
				locationPoint(),
				polygon("area_polygon", "areaPolygon"),
				linked("linked_processing_centers", "linkedProcessingCenters"),
			},
			lifecycle(),
		),
		EnumFilters:   []string{"zoneType", "soilQuality", "irrigationSystem"},
		BoolFilters:   []string{"hasColdStorage", "hasMarketAccess", "isGovernmentOwned", "isVerified"},
		RangeFilters:  []string{"areaInHectares", "farmerCount"},
		SearchColumns: search("major_crops"),
		WardColumn:    "ward_number",
		DefaultSort:   "name",
	}
}
