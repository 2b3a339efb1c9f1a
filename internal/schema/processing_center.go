package schema

import "github.com/digital-profile/internal/domain"

// ProcessingCenter - collection, storage and processing facilities
func ProcessingCenter() *domain.Schema {
	return &domain.Schema{
		Type:  domain.EntityProcessingCenter,
		Kind:  "processing-centers",
		Table: "processing_centers",
		Columns: compose(
			identity(),
			[]domain.Column{
				required(enum("center_type", "centerType", domain.InAll,
					"COLLECTION_CENTER", "STORAGE_FACILITY", "PROCESSING_UNIT", "MULTIPURPOSE", "MARKET_CENTER", "OTHER")),
				enum("ownership_type", "ownershipType", domain.InListing,
					"GOVERNMENT", "PRIVATE", "COOPERATIVE", "COMMUNITY", "PUBLIC_PRIVATE_PARTNERSHIP"),
			},
			placement(),
			[]domain.Column{
				float("storage_capacity_mt", "storageCapacityMT", domain.InListing),
				float("processing_capacity_mt_per_day", "processingCapacityMTPerDay", domain.InTable),
				integer("employee_count", "employeeCount", domain.InTable),
				text("products_processed", "productsProcessed", domain.InListing),
				flag("has_cold_storage", "hasColdStorage", domain.InListing, false),
				flag("has_processing_unit", "hasProcessingUnit", domain.InTable, false),
				flag("is_operational", "isOperational", domain.InListing, true),
				locationPoint(),
				polygon("facility_footprint", "facilityFootprint"),
				linked("linked_farms", "linkedFarms"),
			},
			lifecycle(),
		),
		EnumFilters:   []string{"centerType", "ownershipType"},
		BoolFilters:   []string{"hasColdStorage", "hasProcessingUnit", "isOperational", "isVerified"},
		RangeFilters:  []string{"storageCapacityMT", "processingCapacityMTPerDay", "employeeCount"},
		SearchColumns: search("products_processed"),
		WardColumn:    "ward_number",
		DefaultSort:   "name",
	}
}
