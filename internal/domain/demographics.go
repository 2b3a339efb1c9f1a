package domain

// WardDemographics - per-ward population indicators
type WardDemographics struct {
	WardNumber           int     `json:"wardNumber" db:"ward_number"`
	TotalPopulation      int     `json:"totalPopulation" db:"total_population"`
	MalePopulation       int     `json:"malePopulation" db:"male_population"`
	FemalePopulation     int     `json:"femalePopulation" db:"female_population"`
	OtherPopulation      int     `json:"otherPopulation" db:"other_population"`
	TotalHouseholds      int     `json:"totalHouseholds" db:"total_households"`
	AverageHouseholdSize float64 `json:"averageHouseholdSize" db:"average_household_size"`
	SexRatio             float64 `json:"sexRatio" db:"sex_ratio"`
}

// AgeGenderCount - raw population count for one age band and gender
type AgeGenderCount struct {
	WardNumber int    `db:"ward_number"`
	AgeGroup   string `db:"age_group"`
	Gender     string `db:"gender"`
	Population int    `db:"population"`
}

// AgeBand - one row of the age pyramid; Male is negative for rendering
type AgeBand struct {
	AgeGroup string `json:"ageGroup"`
	Male     int    `json:"male"`
	Female   int    `json:"female"`
	Other    int    `json:"other"`
	Total    int    `json:"total"`
}

type DependencyRatios struct {
	Young float64 `json:"young"`
	Old   float64 `json:"old"`
	Total float64 `json:"total"`
}

// DemographicSummary - aggregated view for the whole municipality or one ward
type DemographicSummary struct {
	WardNumber       *int              `json:"wardNumber,omitempty"`
	TotalPopulation  int               `json:"totalPopulation"`
	MalePopulation   int               `json:"malePopulation"`
	FemalePopulation int               `json:"femalePopulation"`
	OtherPopulation  int               `json:"otherPopulation"`
	TotalHouseholds  int               `json:"totalHouseholds"`
	SexRatio         float64           `json:"sexRatio"`
	AgePyramid       []AgeBand         `json:"agePyramid"`
	Dependency       DependencyRatios  `json:"dependencyRatios"`
	Display          map[string]string `json:"display"`
	Lang             string            `json:"lang"`
}
