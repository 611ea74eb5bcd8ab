package models

// PriceItem is a single priced good reported by the cost-of-living provider.
type PriceItem struct {
	Name     string
	Price    float64
	Currency string
}

// CostCategory groups the priced goods of one cost-of-living category.
type CostCategory struct {
	Name     string
	Products []PriceItem
	Average  float64
}

// Indicator is one country-level development indicator with its latest value.
// Value is nil when the provider has no observation for the country.
type Indicator struct {
	Code       string
	Name       string
	Value      *float64
	Year       string
	Normalized *float64
}

// AirReadings holds the raw pollutant concentrations for a location in µg/m³.
type AirReadings struct {
	AQI        int
	Components map[string]float64
}

// SafetyDetail is the crime table entry for a country with its derived safety score.
type SafetyDetail struct {
	Country    string
	CrimeIndex float64
	Score      float64
}

// Weather is a current conditions snapshot.
type Weather struct {
	Temperature float64
	FeelsLike   float64
	Humidity    int
	Pressure    int
	WindSpeed   float64
	Description string
	Icon        string
}

// Summary is a short encyclopedic description of a city.
type Summary struct {
	Title       string
	Extract     string
	ExtractHTML string
	URL         string
}

// Population is the population record of the best matching city.
type Population struct {
	Name       string
	Country    string
	Population int
}
