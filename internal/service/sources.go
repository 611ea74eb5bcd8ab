package service

import (
	"context"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/scorers"
)

// CostSource scores cost of living and exposes the categorized price breakdown.
type CostSource interface {
	scorers.Scorer
	Details(ctx context.Context, city, country string) ([]models.CostCategory, error)
}

// AirSource scores air quality and exposes the raw pollutant readings.
type AirSource interface {
	scorers.Scorer
	RawReadings(ctx context.Context, coords models.Coordinates) (*models.AirReadings, error)
}

// IndicatorSource scores a country from development indicators and exposes them.
type IndicatorSource interface {
	scorers.Scorer
	Details(ctx context.Context, countryCode string) ([]models.Indicator, error)
}

// SafetySource scores safety and exposes the crime table entry.
type SafetySource interface {
	scorers.Scorer
	Details(country string) (*models.SafetyDetail, error)
}

// ImageSource returns a public reference to a city photo.
type ImageSource interface {
	Background(ctx context.Context, city string) (string, bool)
}

// WeatherSource returns current conditions, or nil.
type WeatherSource interface {
	Current(ctx context.Context, coords models.Coordinates) *models.Weather
}

// SummarySource returns an encyclopedic summary of a city, or nil.
type SummarySource interface {
	Summary(ctx context.Context, city string) *models.Summary
}

// PopulationSource returns the population of a city, or nil.
type PopulationSource interface {
	Population(ctx context.Context, city string) *models.Population
}
