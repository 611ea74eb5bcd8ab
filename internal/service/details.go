package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/reference"
	"github.com/UnknownOlympus/cityscore/internal/scorers"
)

// CostReport is the categorized price breakdown of a city.
type CostReport struct {
	City       string
	Country    string
	Categories []models.CostCategory
}

// AirReport is the raw pollutant breakdown of a city.
type AirReport struct {
	City        string
	Coordinates models.Coordinates
	Readings    *models.AirReadings
}

// IndicatorReport is the indicator breakdown of a country.
type IndicatorReport struct {
	Country     string
	CountryCode string
	Indicators  []models.Indicator
}

// CostDetails returns the price breakdown for a city. The country code is resolved to its
// display name when known and passed through unchanged otherwise.
func (s *CityScoreService) CostDetails(ctx context.Context, city, countryCode string) (*CostReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrValidation)
	}
	country := s.countryName(countryCode)

	categories, err := s.deps.Cost.Details(ctx, city, country)
	if err != nil {
		return nil, detailError(fmt.Sprintf("cost of living for %s", city), err)
	}

	return &CostReport{City: city, Country: country, Categories: categories}, nil
}

// AirDetails geocodes the city and returns its raw pollutant readings.
func (s *CityScoreService) AirDetails(ctx context.Context, city string) (*AirReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrValidation)
	}

	coords, err := s.deps.Geocoder.Geocode(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %w %q: %w", ErrNotFound, ErrCityNotFound, city, err)
	}

	readings, err := s.deps.Air.RawReadings(ctx, *coords)
	if err != nil {
		return nil, detailError(fmt.Sprintf("air quality for %s", city), err)
	}

	return &AirReport{City: city, Coordinates: *coords, Readings: readings}, nil
}

// EducationDetails returns the education indicators of a country.
func (s *CityScoreService) EducationDetails(ctx context.Context, countryCode string) (*IndicatorReport, error) {
	return s.indicatorDetails(ctx, s.deps.Education, countryCode)
}

// HealthDetails returns the healthcare indicators of a country.
func (s *CityScoreService) HealthDetails(ctx context.Context, countryCode string) (*IndicatorReport, error) {
	return s.indicatorDetails(ctx, s.deps.Health, countryCode)
}

func (s *CityScoreService) indicatorDetails(
	ctx context.Context,
	source IndicatorSource,
	countryCode string,
) (*IndicatorReport, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if len(code) != countryCodeLength {
		return nil, fmt.Errorf("%w: country code must have %d letters", ErrValidation, countryCodeLength)
	}

	indicators, err := source.Details(ctx, code)
	if err != nil {
		return nil, detailError(fmt.Sprintf("%s indicators for %s", source.Category(), code), err)
	}

	return &IndicatorReport{Country: s.countryName(code), CountryCode: code, Indicators: indicators}, nil
}

// SafetyDetails returns the crime index of a country given either its ISO3 code or its name.
func (s *CityScoreService) SafetyDetails(country string) (*models.SafetyDetail, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("%w: country is required", ErrValidation)
	}

	detail, err := s.deps.Safety.Details(s.countryName(country))
	if err != nil {
		return nil, detailError("safety data for "+country, err)
	}

	return detail, nil
}

func (s *CityScoreService) countryName(codeOrName string) string {
	codeOrName = strings.TrimSpace(codeOrName)
	if name, ok := s.deps.Countries.Name(codeOrName); ok {
		return name
	}
	return codeOrName
}

func detailError(what string, err error) error {
	switch {
	case errors.Is(err, scorers.ErrNoData), errors.Is(err, reference.ErrCountryNotFound):
		return fmt.Errorf("%w: no %s: %w", ErrNotFound, what, err)
	case errors.Is(err, scorers.ErrMissingLocator):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUpstreamData, what, err)
	}
}
