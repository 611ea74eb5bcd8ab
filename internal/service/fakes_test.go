package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	args := m.Called(ctx, city)
	coords, _ := args.Get(0).(*models.Coordinates)
	return coords, args.Error(1)
}

// fakeScorer returns a fixed score and counts calls.
type fakeScorer struct {
	category score.Category
	value    score.Score
	calls    int
	last     models.Locator
}

func (f *fakeScorer) Category() score.Category {
	return f.category
}

func (f *fakeScorer) NormalizedScore(_ context.Context, loc models.Locator) score.Score {
	f.calls++
	f.last = loc
	return f.value
}

type fakeCost struct {
	fakeScorer
	categories []models.CostCategory
	err        error
	country    string
}

func (f *fakeCost) Details(_ context.Context, _, country string) ([]models.CostCategory, error) {
	f.country = country
	return f.categories, f.err
}

type fakeAir struct {
	fakeScorer
	readings *models.AirReadings
	err      error
}

func (f *fakeAir) RawReadings(_ context.Context, _ models.Coordinates) (*models.AirReadings, error) {
	return f.readings, f.err
}

type fakeIndicators struct {
	fakeScorer
	indicators []models.Indicator
	err        error
}

func (f *fakeIndicators) Details(_ context.Context, _ string) ([]models.Indicator, error) {
	return f.indicators, f.err
}

type fakeSafety struct {
	fakeScorer
	detail  *models.SafetyDetail
	err     error
	country string
}

func (f *fakeSafety) Details(country string) (*models.SafetyDetail, error) {
	f.country = country
	return f.detail, f.err
}

type fakeImages struct {
	ref string
	ok  bool
}

func (f fakeImages) Background(_ context.Context, _ string) (string, bool) {
	return f.ref, f.ok
}

type fakeWeather struct{}

func (fakeWeather) Current(_ context.Context, _ models.Coordinates) *models.Weather {
	return &models.Weather{Temperature: 18.5, Description: "clear sky"}
}

type fakeSummaries struct{}

func (fakeSummaries) Summary(_ context.Context, city string) *models.Summary {
	return &models.Summary{Title: city, Extract: city + " is a city."}
}

type fakePopulation struct{}

func (fakePopulation) Population(_ context.Context, city string) *models.Population {
	return &models.Population{Name: city, Population: 3_645_000}
}

// fixture wires every dependency to a fake reporting value for each category.
type fixture struct {
	geocoder  *mockGeocoder
	cost      *fakeCost
	air       *fakeAir
	education *fakeIndicators
	safety    *fakeSafety
	health    *fakeIndicators
}

func newFixture(value float64) *fixture {
	return &fixture{
		geocoder:  &mockGeocoder{},
		cost:      &fakeCost{fakeScorer: fakeScorer{category: score.Cost, value: score.Of(value)}},
		air:       &fakeAir{fakeScorer: fakeScorer{category: score.Air, value: score.Of(value)}},
		education: &fakeIndicators{fakeScorer: fakeScorer{category: score.Education, value: score.Of(value)}},
		safety:    &fakeSafety{fakeScorer: fakeScorer{category: score.Safety, value: score.Of(value)}},
		health:    &fakeIndicators{fakeScorer: fakeScorer{category: score.Health, value: score.Of(value)}},
	}
}

func (f *fixture) scorerCalls() int {
	return f.cost.calls + f.air.calls + f.education.calls + f.safety.calls + f.health.calls
}
