// Package service orchestrates a city evaluation: it validates the request, resolves the
// country, geocodes the city, runs every category scorer, aggregates the weighted score
// and finally attaches display-only enrichment.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/geocoding"
	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/reference"
	"github.com/UnknownOlympus/cityscore/internal/score"
	"github.com/UnknownOlympus/cityscore/internal/scorers"
)

// DefaultBackground is shown when no city photo is available.
const DefaultBackground = "/static/default.jpg"

const countryCodeLength = 3

// Errors surfaced to the web layer.
var (
	ErrValidation   = errors.New("invalid request")
	ErrNotFound     = errors.New("not found")
	ErrUpstreamData = errors.New("failed to load one or more required data points")

	ErrUnsupportedCountry = errors.New("unsupported country code")
	ErrCityNotFound       = errors.New("could not determine coordinates for city")
)

// Outcome labels for the score request counter.
const (
	outcomeOK         = "ok"
	outcomeValidation = "validation"
	outcomeNotFound   = "not_found"
	outcomeUpstream   = "upstream"
)

// ScoreForm is a raw evaluation request as submitted by the user.
// Weights are in score.Category order.
type ScoreForm struct {
	City        string
	CountryCode string
	Weights     [score.NumCategories]string
}

// Result is a completed evaluation.
type Result struct {
	City        string
	Country     string
	CountryCode string
	Coordinates models.Coordinates
	Scores      score.Components
	Final       float64
	Weights     score.Weights
	Background  string
	Weather     *models.Weather
	Summary     *models.Summary
	Population  *models.Population
}

// Dependencies are the collaborators of CityScoreService.
// Enrichment sources may be nil.
type Dependencies struct {
	Geocoder  geocoding.Provider
	Countries *reference.Countries

	Cost      CostSource
	Air       AirSource
	Education IndicatorSource
	Safety    SafetySource
	Health    IndicatorSource

	Images     ImageSource
	Weather    WeatherSource
	Summaries  SummarySource
	Population PopulationSource
}

// CityScoreService computes weighted city scores and their per-category breakdowns.
type CityScoreService struct {
	log               *slog.Logger     // Logger for logging service activities
	deps              Dependencies     // Geocoder, reference tables, scorers and enrichers
	metrics           *metrics.Metrics // Metrics for tracking request outcomes
	defaultBackground string           // Background used when no city photo is available
}

// NewCityScoreService creates a new instance of CityScoreService.
// An empty defaultBackground selects DefaultBackground.
func NewCityScoreService(
	log *slog.Logger,
	deps Dependencies,
	metrics *metrics.Metrics,
	defaultBackground string,
) *CityScoreService {
	if defaultBackground == "" {
		defaultBackground = DefaultBackground
	}

	return &CityScoreService{
		log:               log,
		deps:              deps,
		metrics:           metrics,
		defaultBackground: defaultBackground,
	}
}

// Score evaluates a city. Validation and country resolution happen before any outbound
// call; the scorers then run sequentially and any missing category fails the request.
func (s *CityScoreService) Score(ctx context.Context, form ScoreForm) (*Result, error) {
	start := time.Now()

	result, err := s.score(ctx, form)
	s.metrics.ScoreOutcome(outcome(err))
	if err != nil {
		s.log.WarnContext(ctx, "Score request failed",
			"city", form.City, "country_code", form.CountryCode, "error", err)
		return nil, err
	}

	s.log.InfoContext(ctx, "Score computed",
		"city", result.City,
		"country_code", result.CountryCode,
		"score", result.Final,
		"duration", time.Since(start).String(),
	)
	return result, nil
}

func (s *CityScoreService) score(ctx context.Context, form ScoreForm) (*Result, error) {
	city := strings.TrimSpace(form.City)
	code := strings.ToUpper(strings.TrimSpace(form.CountryCode))

	weights, err := validate(city, code, form.Weights)
	if err != nil {
		return nil, err
	}

	country, ok := s.deps.Countries.Name(code)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrNotFound, ErrUnsupportedCountry, code)
	}

	coords, err := s.deps.Geocoder.Geocode(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %w %q: %w", ErrNotFound, ErrCityNotFound, city, err)
	}

	loc := models.Locator{City: city, Country: country, CountryCode: code, Coordinates: coords}

	var components score.Components
	var missing []string
	for _, scorer := range []scorers.Scorer{s.deps.Air, s.deps.Cost, s.deps.Education, s.deps.Safety, s.deps.Health} {
		sc := scorer.NormalizedScore(ctx, loc)
		components[scorer.Category()] = sc
		if !sc.Present() {
			missing = append(missing, scorer.Category().String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamData, strings.Join(missing, ", "))
	}

	final := score.Aggregate(components, weights)

	result := &Result{
		City:        city,
		Country:     country,
		CountryCode: code,
		Coordinates: *coords,
		Scores:      components,
		Final:       final.Value(),
		Weights:     weights,
	}
	s.enrich(ctx, result)

	return result, nil
}

func validate(city, code string, raw [score.NumCategories]string) (score.Weights, error) {
	if city == "" {
		return score.Weights{}, fmt.Errorf("%w: city is required", ErrValidation)
	}
	if len(code) != countryCodeLength {
		return score.Weights{}, fmt.Errorf("%w: country code must have %d letters", ErrValidation, countryCodeLength)
	}

	weights, err := score.ParseWeights(raw)
	if err != nil {
		return score.Weights{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err = weights.Validate(); err != nil {
		return score.Weights{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return weights, nil
}

// enrich attaches display-only data. Nothing here can fail the request.
func (s *CityScoreService) enrich(ctx context.Context, result *Result) {
	result.Background = s.defaultBackground
	if s.deps.Images != nil {
		if ref, ok := s.deps.Images.Background(ctx, result.City); ok {
			result.Background = ref
		}
	}
	if s.deps.Weather != nil {
		result.Weather = s.deps.Weather.Current(ctx, result.Coordinates)
	}
	if s.deps.Summaries != nil {
		result.Summary = s.deps.Summaries.Summary(ctx, result.City)
	}
	if s.deps.Population != nil {
		result.Population = s.deps.Population.Population(ctx, result.City)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrValidation):
		return outcomeValidation
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeUpstream
	}
}
