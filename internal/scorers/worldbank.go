package scorers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

// WorldBankURL is the base of the World Bank indicators API.
const WorldBankURL = "https://api.worldbank.org/v2/country"

// recentValues is how many of the most recent years are requested per indicator.
const recentValues = "5"

// IndicatorBand defines how one World Bank indicator is normalized.
type IndicatorBand struct {
	Code     string
	Name     string
	Min      float64
	Max      float64
	Inverted bool
}

func (b IndicatorBand) normalize(v float64) float64 {
	if b.Inverted {
		return score.NormalizeInverted(v, b.Min, b.Max)
	}
	return score.Normalize(v, b.Min, b.Max)
}

// EducationIndicators are the indicators averaged into the education score.
var EducationIndicators = []IndicatorBand{
	{Code: "SE.ADT.LITR.ZS", Name: "Adult literacy rate (%)", Min: 50, Max: 100},
	{Code: "SE.TER.ENRR", Name: "Tertiary school enrollment (% gross)", Min: 0, Max: 100},
	{Code: "SE.XPD.TOTL.GD.ZS", Name: "Government expenditure on education (% of GDP)", Min: 0, Max: 8},
	{Code: "SE.PRM.ENRR", Name: "Primary school enrollment (% gross)", Min: 60, Max: 100},
}

// HealthIndicators are the indicators averaged into the healthcare score.
var HealthIndicators = []IndicatorBand{
	{Code: "SP.DYN.LE00.IN", Name: "Life expectancy at birth (years)", Min: 50, Max: 85},
	{Code: "SH.XPD.CHEX.PC.CD", Name: "Health expenditure per capita (US$)", Min: 0, Max: 6000},
	{Code: "SH.MED.PHYS.ZS", Name: "Physicians (per 1,000 people)", Min: 0, Max: 5},
	{Code: "SH.DYN.MORT", Name: "Under-5 mortality rate (per 1,000 live births)", Min: 0, Max: 100, Inverted: true},
}

type worldBankObservation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// IndicatorScorer scores a country from a fixed set of World Bank indicators.
// It backs both the education and the healthcare category.
type IndicatorScorer struct {
	category   score.Category
	indicators []IndicatorBand
	client     *upstream.Client
	log        *slog.Logger
}

// NewEducationScorer creates the education scorer.
func NewEducationScorer(client upstream.HTTPClient, log *slog.Logger, metrics *metrics.Metrics) *IndicatorScorer {
	return newIndicatorScorer(score.Education, EducationIndicators, client, log, metrics)
}

// NewHealthScorer creates the healthcare scorer.
func NewHealthScorer(client upstream.HTTPClient, log *slog.Logger, metrics *metrics.Metrics) *IndicatorScorer {
	return newIndicatorScorer(score.Health, HealthIndicators, client, log, metrics)
}

func newIndicatorScorer(
	category score.Category,
	indicators []IndicatorBand,
	client upstream.HTTPClient,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *IndicatorScorer {
	return &IndicatorScorer{
		category:   category,
		indicators: indicators,
		client:     upstream.NewClient("worldbank", client, nil, log, metrics),
		log:        log,
	}
}

// Category implements Scorer.
func (s *IndicatorScorer) Category() score.Category {
	return s.category
}

// NormalizedScore averages the normalized indicators that have a value for the country.
func (s *IndicatorScorer) NormalizedScore(ctx context.Context, loc models.Locator) score.Score {
	details, err := s.Details(ctx, loc.CountryCode)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to load indicator data",
			"category", s.category.String(), "country", loc.CountryCode, "error", err)
		return score.Absent
	}

	var normalized []float64
	for _, indicator := range details {
		if indicator.Normalized != nil {
			normalized = append(normalized, *indicator.Normalized)
		}
	}

	return score.Mean(normalized)
}

// Details returns every configured indicator with its latest value for an ISO3 country code.
// Indicators that fail to load are reported without a value; the call fails only when
// no indicator has a value.
func (s *IndicatorScorer) Details(ctx context.Context, countryCode string) ([]models.Indicator, error) {
	if len(countryCode) != 3 {
		return nil, fmt.Errorf("%w: country code %q", ErrMissingLocator, countryCode)
	}

	details := make([]models.Indicator, 0, len(s.indicators))
	found := 0
	for _, band := range s.indicators {
		indicator := models.Indicator{Code: band.Code, Name: band.Name}

		obs, err := s.latest(ctx, countryCode, band.Code)
		if err != nil {
			s.log.DebugContext(ctx, "Indicator unavailable", "indicator", band.Code, "error", err)
		} else {
			value := *obs.Value
			normalized := score.Round2(band.normalize(value))
			indicator.Value = &value
			indicator.Year = obs.Date
			indicator.Normalized = &normalized
			found++
		}

		details = append(details, indicator)
	}

	if found == 0 {
		return nil, fmt.Errorf("%w: no indicator values for %s", ErrNoData, countryCode)
	}

	return details, nil
}

// latest returns the most recent non-null observation of an indicator.
func (s *IndicatorScorer) latest(ctx context.Context, countryCode, indicator string) (*worldBankObservation, error) {
	endpoint := fmt.Sprintf("%s/%s/indicator/%s",
		WorldBankURL, url.PathEscape(strings.ToLower(countryCode)), url.PathEscape(indicator))

	query := url.Values{}
	query.Set("format", "json")
	query.Set("mrv", recentValues)

	// The API answers with a two element array: paging metadata, then observations.
	// Unknown countries or indicators yield a single element carrying a message.
	var pages []json.RawMessage
	if err := s.client.GetJSON(ctx, endpoint, query, &pages); err != nil {
		return nil, err
	}
	if len(pages) < 2 {
		return nil, fmt.Errorf("%w: %s has no observations", ErrNoData, indicator)
	}

	var observations []worldBankObservation
	if err := json.Unmarshal(pages[1], &observations); err != nil {
		return nil, fmt.Errorf("failed to decode worldbank observations: %w", err)
	}

	// Observations are ordered newest first.
	for i := range observations {
		if observations[i].Value != nil {
			return &observations[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s has only empty values", ErrNoData, indicator)
}
