package scorers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

// AirPollutionURL is the OpenWeatherMap current air pollution endpoint.
const AirPollutionURL = "https://api.openweathermap.org/data/2.5/air_pollution"

// pollutantBands are the concentrations (µg/m³) scored 100 and 0 respectively.
// The upper bound is the provider's "very poor" threshold.
var pollutantBands = []band{
	{"pm2_5", 0, 75},
	{"pm10", 0, 200},
	{"no2", 0, 200},
	{"o3", 0, 180},
	{"so2", 0, 350},
	{"co", 0, 15400},
}

type band struct {
	name string
	min  float64
	max  float64
}

type airPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components map[string]float64 `json:"components"`
	} `json:"list"`
}

// AirQualityScorer scores air quality from OpenWeatherMap pollutant readings.
type AirQualityScorer struct {
	client *upstream.Client
	apiKey string
	log    *slog.Logger
}

// NewAirQualityScorer creates an air quality scorer.
func NewAirQualityScorer(
	client upstream.HTTPClient,
	apiKey string,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *AirQualityScorer {
	return &AirQualityScorer{
		client: upstream.NewClient("openweathermap_air", client, nil, log, metrics),
		apiKey: apiKey,
		log:    log,
	}
}

// Category implements Scorer.
func (s *AirQualityScorer) Category() score.Category {
	return score.Air
}

// NormalizedScore averages the inverted normalization of every known pollutant present.
func (s *AirQualityScorer) NormalizedScore(ctx context.Context, loc models.Locator) score.Score {
	if loc.Coordinates == nil {
		s.log.WarnContext(ctx, "Air quality needs coordinates", "error", ErrMissingLocator)
		return score.Absent
	}

	readings, err := s.RawReadings(ctx, *loc.Coordinates)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to load air pollution data", "city", loc.City, "error", err)
		return score.Absent
	}

	return NormalizeAir(readings.Components)
}

// NormalizeAir converts pollutant concentrations into one score.
// Pollutants without a configured band are ignored.
func NormalizeAir(components map[string]float64) score.Score {
	var normalized []float64
	for _, b := range pollutantBands {
		value, ok := components[b.name]
		if !ok {
			continue
		}
		normalized = append(normalized, score.NormalizeInverted(value, b.min, b.max))
	}

	return score.Mean(normalized)
}

// RawReadings fetches the current pollutant concentrations for coordinates.
func (s *AirQualityScorer) RawReadings(ctx context.Context, coords models.Coordinates) (*models.AirReadings, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", s.apiKey)

	var resp airPollutionResponse
	if err := s.client.GetJSON(ctx, AirPollutionURL, query, &resp); err != nil {
		return nil, err
	}

	if len(resp.List) == 0 || len(resp.List[0].Components) == 0 {
		return nil, fmt.Errorf("%w: air pollution list is empty", ErrNoData)
	}

	return &models.AirReadings{
		AQI:        resp.List[0].Main.AQI,
		Components: resp.List[0].Components,
	}, nil
}
