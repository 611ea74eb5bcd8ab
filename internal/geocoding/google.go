package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client  GoogleAPIClient  // client is the Google Maps API client
	log     *slog.Logger     // log is the logger for logging operations
	metrics *metrics.Metrics // metrics records request latency and errors
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a new GoogleProvider around an existing Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger, metrics *metrics.Metrics) *GoogleProvider {
	return &GoogleProvider{client: client, log: log, metrics: metrics}
}

// Geocode resolves a city name to coordinates using the Google Maps Geocoding API.
// Only results typed as localities are preferred; otherwise the top result is used.
func (gp *GoogleProvider) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "city", city)

	req := maps.GeocodingRequest{Address: city}
	start := time.Now()
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	gp.metrics.ObserveRequest(string(ProviderTypeGoogle), time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode city: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}

	best := geocodeResponse[0]
	for _, result := range geocodeResponse {
		if slices.Contains(result.Types, "locality") {
			best = result
			break
		}
	}
	coords := best.Geometry.Location

	return &models.Coordinates{Longitude: coords.Lng, Latitude: coords.Lat}, nil
}
