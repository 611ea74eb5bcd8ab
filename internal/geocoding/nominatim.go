package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
	"golang.org/x/time/rate"
)

const (
	// NominatimBaseURL is the public Nominatim search endpoint.
	NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

	nominatimRateLimit = 1
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client  *upstream.Client // client performs the requests and records metrics
	baseURL string           // Base URL for the Nominatim API
	log     *slog.Logger     // Logger for logging operations
	limiter *rate.Limiter    // limiter paces requests to the fair-use policy
}

// nominatimResponse represents the JSON response from Nominatim API.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
	ErrEmptyCity              = errors.New("geocoding provider got empty city name")
)

// NewNominatimProvider creates a new Nominatim geocoding provider.
// Uses the public Nominatim API endpoint.
func NewNominatimProvider(
	rateLimit int,
	timeout time.Duration,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *NominatimProvider {
	limiter := rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	return newNominatim(upstream.NewHTTPClient(timeout), NominatimBaseURL, limiter, log, metrics)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client and no pacing.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client upstream.HTTPClient, log *slog.Logger) *NominatimProvider {
	return newNominatim(client, NominatimBaseURL, rate.NewLimiter(rate.Inf, 1), log, nil)
}

func newNominatim(
	client upstream.HTTPClient,
	baseURL string,
	limiter *rate.Limiter,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *NominatimProvider {
	// User-Agent MUST include valid contact info per Nominatim usage policy:
	// https://operations.osmfoundation.org/policies/nominatim/
	header := http.Header{}
	header.Set("User-Agent", upstream.UserAgent)
	header.Set("Accept-Language", "en")

	return &NominatimProvider{
		client:  upstream.NewClient(string(ProviderTypeNominatim), client, header, log, metrics),
		baseURL: baseURL,
		log:     log,
		limiter: limiter,
	}
}

// Geocode converts a city name to geographic coordinates using the Nominatim API.
// Only the top result is considered and no fallback queries are issued.
func (np *NominatimProvider) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	if city == "" {
		return nil, ErrEmptyCity
	}

	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Geocoding using Nominatim", "city", city)

	query := url.Values{}
	query.Set("q", city)
	query.Set("format", "json")
	query.Set("limit", "1") // Only need the top result

	var results []nominatimResponse
	if err := np.client.GetJSON(ctx, np.baseURL, query, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	np.log.DebugContext(ctx, "Nominatim found result", "lat", results[0].Lat, "lon", results[0].Lon)

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	return &models.Coordinates{
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
