package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
	"golang.org/x/time/rate"
)

// OpenCageBaseURL -- OpenCage API base URL.
const OpenCageBaseURL = "https://api.opencagedata.com/geocode/v1/json"

const openCageRateLimit = 1

// OpenCageProvider implements geocoding using the OpenCage API.
type OpenCageProvider struct {
	client  *upstream.Client // client performs the requests and records metrics
	baseURL string           // Base URL for the OpenCage API
	apiKey  string           // API key with geocoding access
	log     *slog.Logger     // Logger for logging operations
	limiter *rate.Limiter    // Rate limiter
}

// Common errors for OpenCage provider.
var (
	ErrOpenCageEmptyResponse = errors.New("opencage API returned empty response")
	ErrOpenCageUnauthorized  = errors.New("opencage API unauthorized (invalid API key)")
)

// OpenCage API response (simplified for geocoding use-case).
type openCageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// NewOpenCageProvider creates a new OpenCage geocoding provider.
func NewOpenCageProvider(
	apiKey string,
	rateLimit int,
	timeout time.Duration,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *OpenCageProvider {
	limiter := rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	return NewOpenCageProviderWithClient(upstream.NewHTTPClient(timeout), apiKey, limiter, log, metrics)
}

// NewOpenCageProviderWithClient allows injecting custom HTTP client.
func NewOpenCageProviderWithClient(
	client upstream.HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *OpenCageProvider {
	return &OpenCageProvider{
		client:  upstream.NewClient(string(ProviderTypeOpenCage), client, nil, log, metrics),
		baseURL: OpenCageBaseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// Geocode converts a city name into geographic coordinates using the OpenCage API.
func (op *OpenCageProvider) Geocode(ctx context.Context, city string) (*models.Coordinates, error) {
	if city == "" {
		return nil, ErrEmptyCity
	}

	// Rate limit
	if err := op.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	op.log.DebugContext(ctx, "Geocoding using OpenCage", "city", city)

	query := url.Values{}
	query.Set("q", city)
	query.Set("key", op.apiKey)
	query.Set("limit", "1")
	query.Set("no_annotations", "1")

	var result openCageResponse
	if err := op.client.GetJSON(ctx, op.baseURL, query, &result); err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return nil, ErrOpenCageUnauthorized
		}
		return nil, err
	}

	if len(result.Results) == 0 {
		return nil, ErrOpenCageEmptyResponse
	}

	geometry := result.Results[0].Geometry
	op.log.InfoContext(ctx, "OpenCage found result", "city", city, "lat", geometry.Lat, "lon", geometry.Lng)

	return &models.Coordinates{
		Latitude:  geometry.Lat,
		Longitude: geometry.Lng,
	}, nil
}
