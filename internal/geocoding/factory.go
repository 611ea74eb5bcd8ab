package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeOpenCage represents the OpenCage geocoding provider.
	ProviderTypeOpenCage ProviderType = "opencage"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type      ProviderType     // Type of provider to create
	APIKey    string           // API key (used by Google and OpenCage providers)
	RateLimit int              // Rate limit for requests per second (0 selects the provider default)
	Timeout   time.Duration    // Timeout of a single HTTP request
	Logger    *slog.Logger     // Logger for the provider
	Metrics   *metrics.Metrics // Metrics for upstream calls, may be nil
}

// NewProvider creates a geocoding provider based on the provided configuration.
//
// Supported provider types:
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
// - "google": Google Maps Geocoding API (requires API key)
// - "opencage": OpenCage Geocoding API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeNominatim:
		return newNominatimProvider(config)
	case ProviderTypeOpenCage:
		return newOpenCageProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
		maps.WithHTTPClient(upstream.NewHTTPClient(config.Timeout)),
	}
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger, config.Metrics), nil
}

// newNominatimProvider creates a Nominatim geocoding provider.
func newNominatimProvider(config ProviderConfig) (Provider, error) {
	if config.RateLimit == 0 {
		config.RateLimit = nominatimRateLimit
	}

	return NewNominatimProvider(config.RateLimit, config.Timeout, config.Logger, config.Metrics), nil
}

// newOpenCageProvider creates an OpenCage geocoding provider.
func newOpenCageProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for OpenCage provider")
	}

	if config.RateLimit == 0 {
		config.RateLimit = openCageRateLimit
		config.Logger.Warn("Rate limit for OpenCage API not set, set a default value", "value", config.RateLimit)
	}

	return NewOpenCageProvider(config.APIKey, config.RateLimit, config.Timeout, config.Logger, config.Metrics), nil
}
