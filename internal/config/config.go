package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CITYSCORE_HTTP_PORT for http.port.
const EnvPrefix = "CITYSCORE"

// ConfigFileEnv names the variable holding an optional YAML configuration file.
const ConfigFileEnv = EnvPrefix + "_CONFIG"

// Config holds the configuration settings for the city score service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - HTTP: The public web server settings.
// - MonitoringPort: The port for the health and metrics server.
// - Geocoder: Which geocoding provider to use and how.
// - UpstreamTimeout: Timeout of a single outbound request.
// - Keys: Credentials of the data providers.
// - Data: Reference table locations.
// - Images: Background image cache settings.
type Config struct {
	Env             string           `yaml:"env"`              // Env is the current environment: local, development, production.
	HTTP            HTTPConfig       `yaml:"http"`             // HTTP holds the public server settings.
	MonitoringPort  int              `yaml:"monitoring.port"`  // MonitoringPort is the health and metrics server port.
	Geocoder        GeocoderConfig   `yaml:"geocoder"`         // Geocoder selects the geocoding provider.
	UpstreamTimeout time.Duration    `yaml:"upstream.timeout"` // UpstreamTimeout bounds one outbound request.
	Keys            KeysConfig       `yaml:"keys"`             // Keys holds provider credentials.
	WikipediaLang   string           `yaml:"wikipedia.lang"`   // WikipediaLang is the summary language edition.
	Data            DataConfig       `yaml:"data"`             // Data holds reference table paths.
	Images          ImageCacheConfig `yaml:"images"`           // Images configures the photo cache.
}

// HTTPConfig holds the public web server settings.
type HTTPConfig struct {
	Port           int           // Port is the public server port.
	RequestTimeout time.Duration // RequestTimeout bounds a whole page request.
	StaticDir      string        // StaticDir is served under /static.
}

// GeocoderConfig selects and configures the geocoding provider.
type GeocoderConfig struct {
	Type      string // Type is one of nominatim, google, opencage.
	APIKey    string // APIKey is required by google and opencage.
	RateLimit int    // RateLimit in requests per second, 0 selects the provider default.
}

// KeysConfig holds the credentials of the data providers.
type KeysConfig struct {
	OpenWeatherMap string // OpenWeatherMap serves air pollution and weather.
	RapidAPI       string // RapidAPI serves cost of living and city populations.
	Unsplash       string // Unsplash is the photo search access key.
}

// DataConfig holds the locations of the reference tables.
type DataConfig struct {
	CrimeFile     string // CrimeFile is the semicolon separated crime index table.
	CountriesFile string // CountriesFile overrides the built-in country table when set.
}

// ImageCacheConfig configures the background image cache.
type ImageCacheConfig struct {
	Dir       string // Dir stores downloaded photos.
	PublicURL string // PublicURL is the URL prefix Dir is served under.
	Default   string // Default is shown when no photo is available.
}

var defaults = map[string]string{
	"env":                    "production",
	"http.port":              "8000",
	"http.request_timeout":   "60s",
	"http.static_dir":        "static",
	"monitoring.port":        "8080",
	"geocoder.type":          "nominatim",
	"geocoder.api_key":       "",
	"geocoder.rate_limit":    "0",
	"upstream.timeout":       "10s",
	"openweathermap.api_key": "",
	"rapidapi.api_key":       "",
	"unsplash.access_key":    "",
	"wikipedia.lang":         "en",
	"data.crime_file":        "data/crime_data.csv",
	"data.countries_file":    "",
	"images.dir":             "static/images",
	"images.public_url":      "/static/images",
	"images.default":         "/static/default.jpg",
}

// MustLoad loads the configuration from the environment, an optional .env file and
// an optional YAML file named by CITYSCORE_CONFIG. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file := os.Getenv(ConfigFileEnv); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	httpPort, err := strconv.Atoi(v.GetString("http.port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	monitoringPort, err := strconv.Atoi(v.GetString("monitoring.port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("geocoder.rate_limit"))
	if err != nil {
		panic("failed to parse geocoder rate limit from configuration, must be an integer types")
	}

	requestTimeout, err := time.ParseDuration(v.GetString("http.request_timeout"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	upstreamTimeout, err := time.ParseDuration(v.GetString("upstream.timeout"))
	if err != nil {
		panic("failed to parse upstream timeout from configuration")
	}

	return &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Port:           httpPort,
			RequestTimeout: requestTimeout,
			StaticDir:      v.GetString("http.static_dir"),
		},
		MonitoringPort: monitoringPort,
		Geocoder: GeocoderConfig{
			Type:      strings.ToLower(v.GetString("geocoder.type")),
			APIKey:    v.GetString("geocoder.api_key"),
			RateLimit: rateLimit,
		},
		UpstreamTimeout: upstreamTimeout,
		Keys: KeysConfig{
			OpenWeatherMap: v.GetString("openweathermap.api_key"),
			RapidAPI:       v.GetString("rapidapi.api_key"),
			Unsplash:       v.GetString("unsplash.access_key"),
		},
		WikipediaLang: v.GetString("wikipedia.lang"),
		Data: DataConfig{
			CrimeFile:     v.GetString("data.crime_file"),
			CountriesFile: v.GetString("data.countries_file"),
		},
		Images: ImageCacheConfig{
			Dir:       v.GetString("images.dir"),
			PublicURL: v.GetString("images.public_url"),
			Default:   v.GetString("images.default"),
		},
	}
}
