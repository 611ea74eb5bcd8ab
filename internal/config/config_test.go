package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"

	"github.com/UnknownOlympus/cityscore/internal/config"
)

func Test_MustLoadDefaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 60*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "static", cfg.HTTP.StaticDir)
	assert.Equal(t, 8080, cfg.MonitoringPort)
	assert.Equal(t, "nominatim", cfg.Geocoder.Type)
	assert.Zero(t, cfg.Geocoder.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "en", cfg.WikipediaLang)
	assert.Equal(t, "data/crime_data.csv", cfg.Data.CrimeFile)
	assert.Empty(t, cfg.Data.CountriesFile)
	assert.Equal(t, "static/images", cfg.Images.Dir)
	assert.Equal(t, "/static/images", cfg.Images.PublicURL)
	assert.Equal(t, "/static/default.jpg", cfg.Images.Default)
}

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("CITYSCORE_ENV", "local")
	t.Setenv("CITYSCORE_HTTP_PORT", "9000")
	t.Setenv("CITYSCORE_MONITORING_PORT", "9090")
	t.Setenv("CITYSCORE_GEOCODER_TYPE", "OpenCage")
	t.Setenv("CITYSCORE_GEOCODER_API_KEY", "testAPIKey")
	t.Setenv("CITYSCORE_GEOCODER_RATE_LIMIT", "5")
	t.Setenv("CITYSCORE_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CITYSCORE_OPENWEATHERMAP_API_KEY", "owm")
	t.Setenv("CITYSCORE_RAPIDAPI_API_KEY", "rapid")
	t.Setenv("CITYSCORE_UNSPLASH_ACCESS_KEY", "unsplash")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 9090, cfg.MonitoringPort)
	assert.Equal(t, "opencage", cfg.Geocoder.Type)
	assert.Equal(t, "testAPIKey", cfg.Geocoder.APIKey)
	assert.Equal(t, 5, cfg.Geocoder.RateLimit)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "owm", cfg.Keys.OpenWeatherMap)
	assert.Equal(t, "rapid", cfg.Keys.RapidAPI)
	assert.Equal(t, "unsplash", cfg.Keys.Unsplash)
}

func Test_MustLoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)
	path := filepath.Join(filet.TmpDir(t, ""), "cityscore.yaml")
	filet.File(t, path, "env: development\nhttp:\n  port: 8500\nwikipedia:\n  lang: de\n")
	t.Setenv("CITYSCORE_CONFIG", path)
	t.Setenv("CITYSCORE_WIKIPEDIA_LANG", "fr")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8500, cfg.HTTP.Port)
	assert.Equal(t, "fr", cfg.WikipediaLang)
}

func TestMustLoad_ConfigFileError(t *testing.T) {
	t.Setenv("CITYSCORE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.PanicsWithValue(t, "failed to read configuration file", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("CITYSCORE_MONITORING_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_HTTPPortError(t *testing.T) {
	t.Setenv("CITYSCORE_HTTP_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for http server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RateLimitError(t *testing.T) {
	t.Setenv("CITYSCORE_GEOCODER_RATE_LIMIT", "error_value")

	assert.PanicsWithValue(t, "failed to parse geocoder rate limit from configuration, must be an integer types", func() {
		config.MustLoad()
	})
}

func TestMustLoad_TimeoutError(t *testing.T) {
	t.Setenv("CITYSCORE_UPSTREAM_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse upstream timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RequestTimeoutError(t *testing.T) {
	t.Setenv("CITYSCORE_HTTP_REQUEST_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse request timeout from configuration", func() {
		config.MustLoad()
	})
}
