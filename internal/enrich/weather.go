package enrich

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

// WeatherURL is the OpenWeatherMap current weather endpoint.
const WeatherURL = "https://api.openweathermap.org/data/2.5/weather"

type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// WeatherClient loads current conditions from OpenWeatherMap.
type WeatherClient struct {
	client *upstream.Client
	apiKey string
	log    *slog.Logger
}

// NewWeatherClient creates a weather client.
func NewWeatherClient(client upstream.HTTPClient, apiKey string, log *slog.Logger, metrics *metrics.Metrics) *WeatherClient {
	return &WeatherClient{
		client: upstream.NewClient("openweathermap_weather", client, nil, log, metrics),
		apiKey: apiKey,
		log:    log,
	}
}

// Current returns the weather at coords in metric units, or nil when unavailable.
func (w *WeatherClient) Current(ctx context.Context, coords models.Coordinates) *models.Weather {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", w.apiKey)
	query.Set("units", "metric")

	var resp weatherResponse
	if err := w.client.GetJSON(ctx, WeatherURL, query, &resp); err != nil {
		w.log.WarnContext(ctx, "Failed to load weather", "error", err)
		return nil
	}

	weather := &models.Weather{
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		Humidity:    resp.Main.Humidity,
		Pressure:    resp.Main.Pressure,
		WindSpeed:   resp.Wind.Speed,
	}
	if len(resp.Weather) > 0 {
		weather.Description = resp.Weather[0].Description
		weather.Icon = resp.Weather[0].Icon
	}

	return weather
}
