package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

// GeoDB endpoints on RapidAPI.
const (
	GeoDBHost      = "wft-geo-db.p.rapidapi.com"
	GeoDBCitiesURL = "https://" + GeoDBHost + "/v1/geo/cities"
)

type geoDBResponse struct {
	Data []struct {
		Name       string `json:"name"`
		Country    string `json:"country"`
		Population int    `json:"population"`
	} `json:"data"`
}

// PopulationClient looks up city populations in GeoDB.
type PopulationClient struct {
	client *upstream.Client
	log    *slog.Logger
}

// NewPopulationClient creates a population client authenticated with a RapidAPI key.
func NewPopulationClient(client upstream.HTTPClient, apiKey string, log *slog.Logger, metrics *metrics.Metrics) *PopulationClient {
	header := http.Header{}
	header.Set("x-rapidapi-host", GeoDBHost)
	header.Set("x-rapidapi-key", apiKey)

	return &PopulationClient{
		client: upstream.NewClient("geodb", client, header, log, metrics),
		log:    log,
	}
}

// Population returns the most populous city matching the name, or nil when unavailable.
func (p *PopulationClient) Population(ctx context.Context, city string) *models.Population {
	record, err := p.lookup(ctx, city)
	if err != nil {
		p.log.WarnContext(ctx, "Failed to load population", "city", city, "error", err)
		return nil
	}

	return record
}

func (p *PopulationClient) lookup(ctx context.Context, city string) (*models.Population, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	query := url.Values{}
	query.Set("namePrefix", city)
	query.Set("limit", "1")
	query.Set("sort", "-population")

	var resp geoDBResponse
	if err := p.client.GetJSON(ctx, GeoDBCitiesURL, query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no city matches %q", ErrNoResults, city)
	}

	return &models.Population{
		Name:       resp.Data[0].Name,
		Country:    resp.Data[0].Country,
		Population: resp.Data[0].Population,
	}, nil
}
