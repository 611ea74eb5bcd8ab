package scorers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/score"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

const (
	// CostOfLivingHost is the RapidAPI host of the cost-of-living provider.
	CostOfLivingHost = "cost-of-living-and-prices.p.rapidapi.com"
	// CostOfLivingURL is the prices endpoint of the cost-of-living provider.
	CostOfLivingURL = "https://" + CostOfLivingHost + "/prices"

	defaultCurrency = "EUR"
)

// CostCategory describes how one group of goods is scored.
type CostCategory struct {
	Name    string
	GoodIDs []int
	Min     float64
	Max     float64
	Weight  float64
}

// CostCategories is the fixed grouping of provider goods. The weights of the categories
// that have data are summed as-is, without renormalization.
var CostCategories = []CostCategory{
	{Name: "Real Estate (€/m²)", GoodIDs: []int{1, 2}, Min: 1000, Max: 10000, Weight: 0.15},
	{Name: "Clothing", GoodIDs: []int{5, 6, 7, 64}, Min: 20, Max: 150, Weight: 0.10},
	{
		Name:    "Groceries",
		GoodIDs: []int{9, 10, 11, 12, 13, 14, 15, 17, 18, 19, 20, 21, 22, 24, 25, 26, 27},
		Min:     1,
		Max:     10,
		Weight:  0.15,
	},
	{Name: "Rent", GoodIDs: []int{28, 29, 30, 31}, Min: 300, Max: 3000, Weight: 0.20},
	{Name: "Restaurants", GoodIDs: []int{36, 37, 38}, Min: 5, Max: 100, Weight: 0.10},
	{Name: "Gasoline", GoodIDs: []int{45}, Min: 1.0, Max: 2.5, Weight: 0.05},
	{Name: "Public Transport Pass", GoodIDs: []int{46}, Min: 20, Max: 120, Weight: 0.10},
	{Name: "Utilities", GoodIDs: []int{54}, Min: 50, Max: 500, Weight: 0.10},
	{Name: "Internet (60 Mbps)", GoodIDs: []int{55}, Min: 10, Max: 70, Weight: 0.05},
}

// goodID accepts both numeric and string encodings of the provider's good_id.
type goodID int

func (g *goodID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*g = -1
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid good_id %q: %w", data, err)
	}
	*g = goodID(v)
	return nil
}

// Price is one priced good as reported by the provider.
type Price struct {
	GoodID   goodID   `json:"good_id"`
	ItemName string   `json:"item_name"`
	Avg      *float64 `json:"avg"`
	Currency string   `json:"currency"`
}

type pricesResponse struct {
	Prices []Price `json:"prices"`
}

// CostOfLivingScorer scores affordability from the RapidAPI cost-of-living prices.
type CostOfLivingScorer struct {
	client *upstream.Client
	log    *slog.Logger
}

// NewCostOfLivingScorer creates a cost-of-living scorer authenticated with a RapidAPI key.
func NewCostOfLivingScorer(
	client upstream.HTTPClient,
	apiKey string,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *CostOfLivingScorer {
	header := http.Header{}
	header.Set("x-rapidapi-host", CostOfLivingHost)
	header.Set("x-rapidapi-key", apiKey)

	return &CostOfLivingScorer{
		client: upstream.NewClient("cost_of_living", client, header, log, metrics),
		log:    log,
	}
}

// Category implements Scorer.
func (s *CostOfLivingScorer) Category() score.Category {
	return score.Cost
}

// NormalizedScore fetches prices for the city and country name and scores them.
func (s *CostOfLivingScorer) NormalizedScore(ctx context.Context, loc models.Locator) score.Score {
	prices, err := s.fetchPrices(ctx, loc.City, loc.Country)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to load cost of living data",
			"city", loc.City, "country", loc.Country, "error", err)
		return score.Absent
	}

	result := ScoreCost(prices)
	if !result.Present() {
		s.log.WarnContext(ctx, "No cost of living category has prices", "city", loc.City)
	}

	return result
}

// ScoreCost computes the weighted sum of normalized category averages.
// Categories without prices are skipped; the result is absent when none have prices.
func ScoreCost(prices []Price) score.Score {
	var (
		total   float64
		present int
	)
	for _, category := range CostCategories {
		values := categoryValues(category, prices)
		if len(values) == 0 {
			continue
		}

		var sum float64
		for _, v := range values {
			sum += v
		}
		avg := sum / float64(len(values))
		norm := score.Round2(score.NormalizeInverted(avg, category.Min, category.Max))

		total += norm * category.Weight
		present++
	}

	if present == 0 {
		return score.Absent
	}

	return score.Of(score.Round2(total))
}

func categoryValues(category CostCategory, prices []Price) []float64 {
	var values []float64
	for _, p := range prices {
		if p.Avg == nil || !slices.Contains(category.GoodIDs, int(p.GoodID)) {
			continue
		}
		values = append(values, *p.Avg)
	}
	return values
}

// Details groups the city's prices by category with per-category averages.
// Categories without prices are omitted.
func (s *CostOfLivingScorer) Details(ctx context.Context, city, country string) ([]models.CostCategory, error) {
	prices, err := s.fetchPrices(ctx, city, country)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: no prices for %s, %s", ErrNoData, city, country)
	}

	var detailed []models.CostCategory
	for _, category := range CostCategories {
		var items []models.PriceItem
		for _, p := range prices {
			if p.Avg == nil || !slices.Contains(category.GoodIDs, int(p.GoodID)) {
				continue
			}
			currency := p.Currency
			if currency == "" {
				currency = defaultCurrency
			}
			items = append(items, models.PriceItem{
				Name:     p.ItemName,
				Price:    score.Round2(*p.Avg),
				Currency: currency,
			})
		}
		if len(items) == 0 {
			continue
		}

		var sum float64
		for _, item := range items {
			sum += item.Price
		}
		detailed = append(detailed, models.CostCategory{
			Name:     category.Name,
			Products: items,
			Average:  score.Round2(sum / float64(len(items))),
		})
	}

	return detailed, nil
}

func (s *CostOfLivingScorer) fetchPrices(ctx context.Context, city, country string) ([]Price, error) {
	query := url.Values{}
	query.Set("city_name", city)
	query.Set("country_name", country)

	var resp pricesResponse
	if err := s.client.GetJSON(ctx, CostOfLivingURL, query, &resp); err != nil {
		return nil, err
	}

	return resp.Prices, nil
}
