package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

// DefaultWikipediaLanguage is used when no language is configured.
const DefaultWikipediaLanguage = "en"

type wikipediaSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ExtractHTML string `json:"extract_html"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// SummaryClient loads page summaries from the Wikipedia REST API.
type SummaryClient struct {
	client  *upstream.Client
	baseURL string
	policy  *bluemonday.Policy
	log     *slog.Logger
}

// NewSummaryClient creates a summary client for the given Wikipedia language edition.
func NewSummaryClient(client upstream.HTTPClient, lang string, log *slog.Logger, metrics *metrics.Metrics) *SummaryClient {
	if lang == "" {
		lang = DefaultWikipediaLanguage
	}

	header := http.Header{}
	header.Set("User-Agent", upstream.UserAgent)
	header.Set("Accept", "application/json")

	return &SummaryClient{
		client:  upstream.NewClient("wikipedia", client, header, log, metrics),
		baseURL: fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1/page/summary/", lang),
		policy:  bluemonday.UGCPolicy(),
		log:     log,
	}
}

// Summary returns the page summary for a city, or nil when unavailable.
// The HTML extract is sanitized before it is returned.
func (s *SummaryClient) Summary(ctx context.Context, city string) *models.Summary {
	title := strings.ReplaceAll(strings.TrimSpace(city), " ", "_")
	if title == "" {
		return nil
	}

	var resp wikipediaSummary
	if err := s.client.GetJSON(ctx, s.baseURL+url.PathEscape(title), nil, &resp); err != nil {
		s.log.WarnContext(ctx, "Failed to load summary", "city", city, "error", err)
		return nil
	}
	if resp.Extract == "" {
		s.log.WarnContext(ctx, "Summary has no extract", "city", city, "type", resp.Type)
		return nil
	}

	return &models.Summary{
		Title:       resp.Title,
		Extract:     resp.Extract,
		ExtractHTML: s.policy.Sanitize(resp.ExtractHTML),
		URL:         resp.ContentURLs.Desktop.Page,
	}
}
