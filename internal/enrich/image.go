package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
)

// UnsplashSearchURL is the Unsplash photo search endpoint.
const UnsplashSearchURL = "https://api.unsplash.com/search/photos"

const imageExt = ".jpg"

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// ImageCache serves city background photos from a directory, fetching misses from Unsplash.
//
// Concurrent misses for the same city may both download and write the same file.
// The last write wins and both callers get a valid reference.
type ImageCache struct {
	dir       string
	publicURL string
	search    *upstream.Client
	download  *upstream.Client
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewImageCache creates an image cache rooted at dir. publicURL is the URL prefix under
// which dir is served, e.g. "/static/images".
func NewImageCache(
	dir, publicURL, accessKey string,
	client upstream.HTTPClient,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *ImageCache {
	header := http.Header{}
	header.Set("Authorization", "Client-ID "+accessKey)
	header.Set("Accept-Version", "v1")

	return &ImageCache{
		dir:       dir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		search:    upstream.NewClient("unsplash", client, header, log, metrics),
		download:  upstream.NewClient("unsplash_download", client, nil, log, metrics),
		log:       log,
		metrics:   metrics,
	}
}

// Dir returns the cache directory.
func (c *ImageCache) Dir() string {
	return c.dir
}

// CacheKey returns the file name a city's photo is stored under.
func CacheKey(city string) string {
	return url.PathEscape(strings.ToLower(strings.TrimSpace(city))) + imageExt
}

// Background returns the public reference of the city's photo, downloading it on a miss.
// It returns false when no photo could be obtained.
func (c *ImageCache) Background(ctx context.Context, city string) (string, bool) {
	if strings.TrimSpace(city) == "" {
		return "", false
	}

	key := CacheKey(city)
	file := filepath.Join(c.dir, key)
	// The key is stored escaped on disk, so the URL escapes it once more.
	ref := c.publicURL + "/" + url.PathEscape(key)

	if _, err := os.Stat(file); err == nil {
		c.metrics.CacheLookup(true)
		return ref, true
	}
	c.metrics.CacheLookup(false)

	if err := c.fetch(ctx, city, file); err != nil {
		c.log.WarnContext(ctx, "Failed to fetch background image", "city", city, "error", err)
		return "", false
	}

	c.log.InfoContext(ctx, "Cached background image", "city", city, "file", filepath.Base(file))
	return ref, true
}

func (c *ImageCache) fetch(ctx context.Context, city, file string) error {
	query := url.Values{}
	query.Set("query", city)
	query.Set("per_page", "1")
	query.Set("orientation", "landscape")
	query.Set("content_filter", "high")

	var resp unsplashSearchResponse
	if err := c.search.GetJSON(ctx, UnsplashSearchURL, query, &resp); err != nil {
		return err
	}
	if len(resp.Results) == 0 || resp.Results[0].URLs.Regular == "" {
		return fmt.Errorf("%w: no photo for %q", ErrNoResults, city)
	}

	data, err := c.download.Get(ctx, resp.Results[0].URLs.Regular, nil)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image cache dir: %w", err)
	}
	if err = os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cached image: %w", err)
	}

	return nil
}
