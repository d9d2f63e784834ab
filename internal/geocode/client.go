// Package geocode holds the two upstream collaborators: ZIP to centroid and
// centroid to enclosing geographies. Both are single-shot calls with no retry;
// any non-success stops the in-flight resolution and is surfaced categorized.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"rep-api/internal/logger"
	"rep-api/internal/metrics"
)

var (
	// ErrBadZip rejects input that is not a 5-digit ZIP before any network call.
	ErrBadZip = errors.New("zip must be 5 digits")
	// ErrZipNotFound reports a well-formed ZIP the centroid service does not know.
	ErrZipNotFound = errors.New("zip not found")
	// ErrNoGeographies reports a coordinate the geography service returned nothing for.
	ErrNoGeographies = errors.New("no geography data for coordinate")
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Client calls both collaborators over one shared HTTP client. Base URLs and
// the district benchmark/vintage are env-overridable for tests and upgrades.
type Client struct {
	HTTP      *http.Client
	ZipBase   string
	GeoBase   string
	Benchmark string
	Vintage   string
}

// NewFromEnv builds a client from ZIP_API_BASE, GEO_API_BASE, GEO_BENCHMARK
// and GEO_VINTAGE, with current public defaults.
func NewFromEnv() *Client {
	c := &Client{
		HTTP:      &http.Client{Timeout: 8 * time.Second},
		ZipBase:   os.Getenv("ZIP_API_BASE"),
		GeoBase:   os.Getenv("GEO_API_BASE"),
		Benchmark: os.Getenv("GEO_BENCHMARK"),
		Vintage:   os.Getenv("GEO_VINTAGE"),
	}
	if c.ZipBase == "" {
		c.ZipBase = "https://api.zippopotam.us"
	}
	if c.GeoBase == "" {
		c.GeoBase = "https://geocoding.geo.census.gov/geocoder"
	}
	if c.Benchmark == "" {
		c.Benchmark = "Public_AR_Current"
	}
	if c.Vintage == "" {
		c.Vintage = "Current_Current"
	}
	return c
}

// zipResponse covers only the fields consumed from the centroid service;
// coordinates arrive as strings.
type zipResponse struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// ZipCentroid resolves a ZIP to its representative coordinate.
func (c *Client) ZipCentroid(ctx context.Context, zip string) (lat, lon float64, err error) {
	if !zipPattern.MatchString(zip) {
		return 0, 0, ErrBadZip
	}
	u := c.ZipBase + "/us/" + zip
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}
	t0 := time.Now()
	metrics.GeocodeRequestsTotal.WithLabelValues("zip").Inc()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.GeocodeFailTotal.WithLabelValues("zip").Inc()
		logger.L().Error("zip_http_error", "zip", zip, "err", err)
		return 0, 0, fmt.Errorf("zip lookup: %w", err)
	}
	defer resp.Body.Close()
	metrics.GeocodeDurationMs.WithLabelValues("zip").Observe(float64(time.Since(t0).Milliseconds()))
	if resp.StatusCode == http.StatusNotFound {
		metrics.GeocodeFailTotal.WithLabelValues("zip").Inc()
		return 0, 0, fmt.Errorf("%w: %s", ErrZipNotFound, zip)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailTotal.WithLabelValues("zip").Inc()
		return 0, 0, fmt.Errorf("zip lookup: status %d", resp.StatusCode)
	}
	var zr zipResponse
	if err := json.NewDecoder(resp.Body).Decode(&zr); err != nil {
		metrics.GeocodeFailTotal.WithLabelValues("zip").Inc()
		logger.L().Error("zip_decode_error", "zip", zip, "err", err)
		return 0, 0, fmt.Errorf("zip lookup: %w", err)
	}
	if len(zr.Places) == 0 {
		metrics.GeocodeFailTotal.WithLabelValues("zip").Inc()
		return 0, 0, fmt.Errorf("%w: %s", ErrZipNotFound, zip)
	}
	lat, latErr := strconv.ParseFloat(zr.Places[0].Latitude, 64)
	lon, lonErr := strconv.ParseFloat(zr.Places[0].Longitude, 64)
	if latErr != nil || lonErr != nil {
		metrics.GeocodeFailTotal.WithLabelValues("zip").Inc()
		return 0, 0, fmt.Errorf("zip lookup: bad coordinate for %s", zip)
	}
	logger.L().Debug("zip_centroid", "zip", zip, "lat", lat, "lon", lon)
	return lat, lon, nil
}

// geoResponse mirrors the geography service envelope; the geographies mapping
// is kept loosely typed because its keys and fields vary by vintage.
type geoResponse struct {
	Result struct {
		Geographies map[string]any `json:"geographies"`
	} `json:"result"`
}

// Geographies resolves a coordinate to its enclosing boundaries, returning
// the raw geographies mapping for the extractor to reconcile.
func (c *Client) Geographies(ctx context.Context, lat, lon float64) (map[string]any, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("y", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("benchmark", c.Benchmark)
	q.Set("vintage", c.Vintage)
	q.Set("format", "json")
	u := c.GeoBase + "/geographies/coordinates?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	t0 := time.Now()
	metrics.GeocodeRequestsTotal.WithLabelValues("geographies").Inc()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.GeocodeFailTotal.WithLabelValues("geographies").Inc()
		logger.L().Error("geographies_http_error", "lat", lat, "lon", lon, "err", err)
		return nil, fmt.Errorf("geography lookup: %w", err)
	}
	defer resp.Body.Close()
	metrics.GeocodeDurationMs.WithLabelValues("geographies").Observe(float64(time.Since(t0).Milliseconds()))
	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailTotal.WithLabelValues("geographies").Inc()
		return nil, fmt.Errorf("geography lookup: status %d", resp.StatusCode)
	}
	var gr geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		metrics.GeocodeFailTotal.WithLabelValues("geographies").Inc()
		logger.L().Error("geographies_decode_error", "err", err)
		return nil, fmt.Errorf("geography lookup: %w", err)
	}
	if len(gr.Result.Geographies) == 0 {
		metrics.GeocodeFailTotal.WithLabelValues("geographies").Inc()
		return nil, fmt.Errorf("%w: %.4f,%.4f", ErrNoGeographies, lat, lon)
	}
	logger.L().Debug("geographies_resp", "lat", lat, "lon", lon, "collections", len(gr.Result.Geographies))
	return gr.Result.Geographies, nil
}
