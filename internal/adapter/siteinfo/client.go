// Package siteinfo resolves radar station IDs to site metadata through the
// NWS radar-stations API, with an LRU-cached decorator for the pipeline's
// hot path.
package siteinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/precip-radial-etl/internal/domain"
	"github.com/couchcryptid/precip-radial-etl/internal/observability"
)

// Client implements domain.SiteDirectory using the NWS radar stations API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a radar-stations API client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup fetches metadata for one radar station. A 404 yields an empty Site
// and no error, so unknown stations degrade to unenriched events.
func (c *Client) Lookup(ctx context.Context, stationID string) (domain.Site, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(stationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Site{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.SiteLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.SiteLookups.WithLabelValues("error").Inc()
		return domain.Site{}, fmt.Errorf("station request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.SiteLookups.WithLabelValues("empty").Inc()
		return domain.Site{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.SiteLookups.WithLabelValues("error").Inc()
		return domain.Site{}, fmt.Errorf("stations API error: status %d: %s", resp.StatusCode, body)
	}

	var stationResp response
	if err := json.NewDecoder(resp.Body).Decode(&stationResp); err != nil {
		c.metrics.SiteLookups.WithLabelValues("error").Inc()
		return domain.Site{}, fmt.Errorf("decode response: %w", err)
	}

	site := domain.Site{
		ID:         stationResp.Properties.ID,
		Name:       stationResp.Properties.Name,
		ElevationM: stationResp.Properties.Elevation.Value,
	}
	if len(stationResp.Geometry.Coordinates) == 2 {
		// GeoJSON uses lon,lat order.
		site.Lon = stationResp.Geometry.Coordinates[0]
		site.Lat = stationResp.Geometry.Coordinates[1]
	}

	c.metrics.SiteLookups.WithLabelValues("success").Inc()
	return site, nil
}

// NWS API response types (GeoJSON feature).

type response struct {
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Elevation elevation `json:"elevation"`
}

type elevation struct {
	Value float64 `json:"value"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}
