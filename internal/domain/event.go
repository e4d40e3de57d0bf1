package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// RadialSummary is the per-radial portion of the output event: the decoded
// header angles plus rate statistics over the radial's bins.
type RadialSummary struct {
	AzimuthDeg   float32 `json:"azimuth_deg"`
	WidthDeg     float32 `json:"width_deg"`
	NumBins      int     `json:"num_bins"`
	MaxRateInHr  float32 `json:"max_rate_in_hr"`
	MeanRateInHr float32 `json:"mean_rate_in_hr"`
}

// ScanEvent is the domain-rich representation of one decoded elevation scan.
type ScanEvent struct {
	ID           string          `json:"id"`
	Station      string          `json:"station"`
	ElevationDeg float32         `json:"elevation_deg"`
	NumRadials   int             `json:"num_radials"`
	TotalBins    int             `json:"total_bins"`
	MaxRateInHr  float32         `json:"max_rate_in_hr"`
	MaxRateMmHr  float32         `json:"max_rate_mm_hr"`
	Radials      []RadialSummary `json:"radials"`
	CollectedAt  time.Time       `json:"collected_at"`

	// Site enrichment fields.
	SiteName       string  `json:"site_name,omitempty"`
	SiteLat        float64 `json:"site_lat,omitempty"`
	SiteLon        float64 `json:"site_lon,omitempty"`
	SiteElevationM float64 `json:"site_elevation_m,omitempty"`
	SiteSource     string  `json:"site_source,omitempty"` // "nws", "none", "failed"

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
