package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/precip-radial-etl/internal/product"
	"github.com/couchcryptid/precip-radial-etl/internal/units"
)

// ParseRawEvent decodes a RawEvent's value as one elevation scan and builds
// the domain-rich ScanEvent. Decode failures propagate unchanged so the
// pipeline can count and skip the message; no partial event is produced.
func ParseRawEvent(raw RawEvent) (ScanEvent, error) {
	scan, rest, err := product.DecodeScan(raw.Value)
	if err != nil {
		return ScanEvent{}, fmt.Errorf("parse raw event: %w", err)
	}
	if len(rest) > 0 {
		return ScanEvent{}, fmt.Errorf("parse raw event: %d trailing bytes after scan", len(rest))
	}

	station := raw.Headers["station"]
	if station == "" {
		station = string(raw.Key)
	}

	event := ScanEvent{
		ID:          generateID(station, raw.Timestamp, len(scan.Radials)),
		Station:     station,
		NumRadials:  len(scan.Radials),
		Radials:     make([]RadialSummary, 0, len(scan.Radials)),
		CollectedAt: raw.Timestamp,
		RawPayload:  raw.Value,
		ProcessedAt: clock.Now(),
	}
	if len(scan.Radials) > 0 {
		event.ElevationDeg = scan.Radials[0].Elevation.Degrees()
	}

	var maxRate float32
	for _, r := range scan.Radials {
		summary := summarizeRadial(r)
		event.Radials = append(event.Radials, summary)
		event.TotalBins += summary.NumBins
		if summary.MaxRateInHr > maxRate {
			maxRate = summary.MaxRateInHr
		}
	}
	event.MaxRateInHr = maxRate
	event.MaxRateMmHr = units.InchesPerHour(maxRate).MillimetersPerHour()

	return event, nil
}

// summarizeRadial reduces a decoded radial to its header angles plus max and
// mean rate over its bins.
func summarizeRadial(r product.Radial) RadialSummary {
	s := RadialSummary{
		AzimuthDeg: r.Azimuth.Degrees(),
		WidthDeg:   r.Width.Degrees(),
		NumBins:    len(r.PrecipRates),
	}
	if len(r.PrecipRates) == 0 {
		return s
	}
	var sum float32
	for _, rate := range r.PrecipRates {
		v := rate.InchesPerHour()
		sum += v
		if v > s.MaxRateInHr {
			s.MaxRateInHr = v
		}
	}
	s.MeanRateInHr = sum / float32(len(r.PrecipRates))
	return s
}

// EnrichWithSite resolves the event's station through the directory and
// flattens the result into the event. Lookup failures degrade gracefully:
// the event keeps its decoded data and records a "failed" site source.
func EnrichWithSite(ctx context.Context, event ScanEvent, dir SiteDirectory, logger *slog.Logger) ScanEvent {
	if dir == nil || event.Station == "" {
		event.SiteSource = "none"
		return event
	}

	site, err := dir.Lookup(ctx, event.Station)
	if err != nil {
		logger.Warn("site lookup failed", "station", event.Station, "error", err)
		event.SiteSource = "failed"
		return event
	}
	if site.ID == "" {
		event.SiteSource = "none"
		return event
	}

	event.SiteName = site.Name
	event.SiteLat = site.Lat
	event.SiteLon = site.Lon
	event.SiteElevationM = site.ElevationM
	event.SiteSource = "nws"
	return event
}

// generateID produces a deterministic ID from the scan's key fields.
// Reprocessing the same raw event yields the same ID.
func generateID(station string, collectedAt time.Time, numRadials int) string {
	input := fmt.Sprintf("%s|%s|%d", station, collectedAt.UTC().Format(time.RFC3339), numRadials)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if station == "" {
		return short
	}
	return station + "-" + short
}
