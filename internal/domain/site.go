package domain

import "context"

// Site describes a radar installation: identifier, human-readable name, and
// WGS-84 position with elevation in meters.
type Site struct {
	ID         string
	Name       string
	Lat        float64
	Lon        float64
	ElevationM float64
}

// SiteDirectory resolves a station ID to its radar site metadata.
type SiteDirectory interface {
	Lookup(ctx context.Context, stationID string) (Site, error)
}
