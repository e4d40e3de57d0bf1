package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/precip-radial-etl/internal/domain"
	"github.com/couchcryptid/precip-radial-etl/internal/observability"
)

// ScanTransformer implements Transformer by decoding the binary scan payload
// and optionally enriching the result with radar site metadata.
type ScanTransformer struct {
	sites   domain.SiteDirectory
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ScanTransformer. Pass a nil directory to disable
// site enrichment.
func NewTransformer(sites domain.SiteDirectory, logger *slog.Logger, metrics *observability.Metrics) *ScanTransformer {
	return &ScanTransformer{
		sites:   sites,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ScanTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	event, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.metrics.RadialsDecoded.Add(float64(event.NumRadials))
	for _, r := range event.Radials {
		t.metrics.BinsPerRadial.Observe(float64(r.NumBins))
	}

	event = domain.EnrichWithSite(ctx, event, t.sites, t.logger)

	return serializeEvent(event)
}

// serializeEvent marshals a ScanEvent into the sink message form.
func serializeEvent(event domain.ScanEvent) (domain.OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("serialize scan event: %w", err)
	}
	return domain.OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"station":      event.Station,
			"processed_at": event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
