package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// radial ETL pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	DecodeErrors     prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Decode metrics.
	RadialsDecoded prometheus.Counter
	BinsPerRadial  prometheus.Histogram

	// Site lookup metrics.
	SiteLookups        *prometheus.CounterVec // labels: outcome={success,error,empty}
	SiteLookupCache    *prometheus.CounterVec // labels: result={hit,miss}
	SiteLookupDuration prometheus.Histogram
	SiteLookupEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "decode_errors_total",
			Help:      "Total radial product payloads that failed to decode.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RadialsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "radials_decoded_total",
			Help:      "Total radials successfully decoded from scan payloads.",
		}),
		BinsPerRadial: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "bins_per_radial",
			Help:      "Distribution of bin counts across decoded radials.",
			Buckets:   []float64{0, 58, 115, 230, 460, 920, 1840},
		}),
		SiteLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "site_lookups_total",
			Help:      "Radar site directory lookups by outcome.",
		}, []string{"outcome"}),
		SiteLookupCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "precip_etl",
			Name:      "site_lookup_cache_total",
			Help:      "Site directory cache lookups by result.",
		}, []string{"result"}),
		SiteLookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "precip_etl",
			Name:      "site_lookup_duration_seconds",
			Help:      "Radar station API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SiteLookupEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "precip_etl",
			Name:      "site_lookup_enabled",
			Help:      "1 when site enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.DecodeErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.RadialsDecoded,
		m.BinsPerRadial,
		m.SiteLookups,
		m.SiteLookupCache,
		m.SiteLookupDuration,
		m.SiteLookupEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "messages_produced_total"}),
		DecodeErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "decode_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "precip_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "batch_processing_duration_seconds"}),
		RadialsDecoded:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "precip_etl", Name: "radials_decoded_total"}),
		BinsPerRadial:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "bins_per_radial"}),
		SiteLookups:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "precip_etl", Name: "site_lookups_total"}, []string{"outcome"}),
		SiteLookupCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "precip_etl", Name: "site_lookup_cache_total"}, []string{"result"}),
		SiteLookupDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "precip_etl", Name: "site_lookup_duration_seconds"}),
		SiteLookupEnabled:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "precip_etl", Name: "site_lookup_enabled"}),
	}
}
