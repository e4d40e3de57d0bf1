package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaSourceTopic string   `envconfig:"KAFKA_SOURCE_TOPIC" default:"raw-radial-scans"`
	KafkaSinkTopic   string   `envconfig:"KAFKA_SINK_TOPIC" default:"decoded-radial-scans"`
	KafkaGroupID     string   `envconfig:"KAFKA_GROUP_ID" default:"precip-radial-etl"`

	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	BatchSize          int           `envconfig:"BATCH_SIZE" default:"50"`
	BatchFlushInterval time.Duration `envconfig:"BATCH_FLUSH_INTERVAL" default:"500ms"`

	// Radar site enrichment configuration.
	SiteInfoEnabled   bool          `envconfig:"SITEINFO_ENABLED" default:"false"`
	SiteInfoBaseURL   string        `envconfig:"SITEINFO_BASE_URL" default:"https://api.weather.gov/radar/stations"`
	SiteInfoTimeout   time.Duration `envconfig:"SITEINFO_TIMEOUT" default:"5s"`
	SiteInfoCacheSize int           `envconfig:"SITEINFO_CACHE_SIZE" default:"64"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("BATCH_SIZE must be positive")
	}
	if cfg.BatchFlushInterval <= 0 {
		return nil, errors.New("BATCH_FLUSH_INTERVAL must be positive")
	}
	if cfg.SiteInfoEnabled {
		if cfg.SiteInfoBaseURL == "" {
			return nil, errors.New("SITEINFO_ENABLED is true but SITEINFO_BASE_URL is not set")
		}
		if cfg.SiteInfoTimeout <= 0 {
			return nil, errors.New("SITEINFO_TIMEOUT must be positive")
		}
		if cfg.SiteInfoCacheSize <= 0 {
			return nil, errors.New("SITEINFO_CACHE_SIZE must be positive")
		}
	}

	return &cfg, nil
}
