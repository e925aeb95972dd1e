package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	// Environment Agency gauge endpoints.
	FarmoorURL        string
	FarmoorItemIndex  int
	IsisDownstreamURL string
	IsisUpstreamURL   string
	// CalibrationOffset is the site-specific level offset in the Isis
	// differential flow estimate.
	CalibrationOffset float64

	// OURC flag endpoints.
	FlagsIsisURL    string
	FlagsGodstowURL string

	// River conditions page with lock stream advice.
	BoardsURL string

	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
	NoColor     bool

	// Optional snapshot export; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional Prometheus textfile; disabled when empty.
	MetricsTextfile string
}

const eaBaseURL = "https://environment.data.gov.uk/flood-monitoring"

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	httpTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("HTTP_TIMEOUT", "10s"))
	if err != nil || httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	offset, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("CALIBRATION_OFFSET", "2.07"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CALIBRATION_OFFSET: %w", err)
	}

	itemIndex, err := strconv.Atoi(sharedcfg.EnvOrDefault("FARMOOR_ITEM_INDEX", "1"))
	if err != nil || itemIndex < 0 {
		return nil, errors.New("invalid FARMOOR_ITEM_INDEX")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		FarmoorURL:        sharedcfg.EnvOrDefault("FARMOOR_URL", eaBaseURL+"/id/stations/1100TH/readings?latest"),
		FarmoorItemIndex:  itemIndex,
		IsisDownstreamURL: sharedcfg.EnvOrDefault("ISIS_DOWNSTREAM_URL", eaBaseURL+"/id/measures/1302TH-level-downstage-i-15_min-mASD"),
		IsisUpstreamURL:   sharedcfg.EnvOrDefault("ISIS_UPSTREAM_URL", eaBaseURL+"/id/measures/1303TH-level-stage-i-15_min-mASD"),
		CalibrationOffset: offset,

		FlagsIsisURL:    sharedcfg.EnvOrDefault("FLAGS_ISIS_URL", "https://ourc.org.uk/wp-json/ourc_data/v1/flags/isis"),
		FlagsGodstowURL: sharedcfg.EnvOrDefault("FLAGS_GODSTOW_URL", "https://ourc.org.uk/wp-json/ourc_data/v1/flags/godstow"),

		BoardsURL: sharedcfg.EnvOrDefault("BOARDS_URL", "https://www.gov.uk/guidance/river-thames-current-river-conditions"),

		HTTPTimeout: httpTimeout,
		LogLevel:    sharedcfg.EnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:   sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		NoColor:     os.Getenv("NO_COLOR") != "",

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "river-conditions"),

		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}

	for name, v := range map[string]string{
		"FARMOOR_URL":         cfg.FarmoorURL,
		"ISIS_DOWNSTREAM_URL": cfg.IsisDownstreamURL,
		"ISIS_UPSTREAM_URL":   cfg.IsisUpstreamURL,
		"FLAGS_ISIS_URL":      cfg.FlagsIsisURL,
		"FLAGS_GODSTOW_URL":   cfg.FlagsGodstowURL,
		"BOARDS_URL":          cfg.BoardsURL,
	} {
		if u, err := url.Parse(v); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("%s must be an absolute http(s) URL", name)
		}
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether the report snapshot should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
