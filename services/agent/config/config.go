package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Supported stats source kinds
const (
	SourceCommand = "command"
	SourceHTTP    = "http"
)

// Supported reporter kinds
const (
	ReporterNewRelic    = "newrelic"
	ReporterAggregation = "aggregation"
)

// StatsConfig defines where the Varnish counters are read from
type StatsConfig struct {
	Source           string `toml:"Source"`
	VarnishstatPath  string `toml:"VarnishstatPath"`
	Instance         string `toml:"Instance"`
	URL              string `toml:"URL"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// ReportConfig defines the metrics backend the classified metrics are pushed to
type ReportConfig struct {
	Kind             string `toml:"Kind"`
	Endpoint         string `toml:"Endpoint"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
	NumAggregation   int    `toml:"NumAggregation"`
}

// Config maps to the config.toml file for the Varnish agent
type Config struct {
	Name                  string            `toml:"Name"`
	PollIntervalInSeconds uint32            `toml:"PollIntervalInSeconds"`
	CatalogFile           string            `toml:"CatalogFile"`
	Stats                 StatsConfig       `toml:"Stats"`
	Report                ReportConfig      `toml:"Report"`
	Labels                map[string]string `toml:"Labels"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}

// Validate checks the values that can not be defaulted
func (cfg *Config) Validate() error {
	if len(cfg.Name) == 0 {
		return fmt.Errorf("%w: empty agent name", ErrInvalidConfig)
	}
	if cfg.PollIntervalInSeconds == 0 {
		return fmt.Errorf("%w: PollIntervalInSeconds should be positive", ErrInvalidConfig)
	}

	switch cfg.Stats.Source {
	case SourceCommand:
	case SourceHTTP:
		if len(cfg.Stats.URL) == 0 {
			return fmt.Errorf("%w: empty Stats.URL for the http source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown stats source '%s'", ErrInvalidConfig, cfg.Stats.Source)
	}

	switch cfg.Report.Kind {
	case ReporterNewRelic, ReporterAggregation:
	default:
		return fmt.Errorf("%w: unknown reporter kind '%s'", ErrInvalidConfig, cfg.Report.Kind)
	}
	if len(cfg.Report.Endpoint) == 0 {
		return fmt.Errorf("%w: empty Report.Endpoint", ErrInvalidConfig)
	}

	return nil
}
