package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dinehop/matchd/core/match"
)

// Config is the process-wide configuration.
type Config struct {
	Matching match.Config  `json:"matching"`
	Travel   TravelConfig  `json:"travel"`
	Metrics  MetricsConfig `json:"metrics"`
	HTTP     HTTPConfig    `json:"http"`
}

// TravelConfig points the travel estimator at the external geocoding and
// routing services.
type TravelConfig struct {
	GeocodeURL     string `json:"geocode_url"`
	RouteURL       string `json:"route_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (c *TravelConfig) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 10
	}
}

// MetricsConfig enables the optional InfluxDB match-event sink.
type MetricsConfig struct {
	InfluxEnabled bool   `json:"influx_enabled"`
	InfluxURL     string `json:"influx_url"`
	InfluxToken   string `json:"influx_token"`
	InfluxOrg     string `json:"influx_org"`
	InfluxBucket  string `json:"influx_bucket"`
}

// HTTPConfig configures the job-control HTTP surface.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Load reads the configuration file at path. JSON and YAML are supported,
// selected by extension. Environment variables prefixed with MATCHD_ override
// file values, with __ separating nesting levels.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("MATCHD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "matchd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Matching.SetDefaults()
	cfg.Travel.SetDefaults()
	cfg.HTTP.SetDefaults()
	if err := cfg.Matching.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
