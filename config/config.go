// Package config defines the engine configuration surface: source
// locations, query safety limits, NATS connectivity, and the metrics
// listener. Configuration is loaded from YAML with validated defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/larsgeorge/ontos-sub001/errors"
)

// Default engine limits.
const (
	DefaultMaxResults   = 1000
	DefaultQueryTimeout = Duration(10 * time.Second)
	DefaultRateLimit    = 10.0
	DefaultRateBurst    = 5
	DefaultMetricsPort  = 9090
	DefaultNATSURL      = "nats://127.0.0.1:4222"
	DefaultSubjectBase  = "ontos"
)

// Duration is a time.Duration that decodes from YAML strings like "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler, accepting both duration
// strings and bare nanosecond integers.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(v)
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the complete engine configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Engine  EngineConfig  `yaml:"engine"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SourcesConfig locates the graph's source material.
type SourcesConfig struct {
	// TaxonomyDir holds taxonomy files loaded on every rebuild.
	TaxonomyDir string `yaml:"taxonomy_dir"`
	// SchemaDir holds built-in schema files, always loaded.
	SchemaDir string `yaml:"schema_dir"`
	// Watch enables a filesystem watcher on SchemaDir that triggers a
	// debounced rebuild when files change.
	Watch bool `yaml:"watch"`
	// WatchDebounce is the quiet period before a watched change triggers
	// a rebuild.
	WatchDebounce Duration `yaml:"watch_debounce"`
}

// EngineConfig carries query safety limits.
type EngineConfig struct {
	// MaxResults caps the row count of a single query.
	MaxResults int `yaml:"max_results"`
	// QueryTimeout bounds the execution of a single query.
	QueryTimeout Duration `yaml:"query_timeout"`
	// RateLimit is the sustained queries-per-second allowance; zero
	// disables rate limiting.
	RateLimit float64 `yaml:"rate_limit"`
	// RateBurst is the burst size for the rate limiter.
	RateBurst int `yaml:"rate_burst"`
}

// NATSConfig defines the engine's messaging connection.
type NATSConfig struct {
	// Enabled turns the NATS service surface on.
	Enabled bool `yaml:"enabled"`
	// URL is the NATS server address.
	URL string `yaml:"url"`
	// SubjectBase prefixes every engine subject (e.g. "ontos.query").
	SubjectBase string `yaml:"subject_base"`
	// Name identifies this connection to the server.
	Name string `yaml:"name"`
}

// MetricsConfig defines the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads and validates a YAML configuration file. Defaults are
// applied before validation, so a minimal file is sufficient.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Config", "LoadFile", "read config file")
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Parse", "decode yaml")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.MaxResults == 0 {
		c.Engine.MaxResults = DefaultMaxResults
	}
	if c.Engine.QueryTimeout == 0 {
		c.Engine.QueryTimeout = DefaultQueryTimeout
	}
	if c.Engine.RateLimit == 0 {
		c.Engine.RateLimit = DefaultRateLimit
	}
	if c.Engine.RateBurst == 0 {
		c.Engine.RateBurst = DefaultRateBurst
	}
	if c.Sources.WatchDebounce == 0 {
		c.Sources.WatchDebounce = Duration(500 * time.Millisecond)
	}
	if c.NATS.URL == "" {
		c.NATS.URL = DefaultNATSURL
	}
	if c.NATS.SubjectBase == "" {
		c.NATS.SubjectBase = DefaultSubjectBase
	}
	if c.NATS.Name == "" {
		c.NATS.Name = "ontos-engine"
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Engine.MaxResults < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("max_results %d", c.Engine.MaxResults),
			"Config", "Validate", "max_results must not be negative")
	}
	if c.Engine.QueryTimeout < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("query_timeout %s", c.Engine.QueryTimeout.Std()),
			"Config", "Validate", "query_timeout must not be negative")
	}
	if c.Engine.RateLimit < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("rate_limit %f", c.Engine.RateLimit),
			"Config", "Validate", "rate_limit must not be negative")
	}
	if c.Engine.RateBurst < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("rate_burst %d", c.Engine.RateBurst),
			"Config", "Validate", "rate_burst must not be negative")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return errors.WrapInvalid(
			fmt.Errorf("port %d", c.Metrics.Port),
			"Config", "Validate", "metrics port out of range")
	}
	if c.Sources.Watch && c.Sources.SchemaDir == "" {
		return errors.WrapInvalid(
			fmt.Errorf("watch enabled without schema_dir"),
			"Config", "Validate", "watch requires sources.schema_dir")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.WrapInvalid(
			fmt.Errorf("nats enabled without url"),
			"Config", "Validate", "nats.url required when enabled")
	}
	return nil
}
