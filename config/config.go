package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxMemorySize  int64 = 100 * 1024 * 1024
	DefaultMaxEntryRatio        = 0.10
	DefaultTTL                  = 5 * time.Minute
	DefaultSweepInterval        = 5 * time.Minute
	DefaultWarmupInterval       = time.Hour
	DefaultWarmupDelay          = 5 * time.Second
	DefaultWarmupRate           = 10
)

// Cache groups configuration of all cache subsystems.
// Optional components are disabled by leaving their section nil.
type Cache struct {
	Store StoreCfg `yaml:"store"`

	// Maintenance configures the expired-entries sweep and the warm-up producers.
	// If nil, no background maintenance runs and expired entries are removed lazily only.
	Maintenance *MaintenanceCfg `yaml:"maintenance"`

	// Eviction configures the background soft-limit evictor.
	// If nil, eviction happens only inside Set when the hard budget is exceeded.
	Eviction *EvictionCfg `yaml:"eviction"`

	// Telemetry configures periodic stats logging. If nil, nothing is logged periodically.
	Telemetry *TelemetryCfg `yaml:"telemetry"`

	// Routes overrides the HTTP cache policy table. Order matters: the first matching prefix wins.
	// If empty, the built-in table is used.
	Routes []RouteCfg `yaml:"routes"`

	Log LogCfg `yaml:"log"`
}

// Default returns a config with every section populated by its defaults.
func Default() *Cache {
	cfg := &Cache{
		Maintenance: &MaintenanceCfg{},
	}
	cfg.AdjustConfig()
	return cfg
}

// AdjustConfig fills zero values with defaults and computes virtual fields.
func (cfg *Cache) AdjustConfig() {
	if cfg.Store.MaxMemorySize <= 0 {
		cfg.Store.MaxMemorySize = DefaultMaxMemorySize
	}
	if cfg.Store.MaxEntryRatio <= 0 {
		cfg.Store.MaxEntryRatio = DefaultMaxEntryRatio
	}
	if cfg.Store.DefaultTTL <= 0 {
		cfg.Store.DefaultTTL = DefaultTTL
	}

	if cfg.Maintenance.Enabled() {
		if cfg.Maintenance.SweepInterval <= 0 {
			cfg.Maintenance.SweepInterval = DefaultSweepInterval
		}
		if cfg.Maintenance.WarmupInterval <= 0 {
			cfg.Maintenance.WarmupInterval = DefaultWarmupInterval
		}
		if cfg.Maintenance.WarmupDelay <= 0 {
			cfg.Maintenance.WarmupDelay = DefaultWarmupDelay
		}
		if cfg.Maintenance.WarmupRate <= 0 {
			cfg.Maintenance.WarmupRate = DefaultWarmupRate
		}
	}

	if cfg.Eviction.Enabled() {
		if cfg.Eviction.SoftLimitCoefficient <= 0 || cfg.Eviction.SoftLimitCoefficient > 1 {
			cfg.Eviction.SoftLimitCoefficient = defaultSoftLimitCoefficient
		}
		if cfg.Eviction.CallsPerSec <= 0 {
			cfg.Eviction.CallsPerSec = 1
		}
		cfg.Eviction.SoftMemoryLimitBytes = int64(float64(cfg.Store.MaxMemorySize) * cfg.Eviction.SoftLimitCoefficient)
	}

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = defaultTelemetryInterval
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = LogFormatJSON
	}
}

// Validate reports the first inconsistency found. It expects AdjustConfig to have been called.
func (cfg *Cache) Validate() error {
	if cfg.Store.MaxEntryRatio > 1 {
		return errors.Newf(errors.CodeInvalidConfig, "store.max_entry_ratio must be in (0, 1], got %v", cfg.Store.MaxEntryRatio)
	}
	for i, r := range cfg.Routes {
		if r.Prefix == "" {
			return errors.WithContext(errors.New(errors.CodeInvalidConfig, "route prefix is empty"), "route", i)
		}
		if r.CacheControl == "" {
			return errors.WithContext(errors.Newf(errors.CodeInvalidConfig, "route %q has no cache_control", r.Prefix), "route", i)
		}
	}
	switch cfg.Log.Format {
	case LogFormatJSON, LogFormatConsole:
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown log format %q", cfg.Log.Format)
	}
	return nil
}

func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Cache
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Cache{}
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
