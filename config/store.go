package config

import "time"

type StoreCfg struct {
	// MaxMemorySize is the hard memory budget in bytes. After every Set the sum of entry sizes
	// stays at or below this value. Default: 100 MiB.
	MaxMemorySize int64 `yaml:"max_memory_size"`

	// MaxEntryRatio caps a single entry at MaxEntryRatio * MaxMemorySize bytes.
	// Larger values are rejected by Set without touching the store. Default: 0.10.
	MaxEntryRatio float64 `yaml:"max_entry_ratio"`

	// DefaultTTL is used by SetDefault. Default: 5m.
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// MaxEntrySize is the admission threshold in bytes.
func (cfg StoreCfg) MaxEntrySize() int64 {
	return int64(float64(cfg.MaxMemorySize) * cfg.MaxEntryRatio)
}
