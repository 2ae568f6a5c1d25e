package config

import "time"

type MaintenanceCfg struct {
	// SweepInterval defines how often expired entries are purged in background.
	// Example: "5m".
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// WarmupInterval defines how often registered warm-up producers are invoked.
	// Example: "1h".
	WarmupInterval time.Duration `yaml:"warmup_interval"`

	// WarmupDelay postpones the first warm-up run so it does not compete with startup work.
	// Example: "5s".
	WarmupDelay time.Duration `yaml:"warmup_delay"`

	// WarmupRate limits how many producers are started per second within one warm-up run.
	// Producers usually hit the database, so a burst of them at once is undesirable.
	WarmupRate int `yaml:"warmup_rate"`
}

func (cfg *MaintenanceCfg) Enabled() bool {
	return cfg != nil
}
