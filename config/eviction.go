package config

const defaultSoftLimitCoefficient = 0.8

type EvictionCfg struct {
	// SoftLimitCoefficient defines the soft memory usage threshold as a fraction of Store.MaxMemorySize.
	// When memory usage exceeds this limit, the background evictor removes least recently used
	// entries until usage is back under it.
	//
	// Example:
	//   SoftLimitCoefficient: 0.80 // start evicting after reaching 80% of Store.MaxMemorySize
	SoftLimitCoefficient float64 `yaml:"soft_limit_coefficient"`

	// SoftMemoryLimitBytes is derived during initialization from Store.MaxMemorySize and SoftLimitCoefficient.
	// It is not read from YAML.
	SoftMemoryLimitBytes int64 `yaml:"-"` // virtual: computed during init (bytes)

	// CallsPerSec defines how many times per second the evictor checks the soft limit.
	CallsPerSec int64 `yaml:"calls_per_sec"`
}

func (cfg *EvictionCfg) Enabled() bool {
	return cfg != nil
}
