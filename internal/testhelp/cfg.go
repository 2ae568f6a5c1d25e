package testhelp

import (
	"time"

	"github.com/Borislavv/go-route-cache/config"
)

// Cfg is a small-budget config without background components.
func Cfg() *config.Cache {
	c := &config.Cache{
		Store: config.StoreCfg{
			MaxMemorySize: 1000,
			MaxEntryRatio: 0.10,
			DefaultTTL:    5 * time.Minute,
		},
	}
	c.AdjustConfig()
	return c
}

func MaintenanceCfg() *config.Cache {
	c := Cfg()
	c.Maintenance = &config.MaintenanceCfg{
		SweepInterval:  5 * time.Minute,
		WarmupInterval: time.Hour,
		WarmupDelay:    5 * time.Second,
		WarmupRate:     1000,
	}
	c.AdjustConfig()
	return c
}

func EvictionCfg() *config.Cache {
	c := Cfg()
	c.Store.MaxMemorySize = 10 * 1024 * 1024
	c.Eviction = &config.EvictionCfg{
		SoftLimitCoefficient: 0.8,
		CallsPerSec:          20,
	}
	c.AdjustConfig()
	return c
}
