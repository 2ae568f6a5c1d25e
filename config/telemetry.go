package config

import "time"

const defaultTelemetryInterval = 30 * time.Second

type TelemetryCfg struct {
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
