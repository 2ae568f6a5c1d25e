package config

// RouteCfg is one row of the HTTP cache policy table.
type RouteCfg struct {
	Prefix       string `yaml:"prefix"`
	CacheControl string `yaml:"cache_control"`
	// Class is informational only: static, api, dynamic, html or default.
	Class string `yaml:"class"`
}
