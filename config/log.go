package config

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type LogCfg struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
