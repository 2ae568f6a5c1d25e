package main

import (
	"io"
	"os"
	"time"

	"github.com/Borislavv/go-route-cache/config"
	"github.com/rs/zerolog"
)

func newLogger(cfg config.LogCfg) *zerolog.Logger {
	return newLoggerTo(os.Stdout, cfg)
}

func newLoggerTo(w io.Writer, cfg config.LogCfg) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == config.LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "routeCache").
		Logger()
	return &logger
}
