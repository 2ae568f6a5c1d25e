package testhelp

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger returns a JSON logger tagged for tests. Set TEST_LOGS=1 to see the output.
func Logger() *zerolog.Logger {
	var w io.Writer = io.Discard
	if os.Getenv("TEST_LOGS") != "" {
		w = os.Stdout
	}

	log := zerolog.New(w).With().
		Timestamp().
		Str("service", "routeCache").
		Str("env", "test").
		Logger()
	return &log
}

// CapturingLogger writes into the returned buffer so tests can assert on log lines.
func CapturingLogger() (*zerolog.Logger, *SyncBuffer) {
	buf := &SyncBuffer{}
	log := zerolog.New(buf).With().Str("env", "test").Logger()
	return &log, buf
}
