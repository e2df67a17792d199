package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service-wide structured logger. All services log
// JSON to stdout with the service name and hostname attached.
func New(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	hostname, _ := os.Hostname()

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname).
		Logger()
}
