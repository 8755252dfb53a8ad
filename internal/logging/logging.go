// Package logging configures the process-wide zerolog logger: a
// console writer for interactive runs, plain JSON for batch/background
// runs, grounded on intelligencedev-manifold's internal/observability
// logger initialization.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. interactive selects a
// human-readable console writer over stderr; otherwise output is plain
// JSON, suited to redirection into a batch run's stats alongside file.
func Init(interactive bool, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if interactive {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && level != "" {
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)
}
