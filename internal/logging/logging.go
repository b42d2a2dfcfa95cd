package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Pretty console output is used
// outside production; production logs are JSON lines.
func Setup(w io.Writer, level string, production bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if w == nil {
		w = os.Stderr
	}
	if !production {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}
