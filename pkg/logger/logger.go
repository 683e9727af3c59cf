// Package logx configures the process-global zerolog logger. Packages log
// through zerolog's global log.Logger; Init runs once at startup via
// pkg/logger/autoload with knobs read from LOG_* environment variables.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config carries the logging knobs, resolved from LOG_DEBUG and
// LOG_PRETTY_FORMAT by the autoload package.
type Config struct {
	// Debug lowers the global level from info to debug.
	Debug bool `split_words:"true" default:"false"`

	// PrettyFormat swaps JSON lines for the human console writer, meant
	// for local interactive runs of the agent loop.
	PrettyFormat bool `split_words:"true" default:"false"`
}

// Init replaces the global logger according to conf.
func Init(conf Config) {
	log.Logger = New(conf, os.Stdout)
}

// New builds a configured logger writing to w.
func New(conf Config, w io.Writer) zerolog.Logger {
	if conf.PrettyFormat {
		w = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) { cw.Out = w })
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Caller().Stack().Logger()
}
