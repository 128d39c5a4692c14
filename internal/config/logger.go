package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logFileName = "notes.log"

// InitLogger configures the global zerolog logger for plain text output.
func InitLogger(w io.Writer, level string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})
	SetLogLevel(level, debug)
}

// SetLogLevel sets the global level; debug forces DebugLevel and unknown
// names fall back to WarnLevel.
func SetLogLevel(level string, debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// OpenLogFile opens the log file in the home directory for appending. The
// dashboard logs there so output does not tear the alternate screen.
func (c *Config) OpenLogFile() (*os.File, error) {
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return nil, errors.Wrap(err, "mkdir")
	}
	f, err := os.OpenFile(filepath.Join(c.Home, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	return f, nil
}
