package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrInvalidLevel = errors.New("logging: invalid level")

// Options selects where log lines go. Console gets colored human output,
// File gets plain JSON lines. Either may be nil.
type Options struct {
	Level   string
	Console io.Writer
	NoColor bool
	File    io.Writer
}

// ParseLevel maps a case-insensitive level name to a zerolog level.
// An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "DISABLED", "OFF":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// Setup builds the process logger.
func Setup(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		})
	}
	if opts.File != nil {
		writers = append(writers, opts.File)
	}
	if len(writers) == 0 {
		return zerolog.Nop(), nil
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}

// OpenLogFile creates logsDir if needed and opens a fresh log file in it.
func OpenLogFile(logsDir, name string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(LogFilePath(logsDir, name, sessionStart), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
