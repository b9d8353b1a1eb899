package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// string representation that directly corresponds to zerolog.Level
type (
	LogLevel string
)

const (
	DEBUG    LogLevel = "debug"
	INFO     LogLevel = "info"
	WARN     LogLevel = "warn"
	ERROR    LogLevel = "error"
	DISABLED LogLevel = "disabled"
	TRACE    LogLevel = "trace"
)

var Levels = [6]LogLevel{DEBUG, INFO, WARN, ERROR, DISABLED, TRACE}
var LogFile *os.File

func (ll LogLevel) String() string {
	return string(ll)
}

func (ll *LogLevel) Set(v string) error {
	switch LogLevel(strings.ToLower(v)) {
	case DEBUG, INFO, WARN, ERROR, DISABLED, TRACE:
		*ll = LogLevel(strings.ToLower(v))
		return nil
	default:
		return fmt.Errorf("must be one of %v", Levels)
	}
}

func (ll LogLevel) Type() string {
	return "LogLevel"
}

// InitWithLogLevel() replaces the global zerolog logger with one that writes
// human-readable lines to stderr and, when logPath is set, JSON lines to
// that file.
func InitWithLogLevel(logLevel LogLevel, logPath string) error {
	return initWithWriter(logLevel, logPath, os.Stderr)
}

func initWithWriter(logLevel LogLevel, logPath string, console io.Writer) error {
	var (
		level   zerolog.Level
		writers []io.Writer
		err     error
	)

	level, err = strToLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to convert log level: %w", err)
	}

	writers = append(writers, zerolog.ConsoleWriter{Out: console, NoColor: console != os.Stderr})

	// add another writer to write to a log file
	if logPath != "" {
		LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, LogFile)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return nil
}

// Close() releases the log file opened by InitWithLogLevel(), if any.
func Close() error {
	if LogFile == nil {
		return nil
	}
	err := LogFile.Close()
	LogFile = nil
	return err
}

func strToLogLevel(ll LogLevel) (zerolog.Level, error) {
	if index := slices.Index(Levels[:], ll); index >= 0 {
		// handle special cases to map index to DISABLED and TRACE
		switch index {
		case 4:
			return zerolog.Disabled, nil
		case 5:
			return zerolog.TraceLevel, nil
		}
		return zerolog.Level(index), nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level %q (options: %v)", ll, Levels)
}
