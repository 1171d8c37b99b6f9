// Package logger provides a singleton structured logger backed by zerolog.
//
// Initialise once at startup with Init and pass the returned logger down.
//
//	TRACE (-1) → DEBUG (0) → INFO (1) → WARN (2) → ERROR (3)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
)

const (
	fileRotation  = 24 * time.Hour
	fileRetention = 7 * 24 * time.Hour
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty enables human-friendly console output (coloured, text-based).
	// Use false in production to emit pure JSON.
	Pretty bool
	// Output is the writer logs are sent to. Defaults to os.Stdout.
	Output io.Writer
	// File, when set, additionally writes JSON logs to a daily rotated file.
	// The path itself is kept as a symlink to the current file.
	File string
}

var (
	instance zerolog.Logger
	once     sync.Once
	fileSink io.Closer
)

// Init initialises the singleton logger. Safe to call multiple times – only
// the first call has any effect (singleton guarantee via sync.Once).
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		var fileErr error
		if opts.File != "" {
			rl, err := openRotating(opts.File)
			if err != nil {
				fileErr = err
			} else {
				fileSink = rl
				out = zerolog.MultiLevelWriter(out, rl)
			}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Caller().
			Logger()

		if fileErr != nil {
			instance.Warn().Err(fileErr).Str("file", opts.File).Msg("log file disabled")
		}
	})
	return instance
}

// Close releases the log file, if any.
func Close() error {
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	return err
}

// Reset tears down the singleton so that the next Init call rebuilds it.
// Intended for use in tests only.
func Reset() {
	_ = Close()
	once = sync.Once{}
	instance = zerolog.Logger{}
}

func openRotating(path string) (*rotatelogs.RotateLogs, error) {
	rl, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(fileRotation),
		rotatelogs.WithMaxAge(fileRetention),
	)
	if err != nil {
		return nil, fmt.Errorf("open rotating log %s: %w", path, err)
	}
	return rl, nil
}

// parseLevel converts a string to a zerolog.Level.
//
//	"trace" → TraceLevel (-1)
//	"debug" → DebugLevel ( 0)
//	"info"  → InfoLevel  ( 1)  ← default
//	"warn"  → WarnLevel  ( 2)
//	"error" → ErrorLevel ( 3)
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
