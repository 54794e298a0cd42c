// Package logger holds the process-wide zerolog logger.
//
// main calls Init once; everything else calls Get, or ForRequest when the
// line belongs to a request.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestIDField is the key request-scoped lines carry the request id under.
const RequestIDField = "request_id"

// Options configures Init.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else is info.
	Level string
	// Pretty switches to zerolog's console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu     sync.RWMutex
	root   *zerolog.Logger
	silent = zerolog.Nop()
)

// Init builds the logger on first call and returns it. Later calls return
// the existing logger and ignore opts.
func Init(opts Options) *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		return root
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).Level(parseLevel(opts.Level)).With().Timestamp().Logger()
	root = &l
	return root
}

// Get returns the logger, or a disabled one before Init.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if root == nil {
		return &silent
	}
	return root
}

// ForRequest returns a child logger tagged with the request id. An empty id
// yields the plain logger.
func ForRequest(requestID string) *zerolog.Logger {
	base := Get()
	if requestID == "" {
		return base
	}
	l := base.With().Str(RequestIDField, requestID).Logger()
	return &l
}

// Reset forgets the logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	root = nil
	mu.Unlock()
}

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
