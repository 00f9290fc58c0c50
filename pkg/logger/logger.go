// Package logger holds the process-wide zerolog logger. Call Init once in
// main; everything else receives a zerolog.Logger by constructor.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level accepts zerolog level names ("warning" is read as warn).
	// Unknown or empty values fall back to info.
	Level string
	// Pretty switches to the coloured console writer for local runs.
	Pretty bool
	Output io.Writer
	// Service is stamped on every entry when set.
	Service string
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// Init builds the logger on the first call and returns the existing one on
// every later call.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl := levelOf(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	b := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		b = b.Str("service", opts.Service)
	}
	l := b.Logger()
	instance = &l
	return l
}

// Get returns the logger built by Init and panics without one.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Component is Get with a "component" field, for long-lived subsystems.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the logger so tests can Init again.
func Reset() {
	mu.Lock()
	instance = nil
	mu.Unlock()
}

func levelOf(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl == zerolog.NoLevel || lvl == zerolog.Disabled {
		return zerolog.InfoLevel
	}
	return lvl
}
