// Package logging configures structured logging for art-explorer using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"

	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "disabled"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	// Standard output is reserved for rendered results and MCP traffic.
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	level, err := ParseLevel(string(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// ParseLevel converts a level name to a zerolog.Level. Unknown names are
// an error so configuration mistakes surface at startup.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Request flow
//   - Catalog request start and completion (endpoint, duration)
//   - Render worker completion
//
// Info: Normal operation events
//   - Search results replaced (keyword, results)
//   - Empty search results
//   - Page rendered (page, items, failed, duration)
//   - Server and MCP startup/shutdown
//
// Warn: Conditions that degrade one item but not the page
//   - Catalog request failures (logged by the client before returning)
//   - Artwork detail failed (error placeholder shown)
//   - Image unavailable, rendering text only
//
// Error: Conditions the user sees as a failed operation
//   - Search failed
//   - Session store failures
//   - Server errors
//
// Context Fields:
//   - component: catalog-client, renderer, session, httpapi, mcp
//   - op: search, detail, image
//   - endpoint: catalog request URL
//   - status: HTTP status code
//   - error_class: client, server, network, timeout, decode
//   - object_id: catalog object identifier
//   - keyword: search keyword
//   - page: page number
//   - duration: request or render duration
//   - session_id: HTTP session identifier
