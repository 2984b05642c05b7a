// Package log builds the validator's structured zerolog loggers. There
// is no package-level global logger: the launcher builds one base
// logger with Init, and each collaborator receives its own
// component-tagged child via WithComponent.
package log

import (
	"os"

	"github.com/rs/zerolog"
)

// Init builds the base logger: a colored console writer by default, or
// plain JSON when jsonOutput is set (for log aggregation). level is one
// of debug/info/warn/error; anything else defaults to info.
func Init(level string, jsonOutput bool) zerolog.Logger {
	lvl := parseLevel(level)
	if jsonOutput {
		return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(lvl).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent tags base with the subsystem it belongs to (gossip,
// consensus, node, ...).
func WithComponent(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

// WithValidator tags base with this node's public key, so every line it
// logs can be attributed to one validator when reading pooled output
// from several nodes.
func WithValidator(base zerolog.Logger, pubkeyHex string) zerolog.Logger {
	return base.With().Str("validator", pubkeyHex).Logger()
}
