// Package logger holds the process-wide logger. Commands replace Log at
// startup; library code treats it as read-only.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger. It defaults to a no-op logger so that library
// use of the packages stays silent unless a host opts in.
var Log = zap.NewNop()

// NewConsoleLogger builds a console logger writing to stderr. With verbose
// set, debug output such as compilation decisions is included.
func NewConsoleLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return zap.Must(cfg.Build())
}
