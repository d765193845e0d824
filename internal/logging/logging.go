// Package logging configures the ambient zap logger used for debug chatter
// that must never reach stdout/stderr directly: GUI-backend failures,
// lock-contention polling, and script-hook output (spec §7 propagation
// policy).
//
// Grounded on the teacher's internal/cli/cmd/root.go setupLogger: a
// zap.Config switched between development/production profiles, writing to
// a file under the application's own directory rather than the console.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the debug logger. verbose mirrors the teacher's --verbose flag
// (development config, human-readable, console-visible at debug level);
// otherwise logs are written only to logDir/clipboard.log at info level,
// keeping stdout/stderr clean for clipboard content and user-facing
// reporting.
func New(logDir string, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		return cfg.Build()
	}

	cfg = zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		cfg.OutputPaths = []string{filepath.Join(logDir, "clipboard.log")}
		cfg.ErrorOutputPaths = []string{filepath.Join(logDir, "clipboard.log")}
	} else {
		cfg.OutputPaths = nil
		cfg.ErrorOutputPaths = nil
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// Noop returns a logger that discards everything, used when the persistent
// root can't be resolved yet (e.g. during early flag parsing) or in tests.
func Noop() *zap.Logger { return zap.NewNop() }
