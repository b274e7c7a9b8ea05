// Package telemetry wires the structured logger and metrics counters both
// render passes report through (spec 4.J), satisfying pkg/photon.Logger/
// Metrics and pkg/radiance.Logger/Metrics from the same concrete types so
// a single zap logger and a single prometheus registry serve both.
package telemetry

import (
	"go.uber.org/zap"
)

// Logger wraps a zap.SugaredLogger behind the Warnw(msg, keysAndValues...)
// shape both pkg/photon.Logger and pkg/radiance.Logger expect.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a Logger at the given level ("debug", "info", "warn",
// "error"); an unrecognized level falls back to info.
func NewLogger(level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// Warnw logs a warning with structured key-value pairs (spec 7's
// depth-exhaustion bias warnings).
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Infow logs an informational event with structured key-value pairs.
// Neither pkg/photon.Logger nor pkg/radiance.Logger require it; the CLI
// uses it directly for run-start/run-end bookkeeping.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Sync flushes any buffered log entries; call before process exit.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
