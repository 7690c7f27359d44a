// Package logging builds the zap loggers used by the specfuzzer commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger at level writing to file, or to stderr when file
// is empty. The returned close function flushes and closes the sink.
func New(level, file string) (*zap.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if file == "" {
		logger := NewWriter(os.Stderr, lvl)
		return logger, func() error { _ = logger.Sync(); return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := NewWriter(f, lvl)
	return logger, func() error {
		_ = logger.Sync()
		return f.Close()
	}, nil
}

// ForTerminal is New for full-screen programs, where stderr belongs to the
// screen: with no file it returns a no-op logger.
func ForTerminal(level, file string) (*zap.Logger, func() error, error) {
	if file == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	return New(level, file)
}

// NewWriter builds a JSON logger on w.
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(enc),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}
