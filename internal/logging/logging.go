// Package logging writes the raw child transcript to a debug log for
// post-mortem inspection, independent of what the live display shows.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with transcript helpers.
type Logger struct {
	*zap.Logger
}

// New creates a file-backed logger at path, creating parent directories as
// needed.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding:          "console",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{Logger: logger}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// RawChunk records one chunk read from the child pty. Invalid UTF-8 is
// replaced rather than dropped so the transcript stays lossless enough to
// debug prompt detection.
func (l *Logger) RawChunk(chunk []byte) {
	l.Debug("pty", zap.String("raw", strings.ToValidUTF8(string(chunk), "�")))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
