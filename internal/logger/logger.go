package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	level       string
	outputPaths []string
}

// Option tunes the logger built by New.
type Option func(*options)

// WithLevel sets the minimum level ("debug", "info", "warn", "error").
// Empty keeps the preset's level.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput sends log output to path instead of stderr.
func WithOutput(path string) Option {
	return func(o *options) {
		if path != "" {
			o.outputPaths = []string{path}
		}
	}
}

// New creates a new zap logger
func New(development bool, opts ...Option) (*zap.Logger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var cfg zap.Config

	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	if o.level != "" && !development {
		lvl, err := zap.ParseAtomicLevel(o.level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	if len(o.outputPaths) > 0 {
		cfg.OutputPaths = o.outputPaths
		cfg.ErrorOutputPaths = o.outputPaths
		// Color codes only make sense on a terminal.
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return cfg.Build()
}

// Must creates a logger or panics
func Must(development bool, opts ...Option) *zap.Logger {
	log, err := New(development, opts...)
	if err != nil {
		panic(err)
	}
	return log
}
