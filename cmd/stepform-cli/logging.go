package main

import (
	"fmt"

	"go.uber.org/zap"
)

// newLogger builds a zap logger writing to stderr so log lines never mix
// with prompts or rendered output on stdout.
func newLogger(level, format string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = atomic
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
