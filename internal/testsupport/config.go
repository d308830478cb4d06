// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"storyreel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options. Voice.Binary is
// filled in because the builder bypasses config normalization.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Voice.Binary = cfgVal.Voice.Engine
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.BackgroundVideosDir = filepath.Join(base, "backgrounds")
	cfgVal.History.Dir = filepath.Join(base, "history")
	cfgVal.Workflow.StageTimeout = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDeveloperMode enables degraded-mode fallbacks on the test config.
func WithDeveloperMode() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.DeveloperMode = true
	}
}
