package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseval/internal/config"
)

func applyArgs(t *testing.T, cfg *config.Config, args ...string) {
	t.Helper()
	fs := flag.NewFlagSet("courseval", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	flags.apply(cfg, fs)
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := &config.Config{Input: "env.csv", Charts: true}
	applyArgs(t, cfg, "-input", "cli.csv", "-out", "report", "-xlsx", "-log-level", "debug")

	assert.Equal(t, "cli.csv", cfg.Input)
	assert.Equal(t, "report", cfg.OutputDir)
	assert.True(t, cfg.Excel)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Charts, "untouched flag keeps the config value")
}

func TestBooleanFlagsOverrideInBothDirections(t *testing.T) {
	cfg := &config.Config{Charts: false, Excel: true}
	applyArgs(t, cfg, "-charts=true", "-xlsx=false")

	assert.True(t, cfg.Charts, "explicit -charts=true wins over the environment")
	assert.False(t, cfg.Excel)
}

func TestUnsetFlagsLeaveConfigAlone(t *testing.T) {
	cfg := &config.Config{Input: "env.csv", OutputDir: "env-out", Charts: false, Excel: true}
	applyArgs(t, cfg)

	assert.Equal(t, "env.csv", cfg.Input)
	assert.Equal(t, "env-out", cfg.OutputDir)
	assert.False(t, cfg.Charts, "flag default must not clobber the config")
	assert.True(t, cfg.Excel)
}
