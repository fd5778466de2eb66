package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 1.0, cfg.ScaleMin)
	assert.Equal(t, 5.0, cfg.ScaleMax)
	assert.True(t, cfg.Charts)
	assert.False(t, cfg.Excel)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.StopWords)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("COURSEVAL_TOP_N", "5")
	t.Setenv("COURSEVAL_INPUT", "data.csv")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "data.csv", cfg.Input)
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("COURSEVAL_TOP_N", "5")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "top_n: 3\ninput: from-yaml.csv\nstop_words: [foo, bar]\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopN, "file overrides env")
	assert.Equal(t, "from-yaml.csv", cfg.Input)
	assert.Equal(t, []string{"foo", "bar"}, cfg.StopWords)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Input: "in.csv", OutputDir: "out", TopN: 10, ScaleMin: 1, ScaleMax: 5}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing input", func(c *Config) { c.Input = "" }, "input file"},
		{"missing output", func(c *Config) { c.OutputDir = "" }, "output directory"},
		{"bad top_n", func(c *Config) { c.TopN = 0 }, "top_n"},
		{"bad scale", func(c *Config) { c.ScaleMin = 5; c.ScaleMax = 1 }, "scale bounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
