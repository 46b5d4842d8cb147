package feeders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string  `yaml:"name" toml:"name" env:"FEEDERS_TEST_NAME"`
	Count   int     `yaml:"count" toml:"count" env:"FEEDERS_TEST_COUNT"`
	Ratio   float64 `yaml:"ratio" toml:"ratio" env:"FEEDERS_TEST_RATIO"`
	Enabled bool    `yaml:"enabled" toml:"enabled" env:"FEEDERS_TEST_ENABLED"`
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYamlFeeder(t *testing.T) {
	path := writeTemp(t, "c.yaml", "name: yaml\ncount: 3\nenabled: true\n")

	var cfg sampleConfig
	require.NoError(t, NewYamlFeeder(path).Feed(&cfg))
	assert.Equal(t, sampleConfig{Name: "yaml", Count: 3, Enabled: true}, cfg)
}

func TestYamlFeederErrors(t *testing.T) {
	var cfg sampleConfig
	assert.Error(t, NewYamlFeeder(filepath.Join(t.TempDir(), "missing.yaml")).Feed(&cfg))

	bad := writeTemp(t, "bad.yaml", "count: [oops\n")
	assert.Error(t, NewYamlFeeder(bad).Feed(&cfg))
}

func TestTomlFeeder(t *testing.T) {
	path := writeTemp(t, "c.toml", "name = \"toml\"\nratio = 0.5\n")

	var cfg sampleConfig
	require.NoError(t, NewTomlFeeder(path).Feed(&cfg))
	assert.Equal(t, "toml", cfg.Name)
	assert.Equal(t, 0.5, cfg.Ratio)
}

func TestEnvFeeder(t *testing.T) {
	t.Setenv("FEEDERS_TEST_NAME", "env")
	t.Setenv("FEEDERS_TEST_COUNT", "11")
	t.Setenv("FEEDERS_TEST_ENABLED", "true")

	cfg := sampleConfig{Name: "file", Ratio: 1.5}
	require.NoError(t, NewEnvFeeder().Feed(&cfg))
	assert.Equal(t, "env", cfg.Name)
	assert.Equal(t, 11, cfg.Count)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1.5, cfg.Ratio, "unset variables leave fields untouched")
}

func TestEnvFeederRejectsNonStruct(t *testing.T) {
	var n int
	assert.ErrorIs(t, NewEnvFeeder().Feed(&n), ErrInvalidStructure)
	assert.ErrorIs(t, NewEnvFeeder().Feed(nil), ErrInvalidStructure)
}
