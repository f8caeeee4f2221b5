package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("RAWSTAT_REPORT", "/var/tmp/report.log")
	path := writeConfig(t, `
generate:
  readers: 8
  ignore:
    - "*.tmp"
    - "build/"
  respectGitignore: true
  extended: true
validate:
  report: $(RAWSTAT_REPORT)
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Generate.Readers)
	require.Equal(t, 1, cfg.Generate.Writers)
	require.Equal(t, []string{"*.tmp", "build/"}, cfg.Generate.Ignore)
	require.True(t, cfg.Generate.RespectGitignore)
	require.True(t, cfg.Generate.Extended)
	require.False(t, cfg.Generate.Hash)
	require.Equal(t, "/var/tmp/report.log", cfg.Validate.Report)
	require.True(t, cfg.Validate.Progress)
	require.Equal(t, "table", cfg.Output.Format)
	require.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "generate: [1, 2"))
	require.ErrorContains(t, err, "failed to unmarshal")

	_, err = Load(writeConfig(t, "generate:\n  writers: 0\n"))
	require.ErrorContains(t, err, "generate.writers must be greater than 0")

	_, err = Load(writeConfig(t, "output:\n  format: xml\n"))
	require.ErrorContains(t, err, "invalid output format: xml")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RAWSTAT_A", "alpha")
	require.Equal(t, "x-alpha-", expandEnvVars("x-$(RAWSTAT_A)-$(RAWSTAT_UNSET_VAR)"))
	require.Equal(t, "$HOME ${HOME}", expandEnvVars("$HOME ${HOME}"))
}

func TestCheck(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Check())
	require.Equal(t, 16, cfg.Validate.Validators)

	cfg.Validate.Validators = 0
	require.ErrorContains(t, cfg.Check(), "validate.validators must be greater than 0. got 0")

	cfg = Default()
	cfg.Generate.Readers = -1
	require.ErrorContains(t, cfg.Check(), "generate.readers must be greater than 0. got -1")
}
