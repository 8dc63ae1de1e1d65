package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordsim/dispatch/internal/config"
	"github.com/fjordsim/dispatch/internal/driver"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dispatchd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.BackendLocal, cfg.Backend)
	assert.Equal(t, 0, cfg.MaxRunning)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.False(t, cfg.TLS.Enabled())
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
backend: lsf
maxRunning: 25
pollInterval: 2s
maxRuntime: 4h
listenAddr: ":7443"
metricsAddr: ""
tls:
  certFile: /etc/dispatch/server.crt
  keyFile: /etc/dispatch/server.key
  caFile: /etc/dispatch/ca.crt
options:
  QUEUE_NAME: night
  RESOURCE_REQUEST: "select[mem>4000] rusage[mem=4000]"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.BackendLSF, cfg.Backend)
	assert.Equal(t, 25, cfg.MaxRunning)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 4*time.Hour, cfg.MaxRuntime)
	assert.Equal(t, ":7443", cfg.ListenAddr)
	assert.Empty(t, cfg.MetricsAddr)
	assert.True(t, cfg.TLS.Enabled())
	assert.Equal(t, "night", cfg.Options["QUEUE_NAME"])
}

func TestLoadFoldsOptionTable(t *testing.T) {
	path := writeConfig(t, `
backend: local
options:
  MAX_RUNNING: "10"
  POLL_INTERVAL: "7"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxRunning)
	assert.Equal(t, 7*time.Second, cfg.PollInterval)

	// MAX_RUNNING is queue-level only; POLL_INTERVAL stays for drivers
	// that declare it.
	assert.NotContains(t, cfg.Options, "MAX_RUNNING")
	assert.Contains(t, cfg.Options, driver.OptionPollInterval)
}

func TestLoadValidation(t *testing.T) {
	var confErr *driver.ConfigurationError

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "backend: slurm\n"))
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("partial tls", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
backend: local
tls:
  certFile: /etc/dispatch/server.crt
`))
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("bad max running option", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
backend: local
options:
  MAX_RUNNING: "lots"
`))
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("bad poll interval option", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
backend: local
options:
  POLL_INTERVAL: "-3"
`))
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorAs(t, err, &confErr)
	})
}
