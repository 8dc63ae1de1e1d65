// Package config loads and validates the daemon configuration from a YAML
// file with viper. Flags only select the file; everything else lives in
// the file so an experiment's dispatch setup can be checked in next to it.
package config

import (
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/fjordsim/dispatch/internal/driver"
)

// Backend names accepted in the configuration.
const (
	BackendLocal = "local"
	BackendLSF   = "lsf"
)

// TLS holds the mutual TLS material for the gRPC listener. All three paths
// set enables mTLS and certificate role authorization; all three empty
// serves plaintext.
type TLS struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

// Enabled reports whether TLS is configured.
func (t TLS) Enabled() bool {
	return t.CertFile != "" || t.KeyFile != "" || t.CAFile != ""
}

// Config is the daemon configuration.
type Config struct {
	// Backend selects the dispatch driver, "local" or "lsf".
	Backend string

	// MaxRunning bounds concurrently dispatched jobs. Zero means
	// unbounded.
	MaxRunning int

	// PollInterval is the queue manager's status refresh interval. It is
	// also handed to drivers that rate limit their own scheduler polling.
	PollInterval time.Duration

	// MaxRuntime kills jobs running longer than this. Zero disables it.
	MaxRuntime time.Duration

	ListenAddr  string
	MetricsAddr string

	TLS TLS

	// Options is the backend option table, validated by the driver at
	// startup.
	Options map[string]string
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Backend:      BackendLocal,
		PollInterval: 5 * time.Second,
		ListenAddr:   ":7070",
		MetricsAddr:  ":9102",
		Options:      map[string]string{},
	}
}

// Load reads the configuration file at path, folds the option table, and
// validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)

		v.SetDefault("backend", cfg.Backend)
		v.SetDefault("pollInterval", cfg.PollInterval)
		v.SetDefault("listenAddr", cfg.ListenAddr)
		v.SetDefault("metricsAddr", cfg.MetricsAddr)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, &driver.ConfigurationError{
				Reason: "failed to read config file: " + err.Error(),
			}
		}

		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, &driver.ConfigurationError{
				Reason: "failed to unmarshal config file: " + err.Error(),
			}
		}
	}

	if cfg.Options == nil {
		cfg.Options = map[string]string{}
	}

	if err := cfg.foldOptions(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// foldOptions folds queue-level settings that arrived through the backend
// option table into their typed fields. An explicit top-level field wins
// over the option entry.
func (c *Config) foldOptions() error {
	if value, exists := c.Options["MAX_RUNNING"]; exists {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return &driver.ConfigurationError{
				Option: "MAX_RUNNING",
				Value:  value,
				Reason: "must be a non-negative integer",
			}
		}

		if c.MaxRunning == 0 {
			c.MaxRunning = n
		}

		// Queue-level only; drivers don't declare it.
		delete(c.Options, "MAX_RUNNING")
	}

	if value, exists := c.Options[driver.OptionPollInterval]; exists {
		interval, err := driver.ParseInterval(value)
		if err != nil {
			return &driver.ConfigurationError{
				Option: driver.OptionPollInterval,
				Value:  value,
				Reason: "must be a positive number of seconds or a duration",
			}
		}

		// The entry stays in the table for drivers that declare it.
		if c.PollInterval == Default().PollInterval {
			c.PollInterval = interval
		}
	}

	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLocal, BackendLSF:
	default:
		return &driver.ConfigurationError{
			Option: "backend",
			Value:  c.Backend,
			Reason: "must be one of: local, lsf",
		}
	}

	if c.MaxRunning < 0 {
		return &driver.ConfigurationError{
			Option: "maxRunning",
			Value:  strconv.Itoa(c.MaxRunning),
			Reason: "must be a non-negative integer",
		}
	}

	if c.PollInterval <= 0 {
		return &driver.ConfigurationError{
			Option: "pollInterval",
			Value:  c.PollInterval.String(),
			Reason: "must be positive",
		}
	}

	if c.MaxRuntime < 0 {
		return &driver.ConfigurationError{
			Option: "maxRuntime",
			Value:  c.MaxRuntime.String(),
			Reason: "must not be negative",
		}
	}

	if c.ListenAddr == "" {
		return &driver.ConfigurationError{
			Option: "listenAddr",
			Reason: "cannot be empty",
		}
	}

	if c.TLS.Enabled() {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" || c.TLS.CAFile == "" {
			return &driver.ConfigurationError{
				Option: "tls",
				Reason: "certFile, keyFile and caFile must all be set",
			}
		}
	}

	return nil
}
