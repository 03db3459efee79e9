package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quotevault",
			Version:     "0.1.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
		},
		Store: StoreConfig{
			Dir: "./data",
		},
		Sync: SyncConfig{
			Enabled:  true,
			BaseURL:  "https://jsonplaceholder.typicode.com",
			Interval: 30 * time.Second,
			PageSize: 20,
		},
	}
}

// assertInvalid mutates a valid config and expects validation to fail
// mentioning the given field path.
func assertInvalid(t *testing.T, field string, mutate func(*Config)) {
	t.Helper()

	cfg := validConfig()
	mutate(cfg)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), field)
}

// assertValid mutates a valid config and expects validation to pass.
func assertValid(t *testing.T, mutate func(*Config)) {
	t.Helper()

	cfg := validConfig()
	mutate(cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_AppConfig(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		assertInvalid(t, "app.name", func(c *Config) { c.App.Name = "" })
	})
	t.Run("missing version", func(t *testing.T) {
		assertInvalid(t, "app.version", func(c *Config) { c.App.Version = "" })
	})
	t.Run("missing environment", func(t *testing.T) {
		assertInvalid(t, "app.environment", func(c *Config) { c.App.Environment = "" })
	})
	t.Run("invalid environment", func(t *testing.T) {
		assertInvalid(t, "app.environment", func(c *Config) { c.App.Environment = "invalid" })
	})
}

func TestConfig_Validate_ValidEnvironments(t *testing.T) {
	for _, env := range []string{"local", "dev", "qa", "prod", "test"} {
		t.Run(env, func(t *testing.T) {
			assertValid(t, func(c *Config) { c.App.Environment = env })
		})
	}
}

func TestConfig_Validate_ServerConfig(t *testing.T) {
	t.Run("port range", func(t *testing.T) {
		for _, port := range []int{1, 8080, 65535} {
			assertValid(t, func(c *Config) { c.Server.Port = port })
		}
		for _, port := range []int{0, -1, 65536} {
			assertInvalid(t, "server.port", func(c *Config) { c.Server.Port = port })
		}
	})
	t.Run("missing host", func(t *testing.T) {
		assertInvalid(t, "server.host", func(c *Config) { c.Server.Host = "" })
	})
	t.Run("read timeout below 1s", func(t *testing.T) {
		assertInvalid(t, "server.readtimeout", func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond })
	})
	t.Run("zero max request size", func(t *testing.T) {
		assertInvalid(t, "server.maxrequestsize", func(c *Config) { c.Server.MaxRequestSize = 0 })
	})
}

func TestConfig_Validate_LogConfig(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assertValid(t, func(c *Config) { c.Log.Level = level })
		}
	})
	t.Run("invalid level", func(t *testing.T) {
		assertInvalid(t, "log.level", func(c *Config) { c.Log.Level = "invalid" })
	})
	t.Run("uppercase level rejected", func(t *testing.T) {
		assertInvalid(t, "log.level", func(c *Config) { c.Log.Level = "DEBUG" })
	})
	t.Run("valid formats", func(t *testing.T) {
		for _, format := range []string{"json", "text", "pretty"} {
			assertValid(t, func(c *Config) { c.Log.Format = format })
		}
	})
	t.Run("invalid format", func(t *testing.T) {
		assertInvalid(t, "log.format", func(c *Config) { c.Log.Format = "xml" })
	})
}

func TestConfig_Validate_LogFileConfig(t *testing.T) {
	t.Run("path optional when disabled", func(t *testing.T) {
		assertValid(t, func(c *Config) {
			c.Log.File.Enabled = false
			c.Log.File.Path = ""
		})
	})
	t.Run("path required when enabled", func(t *testing.T) {
		assertInvalid(t, "log.file.path", func(c *Config) {
			c.Log.File.Enabled = true
			c.Log.File.Path = ""
		})
	})
	t.Run("enabled with full settings", func(t *testing.T) {
		assertValid(t, func(c *Config) {
			c.Log.File.Enabled = true
			c.Log.File.Path = "/var/log/quotevault.log"
			c.Log.File.MaxSizeMB = 100
			c.Log.File.MaxBackups = 3
			c.Log.File.MaxAgeDays = 28
		})
	})
	t.Run("max size above 1024", func(t *testing.T) {
		assertInvalid(t, "log.file.maxsize", func(c *Config) {
			c.Log.File.Enabled = true
			c.Log.File.Path = "/var/log/quotevault.log"
			c.Log.File.MaxSizeMB = 1025
		})
	})
}

func TestConfig_Validate_TelemetryConfig(t *testing.T) {
	t.Run("endpoint optional when disabled", func(t *testing.T) {
		assertValid(t, func(c *Config) {
			c.Telemetry.Enabled = false
			c.Telemetry.Endpoint = ""
		})
	})
	t.Run("endpoint required when enabled", func(t *testing.T) {
		assertInvalid(t, "telemetry.endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
			c.Telemetry.ServiceName = "quotevault"
		})
	})
	t.Run("service name required when enabled", func(t *testing.T) {
		assertInvalid(t, "telemetry.servicename", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "http://localhost:4317"
			c.Telemetry.ServiceName = ""
		})
	})
	t.Run("endpoint must be a URL", func(t *testing.T) {
		assertInvalid(t, "telemetry.endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "not-a-url"
			c.Telemetry.ServiceName = "quotevault"
		})
	})
	t.Run("enabled with full settings", func(t *testing.T) {
		assertValid(t, func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "http://localhost:4317"
			c.Telemetry.ServiceName = "quotevault"
			c.Telemetry.SamplingRate = 0.5
		})
	})
	t.Run("sampling rate bounds", func(t *testing.T) {
		for _, rate := range []float64{0.0, 0.5, 1.0} {
			assertValid(t, func(c *Config) { c.Telemetry.SamplingRate = rate })
		}
		for _, rate := range []float64{-0.1, 1.1} {
			assertInvalid(t, "telemetry.samplingrate", func(c *Config) { c.Telemetry.SamplingRate = rate })
		}
	})
}

func TestConfig_Validate_StoreConfig(t *testing.T) {
	assertInvalid(t, "store.dir", func(c *Config) { c.Store.Dir = "" })
}

func TestConfig_Validate_SyncConfig(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		assertInvalid(t, "sync.baseurl", func(c *Config) { c.Sync.BaseURL = "" })
	})
	t.Run("base URL must be a URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sync.BaseURL = "not-a-url"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sync.baseurl")
		assert.Contains(t, err.Error(), "valid URL")
	})
	t.Run("interval below 1s", func(t *testing.T) {
		assertInvalid(t, "sync.interval", func(c *Config) { c.Sync.Interval = 500 * time.Millisecond })
	})
	t.Run("page size bounds", func(t *testing.T) {
		for _, size := range []int{1, 20, 100} {
			assertValid(t, func(c *Config) { c.Sync.PageSize = size })
		}
		for _, size := range []int{0, 101} {
			assertInvalid(t, "sync.pagesize", func(c *Config) { c.Sync.PageSize = size })
		}
	})
}

func TestConfig_Validate_ClientConfig(t *testing.T) {
	assertInvalid(t, "client.timeout", func(c *Config) { c.Client.Timeout = 50 * time.Millisecond })
}

func TestConfig_Validate_RetryConfig(t *testing.T) {
	t.Run("max attempts bounds", func(t *testing.T) {
		for _, attempts := range []int{1, 3, 10} {
			assertValid(t, func(c *Config) { c.Client.Retry.MaxAttempts = attempts })
		}
		for _, attempts := range []int{0, 11} {
			assertInvalid(t, "client.retry.maxattempts", func(c *Config) { c.Client.Retry.MaxAttempts = attempts })
		}
	})
	t.Run("initial interval below 10ms", func(t *testing.T) {
		assertInvalid(t, "client.retry.initialinterval", func(c *Config) {
			c.Client.Retry.InitialInterval = 5 * time.Millisecond
		})
	})
	t.Run("max interval below 100ms", func(t *testing.T) {
		assertInvalid(t, "client.retry.maxinterval", func(c *Config) {
			c.Client.Retry.MaxInterval = 50 * time.Millisecond
		})
	})
	t.Run("multiplier bounds", func(t *testing.T) {
		for _, m := range []float64{1.1, 2.0, 10.0} {
			assertValid(t, func(c *Config) { c.Client.Retry.Multiplier = m })
		}
		for _, m := range []float64{1.0, 10.1} {
			assertInvalid(t, "client.retry.multiplier", func(c *Config) { c.Client.Retry.Multiplier = m })
		}
	})
}

func TestConfig_Validate_CircuitBreakerConfig(t *testing.T) {
	t.Run("zero max failures", func(t *testing.T) {
		assertInvalid(t, "client.circuitbreaker.maxfailures", func(c *Config) {
			c.Client.CircuitBreaker.MaxFailures = 0
		})
	})
	t.Run("timeout below 1s", func(t *testing.T) {
		assertInvalid(t, "client.circuitbreaker.timeout", func(c *Config) {
			c.Client.CircuitBreaker.Timeout = 500 * time.Millisecond
		})
	})
	t.Run("zero half open limit", func(t *testing.T) {
		assertInvalid(t, "client.circuitbreaker.halfopenlimit", func(c *Config) {
			c.Client.CircuitBreaker.HalfOpenLimit = 0
		})
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{
			Environment: "invalid",
		},
		Server: ServerConfig{
			Port: -1,
		},
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "app.name")
	assert.Contains(t, errStr, "app.version")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.Server.Port", "server.port"},
		{"Config.App.Name", "app.name"},
		{"Config.Client.Retry.MaxAttempts", "client.retry.maxattempts"},
		{"Config.Log.File.Path", "log.file.path"},
		{"Config.Sync.BaseURL", "sync.baseurl"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
