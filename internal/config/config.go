package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seagrayinc/safesignal-provision/pkg/provision"
)

// Config holds the optional tool settings. Device values (port, credentials,
// location) always come from flags.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Timing TimingConfig `yaml:"timing"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// TimingConfig overrides the session delays. Zero keeps the default.
type TimingConfig struct {
	OpenSettle     time.Duration `yaml:"open_settle"`
	ResponseSettle time.Duration `yaml:"response_settle"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

const DefaultLogLevel = "warn"

func Default() *Config {
	t := provision.DefaultTiming()
	return &Config{
		Log: LogConfig{Level: DefaultLogLevel},
		Timing: TimingConfig{
			OpenSettle:     t.OpenSettle,
			ResponseSettle: t.ResponseSettle,
			ReadTimeout:    t.ReadTimeout,
		},
	}
}

// Load reads filename over the defaults. An empty filename yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if logLevel := os.Getenv("PROVISION_LOG_LEVEL"); logLevel != "" {
		c.Log.Level = logLevel
	}
}

func (c *Config) validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"timing.open_settle", c.Timing.OpenSettle},
		{"timing.response_settle", c.Timing.ResponseSettle},
		{"timing.read_timeout", c.Timing.ReadTimeout},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", d.name, d.d)
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	return nil
}

// SessionTiming converts the timing section for a provisioning session.
func (c *Config) SessionTiming() provision.Timing {
	return provision.Timing{
		OpenSettle:     c.Timing.OpenSettle,
		ResponseSettle: c.Timing.ResponseSettle,
		ReadTimeout:    c.Timing.ReadTimeout,
	}
}
