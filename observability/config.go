package observability

import (
	"time"

	"github.com/kbukum/linqkit/validation"
)

// Config is the telemetry section of a tool's configuration. Telemetry is off
// unless Enabled is set.
type Config struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure" json:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval" json:"interval" validate:"gte=0"`
}

// ApplyDefaults applies default values to telemetry configuration.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate validates telemetry configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
