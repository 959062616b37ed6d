package config

import (
	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/logger"
	"github.com/kbukum/linqkit/validation"
)

// ServiceConfig contains the fields every linqkit tool needs. Tools extend it
// by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Data DataConfig `yaml:"data" mapstructure:"data"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

var validEnvironments = []string{"development", "staging", "production"}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Embedding structs call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if err := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, validEnvironments).
		Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Validation("invalid logging configuration").WithCause(err)
	}
	return nil
}
