// Package config provides configuration loading and validation for linqkit
// tools.
//
// It uses Viper to load a config.yml and a .env file found in the standard
// locations (./cmd/<name>/, ./config/, the working directory), then overlays
// environment variables. Nested keys map from upper-case underscore names, so
// SAMPLES_COST_LOW sets samples.cost_low and OUTPUT_FORMAT sets output.format.
// Amounts decode into decimal.Decimal from YAML numbers or strings.
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile(path))
package config
