package config

import (
	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/observability"
	"github.com/kbukum/linqkit/validation"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// AppConfig is the configuration of the linqsamples tool.
//
//	name: linqsamples
//	data:
//	  path: ./northwind.json
//	output:
//	  format: text
//	samples:
//	  sum_thresholds: [1000, 2000, 5000]
//	  cost_low: 20
//	  cost_high: 60
//	telemetry:
//	  enabled: false
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Data          DataConfig           `yaml:"data" mapstructure:"data"`
	Output        OutputConfig         `yaml:"output" mapstructure:"output"`
	Samples       SamplesConfig        `yaml:"samples" mapstructure:"samples"`
	Telemetry     observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// DataConfig selects the data set. An empty Path means the embedded one.
type DataConfig struct {
	Path string `yaml:"path" mapstructure:"path" json:"path"`
}

// OutputConfig controls how sample results are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format" json:"format" validate:"oneof=text json"`
	Color  bool   `yaml:"color" mapstructure:"color" json:"color"`
}

// SamplesConfig holds the parameters of the threshold and cost-tier samples.
type SamplesConfig struct {
	SumThresholds []decimal.Decimal `yaml:"sum_thresholds" mapstructure:"sum_thresholds" json:"sum_thresholds" validate:"dive,gte=0"`
	AnyThresholds []decimal.Decimal `yaml:"any_thresholds" mapstructure:"any_thresholds" json:"any_thresholds" validate:"dive,gte=0"`
	CostLow       decimal.Decimal   `yaml:"cost_low" mapstructure:"cost_low" json:"cost_low" validate:"gte=0"`
	CostHigh      decimal.Decimal   `yaml:"cost_high" mapstructure:"cost_high" json:"cost_high" validate:"gte=0"`
}

func amounts(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

// ApplyDefaults fills unset sections. Cost bounds fall back to 20 and 60 only
// when both are zero.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "linqsamples"
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Samples.SumThresholds == nil {
		c.Samples.SumThresholds = amounts(1000, 2000, 5000, 10000, 17000, 30000)
	}
	if c.Samples.AnyThresholds == nil {
		c.Samples.AnyThresholds = amounts(10, 200, 500, 1000, 2500, 10000)
	}
	if c.Samples.CostLow.IsZero() && c.Samples.CostHigh.IsZero() {
		c.Samples.CostLow = decimal.NewFromInt(20)
		c.Samples.CostHigh = decimal.NewFromInt(60)
	}
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validation.New().
		Ordered("samples.cost_high", c.Samples.CostLow, c.Samples.CostHigh).
		Validate()
}

// Read decodes the linqsamples configuration without applying defaults or
// validating, for callers that still override fields, such as from flags.
func Read(opts ...LoaderOption) (*AppConfig, error) {
	var cfg AppConfig
	if err := LoadConfig("linqsamples", &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the linqsamples configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*AppConfig, error) {
	cfg, err := Read(opts...)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
