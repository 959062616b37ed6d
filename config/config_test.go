package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/linqkit/errors"
)

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func decimals(vs ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithFileSystem(&mockFS{}))
	require.NoError(t, err)

	assert.Equal(t, "linqsamples", cfg.Name)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Len(t, cfg.Samples.SumThresholds, 6)
	assert.True(t, cfg.Samples.SumThresholds[4].Equal(decimal.NewFromInt(17000)))
	assert.True(t, cfg.Samples.CostLow.Equal(decimal.NewFromInt(20)))
	assert.True(t, cfg.Samples.CostHigh.Equal(decimal.NewFromInt(60)))
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
name: samples-test
environment: staging
logging:
  level: warn
  format: json
output:
  format: json
samples:
  sum_thresholds: [1000, 2000, "5000.50"]
  cost_low: 15.5
  cost_high: 70
telemetry:
  enabled: true
  endpoint: collector:4318
  sample_rate: 0.25
`)
	cfg, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
	require.NoError(t, err)

	assert.Equal(t, "samples-test", cfg.Name)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, decimals("1000", "2000", "5000.50"), cfg.Samples.SumThresholds)
	assert.True(t, cfg.Samples.CostLow.Equal(decimal.RequireFromString("15.5")))
	assert.Len(t, cfg.Samples.AnyThresholds, 6, "unset lists keep their defaults")
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "collector:4318", cfg.Telemetry.Endpoint)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRate, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "json")
	t.Setenv("SAMPLES_ANY_THRESHOLDS", "1,2.5")
	t.Setenv("SAMPLES_COST_HIGH", "99")

	cfg, err := Load(WithFileSystem(&mockFS{}))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, decimals("1", "2.5"), cfg.Samples.AnyThresholds)
	assert.True(t, cfg.Samples.CostHigh.Equal(decimal.NewFromInt(99)))
}

func TestAppConfigValidate(t *testing.T) {
	valid := func() AppConfig {
		var cfg AppConfig
		cfg.ApplyDefaults()
		return cfg
	}
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"bad output format", func(c *AppConfig) { c.Output.Format = "xml" }, "output.format"},
		{"negative threshold", func(c *AppConfig) { c.Samples.SumThresholds = decimals("-1") }, "samples.sum_thresholds[0]"},
		{"inverted cost bounds", func(c *AppConfig) { c.Samples.CostHigh = decimal.NewFromInt(5) }, "samples.cost_high"},
		{"bad environment", func(c *AppConfig) { c.Environment = "qa" }, "environment"},
		{"bad sample rate", func(c *AppConfig) { c.Telemetry.SampleRate = 2 }, "telemetry.sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			require.NoError(t, cfg.Validate())
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := ServiceConfig{Name: "svc", Debug: true}
	cfg.ApplyDefaults()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Same(t, &cfg, cfg.GetServiceConfig())
	require.NoError(t, cfg.Validate())

	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "logging.format")

	err = (&ServiceConfig{Environment: "production"}).Validate()
	assert.ErrorContains(t, err, "name: is required")
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"../config/config.yml":       true,
		"cmd/linqsamples/config.yml": true,
		".env":                       true,
		"../../.env.linqsamples":     true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("linqsamples", LoaderConfig{})
	assert.Equal(t, "cmd/linqsamples/config.yml", files.ConfigFile)
	assert.Equal(t, "../../.env.linqsamples", files.EnvFile, "tool-specific env files win")

	files = resolver.ResolveFiles("linqsamples", LoaderConfig{ConfigFile: "x.yml", EnvFile: "y.env"})
	assert.Equal(t, ResolvedFiles{ConfigFile: "x.yml", EnvFile: "y.env"}, files)
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/config.yml")(&lc)
	WithEnvFile("/path/.env")(&lc)
	assert.Same(t, fs, lc.FileSystem)
	assert.Equal(t, "/path/config.yml", lc.ConfigFile)
	assert.Equal(t, "/path/.env", lc.EnvFile)
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("LINQSAMPLES_NAME", "from-env")
	t.Setenv("LINQSAMPLES_TELEMETRY_SAMPLE_RATE", "0.5")
	t.Setenv("LOGGING_LEVEL", "error")

	cfg, err := Load(WithFileSystem(&mockFS{}))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRate, 1e-9)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestRead_LeavesDefaultsAndValidationToCaller(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "yaml")

	cfg, err := Read(WithFileSystem(&mockFS{}))
	require.NoError(t, err, "Read does not validate")
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Empty(t, cfg.Name, "Read does not apply defaults")

	_, err = Load(WithFileSystem(&mockFS{}))
	assert.ErrorContains(t, err, "output.format")
}

func TestKeys(t *testing.T) {
	got := keys(reflect.TypeFor[*AppConfig](), "")
	assert.Contains(t, got, "name")
	assert.Contains(t, got, "logging.level")
	assert.Contains(t, got, "samples.cost_low")
	assert.Contains(t, got, "samples.sum_thresholds")
	assert.Contains(t, got, "telemetry.interval")
	assert.NotContains(t, got, "samples", "structs are not leaves")
	assert.NotContains(t, got, "samples.cost_low.value", "decimals are leaves")
}

func TestEnvNames(t *testing.T) {
	assert.Equal(t, []string{"LINQSAMPLES_SAMPLES_COST_LOW", "SAMPLES_COST_LOW"}, envNames("linqsamples", "samples.cost_low"))
	assert.Equal(t, []string{"LINQ_SAMPLES_NAME"}, envNames("linq-samples", "name"))
}

func TestDecimalListHook(t *testing.T) {
	out, err := decimalListHook(reflect.TypeFor[string](), decimalListType, "1000, 2000.5,,")
	require.NoError(t, err)
	assert.Equal(t, decimals("1000", "2000.5"), out)

	_, err = decimalListHook(reflect.TypeFor[string](), decimalListType, "1,x")
	assert.Error(t, err)

	out, err = decimalListHook(reflect.TypeFor[string](), reflect.TypeFor[[]string](), "a,b")
	require.NoError(t, err)
	assert.Equal(t, "a,b", out, "other slice types are left to the string slice hook")
}

func TestDecimalHook(t *testing.T) {
	out, err := decimalHook(nil, decimalType, " 12.5 ")
	require.NoError(t, err)
	assert.True(t, out.(decimal.Decimal).Equal(decimal.RequireFromString("12.5")))

	_, err = decimalHook(nil, decimalType, "twelve")
	assert.Error(t, err)

	out, err = decimalHook(nil, nil, "untouched")
	require.NoError(t, err)
	assert.Equal(t, "untouched", out)
}
