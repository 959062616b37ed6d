package config

import (
	"fmt"
	"os"
	"path"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/kbukum/linqkit/logger"
)

// FileSystem is the file access the loader needs. Tests substitute it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads the process's working directory.
type RealFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a dotenv file into the process environment without
// overriding variables that are already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver locates the config.yml and .env files of a tool.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles are the files Load will read. Empty means none was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps explicit paths from opts and searches for the rest.
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(candidates(name, "config.yml"))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(append(candidates(name, ".env."+name), candidates(name, ".env")...))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// candidates lists where file may live, most specific first: the tool's
// cmd directory, a shared config directory, then the directory itself, each
// looked up from the working directory and up to two parents.
func candidates(name, file string) []string {
	dirs := []string{"cmd/" + name, "config", ""}
	parents := []string{".", "..", "../.."}
	out := make([]string, 0, len(dirs)*len(parents))
	for _, dir := range dirs {
		for _, parent := range parents {
			out = append(out, path.Join(parent, dir, file))
		}
	}
	return out
}

// LoaderConfig holds the loader's dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the file system.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile reads path instead of searching for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile loads path instead of searching for a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig decodes the configuration of tool name into cfg, which must be
// a pointer to a struct with mapstructure tags. Values come from config.yml
// and are overridden by the environment, which the .env file populates.
// Keys map to variables as described by envNames.
func LoadConfig(name string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(name, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("failed to read config file", logger.ErrorFields("config", err))
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load .env file", logger.ErrorFields("config", err))
		}
	}
	for _, key := range keys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(append([]string{key}, envNames(name, key)...)...); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		decimalListHook,
		mapstructure.StringToSliceHookFunc(","),
		decimalHook,
	))
	if err := v.Unmarshal(cfg, hooks); err != nil {
		return fmt.Errorf("decoding %s config: %w", name, err)
	}
	return nil
}

var decimalType = reflect.TypeFor[decimal.Decimal]()

// keys lists the dotted mapstructure paths of every leaf field of t.
// Squashed structs contribute their fields at the parent's level; decimals,
// slices and durations are leaves.
func keys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var out []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if tag == "-" {
			continue
		}
		if opts == "squash" {
			out = append(out, keys(f.Type, prefix)...)
			continue
		}
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := prefix + tag
		if f.Type.Kind() == reflect.Struct && f.Type != decimalType {
			out = append(out, keys(f.Type, key+".")...)
			continue
		}
		out = append(out, key)
	}
	return out
}

// envNames maps samples.cost_low to LINQSAMPLES_SAMPLES_COST_LOW and
// SAMPLES_COST_LOW. Top-level keys such as name only get the prefixed form.
func envNames(name, key string) []string {
	env := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	prefix := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
	if !strings.Contains(key, ".") {
		return []string{prefix + "_" + env}
	}
	return []string{prefix + "_" + env, env}
}

var decimalListType = reflect.SliceOf(decimalType)

// decimalListHook decodes a comma separated environment value such as
// "1000, 2000.5" into []decimal.Decimal. Empty parts are skipped.
func decimalListHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to != decimalListType {
		return data, nil
	}
	var out []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", part, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// decimalHook decodes YAML numbers and environment strings into
// decimal.Decimal.
func decimalHook(from, to reflect.Type, data any) (any, error) {
	if to != decimalType || from == decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	}
	return data, nil
}
