package main

import (
	"context"
	"io"

	"github.com/kbukum/linqkit/bootstrap"
	"github.com/kbukum/linqkit/config"
	"github.com/kbukum/linqkit/dataset"
	"github.com/kbukum/linqkit/dump"
	"github.com/kbukum/linqkit/observability"
	"github.com/kbukum/linqkit/version"
)

// options are the persistent flags shared by every command.
type options struct {
	configFile string
	format     string
	dataPath   string
}

// read decodes the configuration and applies flag overrides on top of it.
// Defaults and validation are left to the caller.
func (o *options) read() (*config.AppConfig, error) {
	var loaderOpts []config.LoaderOption
	if o.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(o.configFile))
	}
	cfg, err := config.Read(loaderOpts...)
	if err != nil {
		return nil, err
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
	}
	return cfg, nil
}

// load is read followed by defaults and validation, for commands that do
// not boot the app.
func (o *options) load() (*config.AppConfig, error) {
	cfg, err := o.read()
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

func (o *options) dumper(w io.Writer, cfg *config.AppConfig) *dump.Dumper {
	return dump.New(w, cfg.Output.Format, dump.WithColor(cfg.Output.Color))
}

// session is what a task receives once the app is up.
type session struct {
	cfg     *config.AppConfig
	source  *dataset.Source
	metrics *observability.SampleMetrics
}

// runApp boots the application around task: logger, telemetry providers
// and signal handling, then the data set.
func (o *options) runApp(ctx context.Context, task func(ctx context.Context, s *session) error) error {
	cfg, err := o.read()
	if err != nil {
		return err
	}
	// NewApp applies defaults and validates.
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	var providers *observability.Providers
	app.OnStart(func(ctx context.Context) error {
		p, err := observability.Setup(ctx, cfg.Telemetry, cfg.Name, version.Get().Version, cfg.Environment)
		providers = p
		return err
	})
	app.OnStop(func(ctx context.Context) error {
		if providers == nil {
			return nil
		}
		return providers.Shutdown(ctx)
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		src, err := loadSource(cfg.Data)
		if err != nil {
			return err
		}
		metrics, err := observability.NewSampleMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return err
		}
		return task(ctx, &session{cfg: cfg, source: src, metrics: metrics})
	})
}

func loadSource(cfg config.DataConfig) (*dataset.Source, error) {
	if cfg.Path == "" {
		return dataset.Default()
	}
	return dataset.LoadFile(cfg.Path)
}
