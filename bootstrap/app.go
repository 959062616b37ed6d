package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/logger"
)

// App runs a finite task with uniform setup and teardown. The type parameter
// C is the config type; any struct embedding config.ServiceConfig satisfies
// Config.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart []Hook
	onStop  []Hook
}

// NewApp applies defaults, validates the config and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := cfg.GetServiceConfig()
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.signals != nil {
		app.signals = o.signals
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging, base.Name)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RunTask runs the start hooks, then task under a context that is canceled
// when one of the app's signals arrives, then the stop hooks. Stop hooks run
// even when the task fails; the task's error takes precedence over theirs.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if task == nil {
		return errors.InvalidArgument("task")
	}
	a.Logger.Debug("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		stopErr := a.stop()
		if stopErr != nil {
			a.Logger.WithError(stopErr).Warn("stop hooks failed after start failure")
		}
		return errors.Internal(err).WithDetail("phase", "start")
	}

	taskCtx, cancel := signal.NotifyContext(ctx, a.signals...)
	taskErr := task(taskCtx)
	if taskCtx.Err() != nil && ctx.Err() == nil {
		a.Logger.Info("task canceled by signal")
	}
	cancel()

	stopErr := a.stop()
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

// stop runs the stop hooks within the graceful timeout.
func (a *App[C]) stop() error {
	if len(a.onStop) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("stop hook failed", logger.ErrorFields("stop", err))
		return err
	}
	a.Logger.Debug("shutdown complete")
	return nil
}
