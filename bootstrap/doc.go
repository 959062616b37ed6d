// Package bootstrap runs a finite linqkit task with a uniform lifecycle:
// defaults and validation of the typed configuration, logger setup, start
// hooks, the task itself under a context canceled by SIGINT or SIGTERM, and
// stop hooks bounded by a graceful timeout.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(func(ctx context.Context) error { return setupTelemetry(ctx) })
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return runner.Run(ctx, names...)
//	})
package bootstrap
