package samples

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/logger"
	"github.com/kbukum/linqkit/observability"
)

// RunReport is the outcome of one sample execution.
type RunReport struct {
	RunID    string
	Sample   string
	Category string
	Elements int
	Elapsed  time.Duration
	Err      error
}

// OK reports whether the sample succeeded.
func (r RunReport) OK() bool { return r.Err == nil }

// Summary collects the reports of one Runner.Run call in execution order.
type Summary struct {
	Reports []RunReport
	Elapsed time.Duration
}

// Passed counts successful runs.
func (s *Summary) Passed() int { return len(s.Reports) - len(s.Failures()) }

// Failures returns the failed runs.
func (s *Summary) Failures() []RunReport {
	var out []RunReport
	for _, r := range s.Reports {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Err is nil when every sample passed.
func (s *Summary) Err() error {
	failed := s.Failures()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, r := range failed {
		names[i] = r.Sample
	}
	return errors.New(errors.ErrCodeSampleFailed,
		fmt.Sprintf("%d of %d samples failed", len(failed), len(s.Reports))).
		WithDetail("samples", names)
}

// Runner executes samples against one Env.
type Runner struct {
	env     *Env
	metrics *observability.SampleMetrics
	log     *logger.Logger
	newID   func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics records every run on m.
func WithMetrics(m *observability.SampleMetrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithRunIDs replaces the uuid run id generator.
func WithRunIDs(fn func() string) RunnerOption {
	return func(r *Runner) { r.newID = fn }
}

// NewRunner returns a Runner. Runs are logged through env.Logger, or the
// global logger when it is nil.
func NewRunner(env *Env, opts ...RunnerOption) *Runner {
	r := &Runner{env: env, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	if env != nil && env.Logger != nil {
		r.log = env.Logger
	} else {
		r.log = logger.WithComponent("samples")
	}
	return r
}

// Run executes samples in order. A failing or panicking sample is reported
// and the rest still run; only cancellation of ctx stops the batch early.
func (r *Runner) Run(ctx context.Context, samples ...Sample) (*Summary, error) {
	if err := r.env.check(); err != nil {
		return nil, err
	}
	start := time.Now()
	summary := &Summary{Reports: make([]RunReport, 0, len(samples))}
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		summary.Reports = append(summary.Reports, r.runOne(ctx, s))
	}
	summary.Elapsed = time.Since(start)

	r.log.Info("samples finished", logger.Fields(
		"passed", summary.Passed(),
		"failed", len(summary.Failures()),
		logger.FieldDuration, summary.Elapsed.Milliseconds(),
	))
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, s Sample) RunReport {
	id := r.newID()
	ctx = logger.ContextWithRunID(ctx, id)
	ctx, run := observability.StartSampleRun(ctx, r.metrics, id, s.Name, s.Category)
	log := r.log.WithContext(ctx).WithFields(logger.SampleFields(s.Name, s.Category))

	log.Debug("sample started")
	r.env.Out.Reset()
	err := r.env.Out.Heading("%s (%s)", s.Title, s.Name)
	if err == nil {
		err = r.invoke(ctx, s)
	}
	elements := r.env.Out.Written()

	code := ""
	if err != nil {
		code = string(errors.ErrCodeSampleFailed)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		err = errors.SampleFailed(s.Name, err)
	}
	elapsed := run.End(ctx, err, code, elements)

	fields := logger.Fields(logger.FieldElements, elements, logger.FieldDuration, elapsed.Milliseconds())
	if err != nil {
		log.WithError(err).Error("sample failed", fields)
	} else {
		log.Info("sample completed", fields)
	}
	return RunReport{
		RunID:    id,
		Sample:   s.Name,
		Category: s.Category,
		Elements: elements,
		Elapsed:  elapsed,
		Err:      err,
	}
}

// invoke runs s, turning a panic into an internal error.
func (r *Runner) invoke(ctx context.Context, s Sample) (err error) {
	if s.Run == nil {
		return errors.InvalidArgument("run")
	}
	defer func() {
		if p := recover(); p != nil {
			err = errors.Internal(fmt.Errorf("panic: %v", p)).
				WithDetail("stack", string(debug.Stack()))
		}
	}()
	return s.Run(ctx, r.env)
}
