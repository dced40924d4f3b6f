package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Flow is one linear end-to-end verification scenario.
type Flow struct {
	Name        string
	Description string
	BaseURL     string // overrides Options.BaseURL when set
	Mocks       []MockResponse
	Steps       []Step
	FailureShot string // diagnostic screenshot written when a step fails
}

// Options configures a Runner.
type Options struct {
	BaseURL     string
	BaseURLs    map[string]string // per-flow base URL, keyed by flow name
	ArtifactDir string
	Timeout     time.Duration
	IdleWindow  time.Duration
	Logger      *log.Logger
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		BaseURL:     "http://localhost:5173",
		ArtifactDir: "verification",
		Timeout:     5 * time.Second,
		IdleWindow:  500 * time.Millisecond,
	}
}

// StepResult records one executed step.
type StepResult struct {
	Step     string
	Duration time.Duration
	Err      error
}

// Result is the outcome of one flow run.
type Result struct {
	Flow      string
	Steps     []StepResult
	Artifacts []string
	Duration  time.Duration
	Err       error
}

// Passed reports whether every step succeeded.
func (r *Result) Passed() bool { return r.Err == nil }

// Runner executes flows, one browser session per flow.
type Runner struct {
	launcher Launcher
	opts     Options
	logger   *log.Logger
}

// NewRunner returns a Runner that acquires sessions from l.
func NewRunner(l Launcher, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{launcher: l, opts: opts, logger: logger}
}

func (r *Runner) baseURL(f Flow) string {
	if f.BaseURL != "" {
		return f.BaseURL
	}
	if u, ok := r.opts.BaseURLs[f.Name]; ok && u != "" {
		return u
	}
	return r.opts.BaseURL
}

// Run executes f in a fresh session. The session is closed on every exit
// path. When a step fails, the flow's failure screenshot is captured before
// the session is released and the error is returned in the Result.
func (r *Runner) Run(ctx context.Context, f Flow) (res *Result) {
	start := time.Now()
	res = &Result{Flow: f.Name}
	logger := r.logger.With("flow", f.Name)
	defer func() {
		res.Duration = time.Since(start)
		if res.Err != nil {
			logger.Error("flow failed", "duration", res.Duration, "error", res.Err)
		} else {
			logger.Info("flow passed", "duration", res.Duration)
		}
	}()

	for _, m := range f.Mocks {
		if err := m.Validate(); err != nil {
			res.Err = fmt.Errorf("flow %s: %w", f.Name, err)
			return res
		}
	}

	logger.Info("starting browser session")
	sess, err := r.launcher.Launch(ctx)
	if err != nil {
		res.Err = fmt.Errorf("flow %s: failed to launch browser: %w", f.Name, err)
		return res
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Warn("browser close error", "error", cerr)
			if res.Err == nil {
				res.Err = fmt.Errorf("flow %s: failed to close browser: %w", f.Name, cerr)
			}
		}
	}()

	for _, m := range f.Mocks {
		m = m.withDefaults()
		if err := sess.Route(m); err != nil {
			res.Err = fmt.Errorf("flow %s: failed to route %s: %w", f.Name, m.Pattern, err)
			return res
		}
		logger.Debug("mock route registered", "pattern", m.Pattern, "status", m.Status)
	}

	env := &Env{
		Page:       sess,
		BaseURL:    r.baseURL(f),
		Timeout:    r.opts.Timeout,
		IdleWindow: r.opts.IdleWindow,
		Artifacts:  Artifacts{Dir: r.opts.ArtifactDir},
		Logger:     logger,
	}
	defer func() { res.Artifacts = env.captured }()

	for _, step := range f.Steps {
		if err := ctx.Err(); err != nil {
			res.Err = fmt.Errorf("flow %s: %w", f.Name, err)
			return res
		}
		logger.Info(step.String())
		t := time.Now()
		err := step.Run(ctx, env)
		res.Steps = append(res.Steps, StepResult{Step: step.String(), Duration: time.Since(t), Err: err})
		if err != nil {
			res.Err = r.fail(ctx, env, f, err)
			return res
		}
	}
	return res
}

// fail captures the diagnostic screenshot for a failed flow. A capture error
// is joined to the step error, never substituted for it.
func (r *Runner) fail(ctx context.Context, env *Env, f Flow, stepErr error) error {
	err := fmt.Errorf("flow %s: %w", f.Name, stepErr)
	if f.FailureShot == "" {
		return err
	}
	// The run context may be the reason the step failed.
	sctx, cancel := withTimeout(context.WithoutCancel(ctx), env.Timeout)
	defer cancel()
	path, serr := env.capture(sctx, f.FailureShot)
	if serr != nil {
		env.Logger.Warn("failure screenshot not captured", "error", serr)
		return errors.Join(err, fmt.Errorf("failure screenshot: %w", serr))
	}
	env.Logger.Info("failure screenshot saved", "path", path)
	return err
}

// RunAll runs flows one after another and returns every result.
// A failing flow does not stop the ones after it.
func (r *Runner) RunAll(ctx context.Context, flows []Flow) []*Result {
	results := make([]*Result, 0, len(flows))
	for _, f := range flows {
		if ctx.Err() != nil {
			results = append(results, &Result{Flow: f.Name, Err: ctx.Err()})
			continue
		}
		results = append(results, r.Run(ctx, f))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []*Result) []*Result {
	var out []*Result
	for _, r := range results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}
