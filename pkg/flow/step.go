package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Env is what a step sees while it runs.
type Env struct {
	Page       Page
	BaseURL    string
	Timeout    time.Duration // default for assertions and actions
	IdleWindow time.Duration
	Artifacts  Artifacts
	Logger     *log.Logger

	captured []string
}

// URL joins path onto the base URL.
func (e *Env) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (e *Env) capture(ctx context.Context, name string) (string, error) {
	path, err := e.Artifacts.Path(name)
	if err != nil {
		return "", err
	}
	if err := e.Page.Screenshot(ctx, path); err != nil {
		return "", err
	}
	e.captured = append(e.captured, path)
	return path, nil
}

// Step is one action or check in a flow.
type Step interface {
	fmt.Stringer
	Run(ctx context.Context, env *Env) error
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

type navigateStep struct{ path string }

// Navigate loads path relative to the flow's base URL and waits for the
// load event.
func Navigate(path string) Step { return navigateStep{path} }

func (s navigateStep) String() string { return "navigate " + s.path }

func (s navigateStep) Run(ctx context.Context, env *Env) error {
	url := env.URL(s.path)
	ctx, cancel := withTimeout(ctx, env.Timeout)
	defer cancel()
	if err := env.Page.Navigate(ctx, url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

type idleStep struct{}

// WaitNetworkIdle blocks until the page has been network-quiet for the
// configured idle window.
func WaitNetworkIdle() Step { return idleStep{} }

func (idleStep) String() string { return "wait network idle" }

func (idleStep) Run(ctx context.Context, env *Env) error {
	ctx, cancel := withTimeout(ctx, env.Timeout)
	defer cancel()
	if err := env.Page.WaitNetworkIdle(ctx, env.IdleWindow); err != nil {
		return &ActionError{Action: "wait network idle", Err: err}
	}
	return nil
}

// Assertion expects a located element to become visible. A zero Timeout
// uses the flow default.
type Assertion struct {
	Locator Locator
	Timeout time.Duration
}

type expectStep struct{ assertions []Assertion }

// Expect checks that loc becomes visible.
func Expect(loc Locator) Step { return expectStep{[]Assertion{{Locator: loc}}} }

// ExpectWithin checks that loc becomes visible within timeout.
func ExpectWithin(loc Locator, timeout time.Duration) Step {
	return expectStep{[]Assertion{{Locator: loc, Timeout: timeout}}}
}

// ExpectAll checks every locator in order.
func ExpectAll(locs ...Locator) Step {
	as := make([]Assertion, len(locs))
	for i, l := range locs {
		as[i] = Assertion{Locator: l}
	}
	return expectStep{as}
}

func (s expectStep) String() string {
	parts := make([]string, len(s.assertions))
	for i, a := range s.assertions {
		parts[i] = a.Locator.String()
	}
	return "expect " + strings.Join(parts, ", ")
}

func (s expectStep) Run(ctx context.Context, env *Env) error {
	for _, a := range s.assertions {
		timeout := a.Timeout
		if timeout <= 0 {
			timeout = env.Timeout
		}
		if err := a.Locator.Validate(); err != nil {
			return &AssertionError{Locator: a.Locator, Timeout: timeout, Err: err}
		}
		actx, cancel := withTimeout(ctx, timeout)
		err := env.Page.WaitVisible(actx, a.Locator)
		cancel()
		if err != nil {
			return &AssertionError{Locator: a.Locator, Timeout: timeout, Err: err}
		}
		env.Logger.Debug("visible", "locator", a.Locator.String())
	}
	return nil
}

type actionStep struct {
	action string
	loc    Locator
	value  string
	do     func(ctx context.Context, p Page) error
}

func (s actionStep) String() string {
	if s.value != "" {
		return fmt.Sprintf("%s %s = %q", s.action, s.loc, s.value)
	}
	return fmt.Sprintf("%s %s", s.action, s.loc)
}

func (s actionStep) Run(ctx context.Context, env *Env) error {
	if err := s.loc.Validate(); err != nil {
		return &ActionError{Action: s.action, Locator: s.loc, Err: err}
	}
	ctx, cancel := withTimeout(ctx, env.Timeout)
	defer cancel()
	if err := s.do(ctx, env.Page); err != nil {
		return &ActionError{Action: s.action, Locator: s.loc, Err: err}
	}
	return nil
}

// Click clicks the element at loc.
func Click(loc Locator) Step {
	return actionStep{action: "click", loc: loc, do: func(ctx context.Context, p Page) error {
		return p.Click(ctx, loc)
	}}
}

// FormInput is a field and the literal value written into it.
type FormInput struct {
	Field Locator
	Value string
}

// Fill replaces the value of a text field.
func Fill(in FormInput) Step {
	return actionStep{action: "fill", loc: in.Field, value: in.Value, do: func(ctx context.Context, p Page) error {
		return p.Fill(ctx, in.Field, in.Value)
	}}
}

// FillAll fills each input in order.
func FillAll(inputs ...FormInput) []Step {
	steps := make([]Step, len(inputs))
	for i, in := range inputs {
		steps[i] = Fill(in)
	}
	return steps
}

// Select picks the option with the given value.
func Select(loc Locator, value string) Step {
	return actionStep{action: "select", loc: loc, value: value, do: func(ctx context.Context, p Page) error {
		return p.Select(ctx, loc, value)
	}}
}

// Check ticks a checkbox. Already checked boxes are left alone.
func Check(loc Locator) Step {
	return actionStep{action: "check", loc: loc, do: func(ctx context.Context, p Page) error {
		return p.Check(ctx, loc)
	}}
}

type captureStep struct{ name string }

// Capture writes a screenshot of the expected state.
func Capture(name string) Step { return captureStep{name} }

func (s captureStep) String() string { return "capture " + s.name }

func (s captureStep) Run(ctx context.Context, env *Env) error {
	ctx, cancel := withTimeout(ctx, env.Timeout)
	defer cancel()
	path, err := env.capture(ctx, s.name)
	if err != nil {
		return &ActionError{Action: "capture " + s.name, Err: err}
	}
	env.Logger.Info("screenshot saved", "path", path)
	return nil
}
