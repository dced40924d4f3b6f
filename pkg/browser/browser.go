// Package browser drives headless Chrome through Rod and implements the
// flow.Session port.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

// Config configures Chrome launch options.
type Config struct {
	Headless bool          // Run in headless mode (default: true)
	Bin      string        // Chrome binary; empty lets Rod find or download one
	Poll     time.Duration // Interval between FirstVisible probes
	Logger   *log.Logger
}

// DefaultConfig returns sensible defaults for flow runs.
func DefaultConfig() Config {
	return Config{
		Headless: true,
		Poll:     100 * time.Millisecond,
	}
}

// Launcher starts one Chrome instance per session.
type Launcher struct {
	cfg Config
}

var _ flow.Launcher = (*Launcher)(nil)

// NewLauncher returns a Launcher for cfg.
func NewLauncher(cfg Config) *Launcher {
	if cfg.Poll <= 0 {
		cfg.Poll = DefaultConfig().Poll
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Launcher{cfg: cfg}
}

// Launch starts Chrome and opens a blank page.
// The browser is configured with:
//   - No sandbox (for container compatibility)
//   - No GPU
func (l *Launcher) Launch(ctx context.Context) (flow.Session, error) {
	return l.launch(ctx)
}

func (l *Launcher) launch(ctx context.Context) (*Session, error) {
	ln := launcher.New().
		Context(ctx).
		Headless(l.cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")
	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}

	url, err := ln.Launch()
	if err != nil {
		// The process may have started before ctx ended. Cleanup would
		// block on an exit that never comes when it did not.
		ln.Kill()
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		ln.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	// Detach the page from the launch context; steps pass their own.
	page = page.Context(context.Background())

	l.cfg.Logger.Debug("chrome launched", "control_url", url)
	return &Session{
		browser:  browser,
		page:     page,
		launcher: ln,
		poll:     l.cfg.Poll,
		logger:   l.cfg.Logger,
		served:   make(map[string]int),
	}, nil
}

// Session is one Chrome instance with a single page.
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	poll     time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	router *rod.HijackRouter
	served map[string]int
	closed bool
}

var _ flow.Session = (*Session)(nil)

// Page returns the underlying Rod page.
func (s *Session) Page() *rod.Page { return s.page }

func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("load event for %s: %w", url, err)
	}
	return nil
}

// WaitNetworkIdle waits for the page to be stable: loaded, no requests in
// flight and no DOM changes for quiet.
func (s *Session) WaitNetworkIdle(ctx context.Context, quiet time.Duration) error {
	return s.page.Context(ctx).WaitStable(quiet)
}

// WaitVisible polls until loc resolves to a visible element. Each poll
// resolves the locator again, so a node replaced by a re-render is followed
// to its successor.
func (s *Session) WaitVisible(ctx context.Context, loc flow.Locator) error {
	_, err := s.FirstVisible(ctx, loc)
	return err
}

func (s *Session) Click(ctx context.Context, loc flow.Locator) error {
	el, err := s.visibleElement(ctx, loc)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (s *Session) Fill(ctx context.Context, loc flow.Locator, value string) error {
	el, err := s.visibleElement(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clear field: %w", err)
	}
	return el.Input(value)
}

func (s *Session) Select(ctx context.Context, loc flow.Locator, value string) error {
	el, err := s.visibleElement(ctx, loc)
	if err != nil {
		return err
	}
	return el.Select([]string{fmt.Sprintf("option[value=%q]", value)}, true, rod.SelectorTypeCSSSector)
}

func (s *Session) Check(ctx context.Context, loc flow.Locator) error {
	el, err := s.visibleElement(ctx, loc)
	if err != nil {
		return err
	}
	checked, err := el.Property("checked")
	if err != nil {
		return err
	}
	if checked.Bool() {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Screenshot captures the viewport as PNG and writes it to path, creating
// parent directories as needed.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := utils.OutputFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Close cleans up browser resources. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	router := s.router
	s.mu.Unlock()

	var errs []error
	if router != nil {
		if err := router.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop hijack router: %w", err))
		}
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	s.launcher.Cleanup()
	return errors.Join(errs...)
}
