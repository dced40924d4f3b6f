package flow

import (
	"context"
	"time"
)

// Page is the browser surface a flow drives. Every blocking method honors
// ctx cancellation and deadline.
type Page interface {
	// Route registers a mock for the rest of the session.
	Route(mock MockResponse) error
	Navigate(ctx context.Context, url string) error
	// WaitNetworkIdle blocks until no new network activity has been
	// observed for quiet.
	WaitNetworkIdle(ctx context.Context, quiet time.Duration) error
	WaitVisible(ctx context.Context, loc Locator) error
	// FirstVisible polls until at least one locator resolves to a visible
	// element and returns the index of the first visible one. Each poll
	// evaluates every candidate at a single instant.
	FirstVisible(ctx context.Context, locs ...Locator) (int, error)
	Click(ctx context.Context, loc Locator) error
	Fill(ctx context.Context, loc Locator, value string) error
	Select(ctx context.Context, loc Locator, value string) error
	Check(ctx context.Context, loc Locator) error
	Screenshot(ctx context.Context, path string) error
}

// Session is a Page backed by a browser instance that must be closed.
type Session interface {
	Page
	Close() error
}

// Launcher acquires a fresh browser session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context) (Session, error)

func (f LauncherFunc) Launch(ctx context.Context) (Session, error) { return f(ctx) }
