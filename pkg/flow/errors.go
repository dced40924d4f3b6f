package flow

import (
	"fmt"
	"strings"
	"time"
)

// NavigationError reports a page load that did not complete.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// AssertionError reports a located element that did not become visible
// within its timeout. Candidates is set when any one of several locators
// would have satisfied the assertion.
type AssertionError struct {
	Locator    Locator
	Candidates []Locator
	Timeout    time.Duration
	Err        error
}

func (e *AssertionError) Error() string {
	what := e.Locator.String()
	if len(e.Candidates) > 0 {
		parts := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			parts[i] = c.String()
		}
		what = "one of " + strings.Join(parts, " | ")
	}
	return fmt.Sprintf("expected %s to be visible within %v: %v", what, e.Timeout, e.Err)
}

func (e *AssertionError) Unwrap() error { return e.Err }

// ActionError reports an interaction (click, fill, select, check, capture)
// the browser could not perform.
type ActionError struct {
	Action  string
	Locator Locator
	Err     error
}

func (e *ActionError) Error() string {
	if e.Locator.By == "" {
		return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Action, e.Locator, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
