// Package flow implements end-to-end verification flows.
//
// A Flow is a flat, linear script of Steps run against a single browser
// session. Every flow follows the same shape:
//
//	Start -> Navigate -> WaitNetworkIdle -> Assert* -> [Interact -> WaitForTransition -> Assert*]* -> Capture -> End
//
// There is no recovery state. The first step that fails ends the run: the
// Runner captures the flow's failure screenshot, releases the session and
// returns the error. The session is released on every exit path.
//
// The browser itself is reached through the Page port. pkg/browser provides
// the go-rod implementation; pkg/flow/testutil provides fakes for unit tests.
//
// Mock routes (MockResponse) are registered on the session before the first
// navigation and answer every matching request verbatim for the lifetime of
// that session.
package flow
