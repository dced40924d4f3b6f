//go:build e2e

// Package e2e runs the verification flows in a real Chrome against the
// fixture application.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present).
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// E2E tests use:
//   - Rod for browser automation (Chrome DevTools Protocol)
//   - the fixture-app server standing in for the application under test
//   - pkg/browser for the flow.Session implementation
//
// Each test starts its own server on a random port and launches its own
// browser instance per flow.
package e2e
