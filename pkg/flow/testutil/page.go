// Package testutil provides in-memory flow.Session implementations for
// testing flows without a browser.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

// MockSession is a testify mock of flow.Session.
type MockSession struct {
	mock.Mock
}

var _ flow.Session = (*MockSession)(nil)

func (m *MockSession) Route(mr flow.MockResponse) error {
	return m.Called(mr).Error(0)
}

func (m *MockSession) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockSession) WaitNetworkIdle(ctx context.Context, quiet time.Duration) error {
	return m.Called(ctx, quiet).Error(0)
}

func (m *MockSession) WaitVisible(ctx context.Context, loc flow.Locator) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *MockSession) FirstVisible(ctx context.Context, locs ...flow.Locator) (int, error) {
	args := m.Called(ctx, locs)
	return args.Int(0), args.Error(1)
}

func (m *MockSession) Click(ctx context.Context, loc flow.Locator) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *MockSession) Fill(ctx context.Context, loc flow.Locator, value string) error {
	return m.Called(ctx, loc, value).Error(0)
}

func (m *MockSession) Select(ctx context.Context, loc flow.Locator, value string) error {
	return m.Called(ctx, loc, value).Error(0)
}

func (m *MockSession) Check(ctx context.Context, loc flow.Locator) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *MockSession) Screenshot(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockSession) Close() error {
	return m.Called().Error(0)
}

// Launcher returns a flow.Launcher that always hands out s.
func Launcher(s flow.Session) flow.Launcher {
	return flow.LauncherFunc(func(context.Context) (flow.Session, error) { return s, nil })
}

// Recorder is a flow.Session that succeeds at everything and records each
// call as a short line, e.g. `navigate http://x/dashboard`.
type Recorder struct {
	mu      sync.Mutex
	calls   []string
	mocks   []flow.MockResponse
	closed  int
	Visible int // index FirstVisible reports

	// FailOn makes the call whose recorded line equals the key fail with
	// the mapped error.
	FailOn map[string]error
}

var _ flow.Session = (*Recorder)(nil)

func (r *Recorder) record(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, line)
	return r.FailOn[line]
}

// Calls returns the recorded call lines in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Mocks returns the routed mocks.
func (r *Recorder) Mocks() []flow.MockResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]flow.MockResponse(nil), r.mocks...)
}

// Closed reports how many times Close was called.
func (r *Recorder) Closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Recorder) Route(m flow.MockResponse) error {
	r.mu.Lock()
	r.mocks = append(r.mocks, m)
	r.mu.Unlock()
	return r.record("route " + m.Pattern)
}

func (r *Recorder) Navigate(_ context.Context, url string) error {
	return r.record("navigate " + url)
}

func (r *Recorder) WaitNetworkIdle(context.Context, time.Duration) error {
	return r.record("idle")
}

func (r *Recorder) WaitVisible(_ context.Context, loc flow.Locator) error {
	return r.record("visible " + loc.String())
}

func (r *Recorder) FirstVisible(_ context.Context, locs ...flow.Locator) (int, error) {
	if err := r.record(fmt.Sprintf("probe %d", len(locs))); err != nil {
		return -1, err
	}
	return r.Visible, nil
}

func (r *Recorder) Click(_ context.Context, loc flow.Locator) error {
	return r.record("click " + loc.String())
}

func (r *Recorder) Fill(_ context.Context, loc flow.Locator, value string) error {
	return r.record(fmt.Sprintf("fill %s %s", loc, value))
}

func (r *Recorder) Select(_ context.Context, loc flow.Locator, value string) error {
	return r.record(fmt.Sprintf("select %s %s", loc, value))
}

func (r *Recorder) Check(_ context.Context, loc flow.Locator) error {
	return r.record("check " + loc.String())
}

func (r *Recorder) Screenshot(_ context.Context, path string) error {
	return r.record("screenshot " + path)
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed++
	r.mu.Unlock()
	return nil
}
