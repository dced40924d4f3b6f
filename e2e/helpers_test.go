//go:build e2e

package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thesyncim/flowcheck/cmd/fixture-app/server"
	"github.com/thesyncim/flowcheck/pkg/browser"
	"github.com/thesyncim/flowcheck/pkg/flow"
)

func startFixture(t *testing.T, cfg server.Config) *server.Server {
	t.Helper()
	srv, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})
	t.Logf("Fixture server started on %s", addr)
	return srv
}

// recordingLauncher launches real Chrome sessions and keeps them so tests
// can inspect mock traffic after the run.
type recordingLauncher struct {
	inner *browser.Launcher

	mu       sync.Mutex
	sessions []*trackedSession
}

type trackedSession struct {
	*browser.Session
	closed bool
}

func (s *trackedSession) Close() error {
	s.closed = true
	return s.Session.Close()
}

func (l *recordingLauncher) Launch(ctx context.Context) (flow.Session, error) {
	sess, err := l.inner.Launch(ctx)
	if err != nil {
		return nil, err
	}
	ts := &trackedSession{Session: sess.(*browser.Session)}
	l.mu.Lock()
	l.sessions = append(l.sessions, ts)
	l.mu.Unlock()
	return ts, nil
}

func (l *recordingLauncher) last(t *testing.T) *trackedSession {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.sessions) == 0 {
		t.Fatal("no browser session was launched")
	}
	return l.sessions[len(l.sessions)-1]
}

func newRunner(t *testing.T, baseURL string, timeout time.Duration) (*flow.Runner, *recordingLauncher, string) {
	t.Helper()
	logger := log.NewWithOptions(testWriter{t}, log.Options{Level: log.DebugLevel, Prefix: t.Name()})

	bcfg := browser.DefaultConfig()
	bcfg.Logger = logger
	l := &recordingLauncher{inner: browser.NewLauncher(bcfg)}

	dir := t.TempDir()
	opts := flow.DefaultOptions()
	opts.BaseURL = baseURL
	opts.ArtifactDir = dir
	opts.Timeout = timeout
	opts.Logger = logger
	return flow.NewRunner(l, opts), l, dir
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
