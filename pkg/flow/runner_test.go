package flow_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/flowcheck/pkg/flow"
	"github.com/thesyncim/flowcheck/pkg/flow/testutil"
)

func testOptions(dir string) flow.Options {
	opts := flow.DefaultOptions()
	opts.BaseURL = "http://app.test"
	opts.ArtifactDir = dir
	opts.Timeout = time.Second
	return opts
}

func TestRunner_PassingFlowClosesSession(t *testing.T) {
	rec := &testutil.Recorder{}
	r := flow.NewRunner(testutil.Launcher(rec), testOptions("out"))

	res := r.Run(context.Background(), flow.Flow{
		Name: "demo",
		Steps: []flow.Step{
			flow.Navigate("/dashboard"),
			flow.WaitNetworkIdle(),
			flow.Expect(flow.Heading("Agentes")),
			flow.Capture("demo.png"),
		},
		FailureShot: "demo_error.png",
	})

	require.NoError(t, res.Err)
	assert.True(t, res.Passed())
	assert.Equal(t, []string{
		"navigate http://app.test/dashboard",
		"idle",
		`visible role=heading[name="Agentes"]`,
		"screenshot " + filepath.Join("out", "demo.png"),
	}, rec.Calls())
	assert.Equal(t, 1, rec.Closed())
	assert.Equal(t, []string{filepath.Join("out", "demo.png")}, res.Artifacts)
	assert.Len(t, res.Steps, 4)
}

func TestRunner_FailureCapturesDiagnosticAndCloses(t *testing.T) {
	sess := &testutil.MockSession{}
	timeout := errors.New("timed out")
	heading := flow.Heading("Relatórios")

	sess.On("Navigate", mock.Anything, "http://app.test/dashboard").Return(nil).Once()
	sess.On("WaitVisible", mock.Anything, heading).Return(timeout).Once()
	sess.On("Screenshot", mock.Anything, filepath.Join("out", "dash_error.png")).Return(nil).Once()
	sess.On("Close").Return(nil).Once()

	r := flow.NewRunner(testutil.Launcher(sess), testOptions("out"))
	res := r.Run(context.Background(), flow.Flow{
		Name: "dashboard",
		Steps: []flow.Step{
			flow.Navigate("/dashboard"),
			flow.Expect(heading),
			flow.Capture("never.png"),
		},
		FailureShot: "dash_error.png",
	})

	require.Error(t, res.Err)
	var ae *flow.AssertionError
	require.ErrorAs(t, res.Err, &ae)
	assert.Equal(t, heading, ae.Locator)
	assert.Equal(t, time.Second, ae.Timeout)
	assert.ErrorIs(t, res.Err, timeout)
	assert.Equal(t, []string{filepath.Join("out", "dash_error.png")}, res.Artifacts)
	sess.AssertExpectations(t)
	sess.AssertNotCalled(t, "Screenshot", mock.Anything, filepath.Join("out", "never.png"))
}

func TestRunner_NavigationFailureIsNotSilent(t *testing.T) {
	rec := &testutil.Recorder{FailOn: map[string]error{
		"navigate http://app.test/agents": errors.New("connection refused"),
	}}
	r := flow.NewRunner(testutil.Launcher(rec), testOptions("v"))

	res := r.Run(context.Background(), flow.Flow{
		Name:        "agents",
		Steps:       []flow.Step{flow.Navigate("/agents"), flow.Expect(flow.Text("Meus Agentes"))},
		FailureShot: "agents_error.png",
	})

	require.False(t, res.Passed())
	var ne *flow.NavigationError
	require.ErrorAs(t, res.Err, &ne)
	assert.Equal(t, "http://app.test/agents", ne.URL)
	assert.Equal(t, []string{
		"navigate http://app.test/agents",
		"screenshot " + filepath.Join("v", "agents_error.png"),
	}, rec.Calls())
	assert.Equal(t, 1, rec.Closed())
}

func TestRunner_ScreenshotFailureDoesNotMaskStepError(t *testing.T) {
	stepErr := errors.New("not visible")
	shotErr := errors.New("target closed")
	rec := &testutil.Recorder{FailOn: map[string]error{
		`visible text="x"`: stepErr,
		"screenshot " + filepath.Join("d", "e.png"): shotErr,
	}}
	r := flow.NewRunner(testutil.Launcher(rec), testOptions("d"))

	res := r.Run(context.Background(), flow.Flow{
		Name:        "f",
		Steps:       []flow.Step{flow.Expect(flow.Text("x"))},
		FailureShot: "e.png",
	})

	assert.ErrorIs(t, res.Err, stepErr)
	assert.ErrorIs(t, res.Err, shotErr)
	assert.Empty(t, res.Artifacts)
	assert.Equal(t, 1, rec.Closed())
}

func TestRunner_MocksRoutedBeforeFirstNavigation(t *testing.T) {
	rec := &testutil.Recorder{}
	r := flow.NewRunner(testutil.Launcher(rec), testOptions("v"))

	res := r.Run(context.Background(), flow.Flow{
		Name: "mocked",
		Mocks: []flow.MockResponse{
			flow.JSONMock("**/api/a", `{}`),
			{Pattern: "**/api/b", Body: "x"},
		},
		Steps: []flow.Step{flow.Navigate("/")},
	})

	require.NoError(t, res.Err)
	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "route **/api/a", calls[0])
	assert.Equal(t, "route **/api/b", calls[1])
	assert.Equal(t, "navigate http://app.test/", calls[2])

	mocks := rec.Mocks()
	assert.Equal(t, 200, mocks[1].Status)
	assert.Equal(t, "application/json", mocks[1].ContentType)
}

func TestRunner_InvalidMockNeverLaunches(t *testing.T) {
	launched := false
	l := flow.LauncherFunc(func(context.Context) (flow.Session, error) {
		launched = true
		return &testutil.Recorder{}, nil
	})
	r := flow.NewRunner(l, testOptions("v"))

	res := r.Run(context.Background(), flow.Flow{Name: "bad", Mocks: []flow.MockResponse{{Body: "x"}}})

	assert.Error(t, res.Err)
	assert.False(t, launched)
}

func TestRunner_LaunchFailure(t *testing.T) {
	l := flow.LauncherFunc(func(context.Context) (flow.Session, error) {
		return nil, errors.New("no chrome")
	})
	res := flow.NewRunner(l, testOptions("v")).Run(context.Background(), flow.Flow{Name: "x"})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to launch browser")
}

func TestRunner_CloseErrorReportedOnSuccess(t *testing.T) {
	sess := &testutil.MockSession{}
	sess.On("Close").Return(errors.New("already gone")).Once()

	res := flow.NewRunner(testutil.Launcher(sess), testOptions("v")).Run(context.Background(), flow.Flow{Name: "empty"})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to close browser")
	sess.AssertExpectations(t)
}

func TestRunner_PerFlowBaseURL(t *testing.T) {
	rec := &testutil.Recorder{}
	opts := testOptions("v")
	opts.BaseURLs = map[string]string{"transparency": "http://preview.test:4173/"}

	res := flow.NewRunner(testutil.Launcher(rec), opts).Run(context.Background(), flow.Flow{
		Name:  "transparency",
		Steps: []flow.Step{flow.Navigate("/transparencia")},
	})

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"navigate http://preview.test:4173/transparencia"}, rec.Calls())
}

func TestRunner_RunAllContinuesAfterFailure(t *testing.T) {
	rec := &testutil.Recorder{FailOn: map[string]error{"navigate http://app.test/a": errors.New("boom")}}
	r := flow.NewRunner(testutil.Launcher(rec), testOptions("v"))

	results := r.RunAll(context.Background(), []flow.Flow{
		{Name: "a", Steps: []flow.Step{flow.Navigate("/a")}},
		{Name: "b", Steps: []flow.Step{flow.Navigate("/b")}},
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Passed())
	assert.True(t, results[1].Passed())
	assert.Equal(t, 2, rec.Closed())
	failed := flow.Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].Flow)
}

func TestRunner_CanceledContext(t *testing.T) {
	rec := &testutil.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := flow.NewRunner(testutil.Launcher(rec), testOptions("v")).Run(ctx, flow.Flow{
		Name:  "c",
		Steps: []flow.Step{flow.Navigate("/")},
	})

	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, rec.Calls())
	assert.Equal(t, 1, rec.Closed())
}
