package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thesyncim/flowcheck/pkg/browser"
	"github.com/thesyncim/flowcheck/pkg/flow"
	"github.com/thesyncim/flowcheck/pkg/flows"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [flow...]",
		Short: "Run verification flows (all when none given)",
		Long: `Run one or more verification flows. Each flow gets its own Chrome
instance, which is closed whether the flow passes or fails.

Flows:
  dashboard     dashboard sections and navigation into agents
  agents        agent creation from the list or empty state
  transparency  mocked submissions on the public, contact and leads pages

Screenshots are written to --artifact-dir and overwritten on every run.
The command exits non-zero when any flow fails.`,
		ValidArgs: flows.Names(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cmd, args)
		},
	}
}

func (a *app) run(ctx context.Context, cmd *cobra.Command, names []string) error {
	mocks, err := a.loadMocks()
	if err != nil {
		return err
	}
	selected, err := flows.Select(names, mocks)
	if err != nil {
		return err
	}

	bcfg := browser.DefaultConfig()
	bcfg.Headless = a.cfg.Headless
	bcfg.Bin = a.cfg.BrowserBin
	bcfg.Logger = a.logger.WithPrefix("browser")

	runner := flow.NewRunner(browser.NewLauncher(bcfg), flow.Options{
		BaseURL:     a.cfg.BaseURL,
		BaseURLs:    a.cfg.BaseURLs(),
		ArtifactDir: a.cfg.ArtifactDir,
		Timeout:     a.cfg.Timeout,
		IdleWindow:  a.cfg.IdleWindow,
		Logger:      a.logger,
	})

	results := runner.RunAll(ctx, selected)
	fmt.Fprintln(cmd.OutOrStdout(), renderReport(results))

	if failed := flow.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d flows failed", len(failed), len(results))
	}
	return nil
}

func (a *app) loadMocks() ([]flow.MockResponse, error) {
	if a.cfg.MocksFile == "" {
		return nil, nil
	}
	f, err := os.Open(a.cfg.MocksFile)
	if err != nil {
		return nil, fmt.Errorf("open mocks: %w", err)
	}
	defer f.Close()
	return flow.LoadMocks(f)
}
