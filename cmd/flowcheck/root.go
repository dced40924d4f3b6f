package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thesyncim/flowcheck/pkg/config"
)

// app is the state shared by subcommands once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
	logger     *log.Logger
	stdout     io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), stdout: os.Stdout}

	root := &cobra.Command{
		Use:           "flowcheck",
		Short:         "Verify critical user flows in a headless browser",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.SetOut(a.stdout)

	d := config.Default()
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default ./flowcheck.yaml)")
	pf.String("base-url", d.BaseURL, "base URL of the application under test")
	pf.String("artifact-dir", d.ArtifactDir, "directory for screenshots")
	pf.Bool("headless", d.Headless, "run Chrome headless")
	pf.Duration("timeout", d.Timeout, "default timeout for assertions and actions")
	pf.Duration("idle-window", d.IdleWindow, "quiet window that counts as network idle")
	pf.String("browser-bin", d.BrowserBin, "Chrome binary (default: auto-detect or download)")
	pf.String("mocks", d.MocksFile, "YAML file replacing the transparency flow's API mocks")
	pf.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		"base_url":     "base-url",
		"artifact_dir": "artifact-dir",
		"headless":     "headless",
		"timeout":      "timeout",
		"idle_window":  "idle-window",
		"browser_bin":  "browser-bin",
		"mocks_file":   "mocks",
		"log_level":    "log-level",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(newRunCmd(a), newListCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Prefix:          "flowcheck",
		Level:           level,
	})
	return nil
}
