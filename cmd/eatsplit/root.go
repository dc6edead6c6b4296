package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/henri123lemoine/eatsplit/internal/app"
	"github.com/henri123lemoine/eatsplit/internal/config"
	"github.com/henri123lemoine/eatsplit/internal/debug"
	"github.com/henri123lemoine/eatsplit/internal/ledger"
	"github.com/henri123lemoine/eatsplit/internal/ui"
)

// Environment overrides for the matching flags. A .env file in the working
// directory is loaded first.
const (
	envConfig = "EATSPLIT_CONFIG"
	envDebug  = "EATSPLIT_DEBUG"
)

type rootOptions struct {
	configPath string
	debugPath  string
	noSummary  bool
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "eatsplit",
		Short:         "Split bills with friends and keep track of who owes whom",
		Long:          `eatsplit keeps a list of friends with running balances for the current session and lets you split a bill with one of them.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv(envConfig), "set the config file path")
	cmd.Flags().StringVar(&opts.debugPath, "debug", os.Getenv(envDebug), "write a debug log to this file")
	cmd.Flags().BoolVar(&opts.noSummary, "no-summary", false, "don't print balances on exit")

	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath == "" {
		return config.ConfigPath(), nil
	}
	return expandPath(o.configPath)
}

func run(opts *rootOptions) error {
	if opts.debugPath != "" {
		path, err := expandPath(opts.debugPath)
		if err != nil {
			return err
		}
		if err := debug.Enable(path); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Close()
	}

	done := debug.Timed("startup")

	path, err := opts.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	for _, w := range cfg.Validate() {
		pterm.Warning.Println(w)
	}

	ui.ApplyTheme(cfg.UI.Theme)

	l := ledger.New(
		ledger.WithImageTemplate(cfg.General.ImageTemplate),
		ledger.WithFriends(cfg.SeedFriends()...),
	)
	debug.Log("seeded %d friends from %s", l.Len(), path)
	done()

	p := tea.NewProgram(app.New(cfg, l), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(app.Model); ok && m.ShouldQuit() && !opts.noSummary {
		return printSummary(m.Ledger(), cfg.General.Currency)
	}
	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}
