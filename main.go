package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chmont/crate/internal/app"
	"github.com/chmont/crate/internal/config"
	"github.com/chmont/crate/internal/errmsg"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "crate [path]",
		Short:         "Scan a music folder and match albums against MusicBrainz",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
			}

			root, err := resolveRoot(cfg, args)
			if err != nil {
				return err
			}

			p := tea.NewProgram(app.New(cfg, root), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}
			return nil
		},
	}
}

// resolveRoot picks the scan root: positional argument, then configured
// default folder, then the current working directory. The path must be an
// existing directory; anything else fails before any UI is drawn.
func resolveRoot(cfg *config.Config, args []string) (string, error) {
	var root string
	switch {
	case len(args) > 0:
		root = args[0]
	case cfg.DefaultFolder != "":
		root = cfg.DefaultFolder
	default:
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", root)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", root)
	}
	return root, nil
}
