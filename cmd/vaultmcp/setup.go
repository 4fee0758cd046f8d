package main

import (
	"errors"
	"fmt"

	"vaultmcp/internal/config"
	"vaultmcp/internal/tui/helpers"
	"vaultmcp/internal/tui/setupmenu"
	"vaultmcp/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errSetupCancelled = errors.New("setup cancelled")

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure vaultmcp interactively",
		Long:  "Run the setup wizard. The config file is written to $XDG_CONFIG_HOME/vaultmcp/config.yaml unless --config is given; the API key goes to the OS keyring.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := config.LoadOrDefault()
			if err != nil {
				a.logger.Warn("Ignoring unreadable config file", "error", err)
				def := config.DefaultConfig()
				seed = &def
			}

			model := setupmenu.NewSetupModel(helpers.NewUIContext(0, 0, seed, a.logger))
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

			final, err := program.Run()
			if err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}

			setup, ok := final.(*setupmenu.SetupModel)
			if !ok || setup.Cancelled {
				return errSetupCancelled
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.SuccessStyle.Render("Configuration saved to "+setup.SavedPath))
			if setup.PingWarning != nil {
				fmt.Fprintln(out, styles.WarningStyle.Render("Warning: could not reach the REST API: "+setup.PingWarning.Error()))
			}
			return nil
		},
	}
}
