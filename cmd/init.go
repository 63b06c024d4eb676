package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Launch the interactive setup wizard to choose the default network and backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		result, err := ui.RunWizard(cfg.Networks, cfg.BackendURL)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		// Apply wizard results to config.
		if result.DefaultNetwork != "" {
			if err := cfg.SetDefaultNetwork(result.DefaultNetwork); err != nil {
				return err
			}
		}
		if result.BackendURL != "" && result.BackendURL != cfg.BackendURL {
			if err := cfg.SetBackend(result.BackendURL); err != nil {
				return err
			}
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success("w3deploy configured! Run `w3deploy --help` to explore commands."))
		fmt.Println(ui.Hint("Store a backend token with: w3deploy config set-token <token>"))
		return nil
	},
}
