package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/keystore"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))

		token := "not set"
		if _, err := keychain().Token(); err == nil {
			token = "stored in keychain"
		}
		fmt.Println(ui.Meta("Backend token:    " + token))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetBackendCmd = &cobra.Command{
	Use:   "set-backend <url>",
	Short: "Set the deployment backend base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetBackend(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Backend set to %s", cfg.BackendURL)))
		return nil
	},
}

var configSetDefaultNetworkCmd = &cobra.Command{
	Use:   "set-default-network <network>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetDefaultNetwork(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s", ui.NetworkName(args[0]))))
		return nil
	},
}

var configAddNetworkCmd = &cobra.Command{
	Use:   "add-network <network>",
	Short: "Add a deployable network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("network name is empty")
		}
		if err := cfg.AddNetwork(name); err != nil {
			// Already configured; not fatal.
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network %s added", ui.NetworkName(name))))
		return nil
	},
}

var configRemoveNetworkCmd = &cobra.Command{
	Use:   "remove-network <network>",
	Short: "Remove a deployable network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveNetwork(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network %s removed", args[0])))
		return nil
	},
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store the backend API token in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keychain().SetToken(strings.TrimSpace(args[0])); err != nil {
			return err
		}
		fmt.Println(ui.Success("Backend token stored in the OS keychain"))
		return nil
	},
}

var configClearTokenCmd = &cobra.Command{
	Use:   "clear-token",
	Short: "Remove the backend API token from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ks := keychain()
		if _, err := ks.Token(); errors.Is(err, keystore.ErrNoToken) {
			fmt.Println(ui.Info("No backend token stored."))
			return nil
		}
		if !ui.ConfirmDanger("Remove the stored backend token?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := ks.ClearToken(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Backend token removed"))
		return nil
	},
}

// keychain returns the token store, opening the OS keychain on first use.
func keychain() keystore.TokenStore {
	if tokenStore == nil {
		tokenStore = keystore.Default()
	}
	return tokenStore
}

func init() {
	configCmd.AddCommand(
		configListCmd,
		configSetBackendCmd,
		configSetDefaultNetworkCmd,
		configAddNetworkCmd,
		configRemoveNetworkCmd,
		configSetTokenCmd,
		configClearTokenCmd,
	)
}
