package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Fetch a random candidate deployment address from the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spin := ui.NewSpinner("Fetching candidate address...")
		spin.Start()
		addr, err := newBackendClient().RandomAddress(context.Background())
		spin.Stop()
		if err != nil {
			return err
		}
		fmt.Println(ui.Addr(addr))
		fmt.Println(ui.Hint("Request it with: w3deploy deploy <file> --address " + addr))
		return nil
	},
}
