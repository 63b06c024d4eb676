package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var (
	inspectArgs    argsFlags
	inspectFull    bool
	inspectSource  bool
	inspectOffline bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show compiler settings, bytecode, ABI and constructor arguments",
	Long: `Show everything w3deploy knows about a contract file.

Compiler language and version, optimizer settings, the bytecode hash and
size, the ABI, the constructor argument hex and its decoded parameters. A
random candidate address is fetched from the backend unless --offline.

Without --args or --args-hex the constructor arguments start at zero.

Examples:
  w3deploy inspect ./build/Pair.json
  w3deploy inspect ./build/Pair.json --args "1000,0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
  w3deploy inspect ./build/Pair.json --full --source --offline`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, draft, abiErr, err := loadDraft(args[0], &inspectArgs, true)
		if err != nil {
			return err
		}

		view := ui.DetailView{
			Contract:       c,
			Draft:          draft,
			DraftErr:       abiErr,
			Networks:       cfg.Networks,
			DefaultNetwork: cfg.DefaultNetwork,
			FullBytecode:   inspectFull,
			ShowSource:     inspectSource,
		}

		if !inspectOffline {
			spin := ui.NewSpinner("Fetching candidate address...")
			spin.Start()
			view.Address, view.AddressErr = newBackendClient().RandomAddress(context.Background())
			spin.Stop()
		}

		fmt.Println(view.Render())
		if abiErr == nil && !draft.Status().Valid {
			fmt.Println(ui.Hint("Fix the arguments with: w3deploy edit " + args[0]))
		}
		return nil
	},
}

func init() {
	inspectArgs.register(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectFull, "full", false, "print the full bytecode hex")
	inspectCmd.Flags().BoolVar(&inspectSource, "source", false, "print the contract source")
	inspectCmd.Flags().BoolVar(&inspectOffline, "offline", false, "do not contact the backend")
}
