package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var editArgs argsFlags

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Edit constructor arguments interactively",
	Long: `Open the constructor parameter editor.

One field per constructor input. An edit is only accepted if the new blob
decodes cleanly against the ABI. Press s to save; the saved blob is printed.

Examples:
  w3deploy edit ./build/Pair.json
  w3deploy edit ./build/Pair.json --args-hex 0x0000...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, draft, abiErr, err := loadDraft(args[0], &editArgs, true)
		if err != nil {
			return err
		}
		if abiErr != nil {
			return abiErr
		}

		blob, saved, err := ui.RunEditor(ui.NewEditor(c.Name, draft))
		if err != nil {
			return err
		}
		if !saved {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		fmt.Println("0x" + blob)
		fmt.Println(ui.Hint(fmt.Sprintf("Deploy it with: w3deploy deploy %s --args-hex 0x%s", args[0], blob)))
		return nil
	},
}

func init() {
	editArgs.register(editCmd)
}
