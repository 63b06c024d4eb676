package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List deployable networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ui.NewTable([]ui.Column{
			{Title: "#", Width: 3},
			{Title: "Network", Width: 20},
			{Title: "Default", Width: 8},
		})
		for i, n := range cfg.Networks {
			def := ""
			if n == cfg.DefaultNetwork {
				def = "✓"
			}
			t.AddRow(ui.Row{fmt.Sprintf("%d", i+1), n, def})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%s configured", plural(len(cfg.Networks), "network"))))
		fmt.Println(ui.Hint("Add one with: w3deploy config add-network <name>"))
		return nil
	},
}
