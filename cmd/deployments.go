package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "Recorded deployment submissions",
}

var deploymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded deployment submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newDeploymentRegistry()
		if err := reg.Load(); err != nil {
			return err
		}

		all := reg.All()
		if len(all) == 0 {
			fmt.Println(ui.Info("No deployments recorded yet."))
			fmt.Println(ui.Hint("Submit one with: w3deploy deploy <file> --args <values>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Network", Width: 10},
			{Title: "Submitted", Width: 20},
			{Title: "Code Hash", Width: 14},
			{Title: "Address", Width: 42},
		})
		for _, d := range all {
			addr := d.Address
			if addr == "" {
				addr = "-"
			}
			t.AddRow(ui.Row{d.Name, d.Network, d.SubmittedAt, ui.TruncateAddr(d.CodeHash), addr})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%s recorded in %s", plural(len(all), "deployment"), cfg.DeploymentsPath())))
		return nil
	},
}

var deploymentsShowCmd = &cobra.Command{
	Use:   "show <name> [network]",
	Short: "Show a recorded deployment and the backend response",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		network := cfg.DefaultNetwork
		if len(args) == 2 {
			network = args[1]
		}

		reg := newDeploymentRegistry()
		if err := reg.Load(); err != nil {
			return err
		}
		d, err := reg.Get(args[0], network)
		if err != nil {
			return err
		}

		addr := d.Address
		if addr == "" {
			addr = "chosen by backend"
		}
		fmt.Println(ui.KeyValueBlock(d.Name+" on "+d.Network, [][2]string{
			{"Submitted", d.SubmittedAt},
			{"Code hash", d.CodeHash},
			{"Constructor args", d.ConstructorArgs},
			{"Address", addr},
		}))
		fmt.Println(prettyJSON(d.Response))
		return nil
	},
}

var deploymentsRemoveCmd = &cobra.Command{
	Use:   "remove <name> <network>",
	Short: "Forget a recorded deployment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newDeploymentRegistry()
		if err := reg.Load(); err != nil {
			return err
		}
		if err := reg.Remove(args[0], args[1]); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed %s on %s", args[0], args[1])))
		return nil
	},
}

func init() {
	deploymentsCmd.AddCommand(deploymentsListCmd, deploymentsShowCmd, deploymentsRemoveCmd)
}
