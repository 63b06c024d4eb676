package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Mohsinsiddi/w3deploy/internal/backend"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	deployArgs    argsFlags
	deployNetwork string
	deployAddress string
	deployEdit    bool
	deployYes     bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy <file>",
	Short: "Submit a contract to the deployment backend",
	Long: `Package bytecode, constructor arguments, source and compiler metadata
into a deployment request and POST it to the backend.

Constructor arguments come from --args, --args-hex or the interactive editor
(--edit). They must decode cleanly against the constructor before anything
is sent. Without --network the default network is used, or a picker is shown
on a terminal.

The backend response is printed and recorded in deployments.json.

Examples:
  w3deploy deploy ./build/Pair.json --args "1000,0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
  w3deploy deploy ./build/Pair.json --edit --network amoy
  w3deploy deploy ./build/Counter.json --yes --address 0x00000000000000000000000000000000000000aa`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, draft, abiErr, err := loadDraft(args[0], &deployArgs, deployEdit)
		if err != nil {
			return err
		}
		if abiErr != nil {
			return abiErr
		}
		if err := c.RequireBytecode(); err != nil {
			return err
		}

		if deployEdit {
			if !interactive() {
				return fmt.Errorf("--edit needs a terminal")
			}
			blob, saved, err := ui.RunEditor(ui.NewEditor(c.Name, draft))
			if err != nil {
				return err
			}
			if !saved {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
			draft.SetBlob(blob)
		}

		if err := checkDraft(draft); err != nil {
			return err
		}

		network, err := resolveNetwork(deployNetwork)
		if err != nil {
			return err
		}
		if network == "" {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		req, err := backend.NewDeployRequest(c, draft.Blob(), network, deployAddress)
		if err != nil {
			return err
		}

		target := "chosen by backend"
		if req.Address != nil {
			target = ui.Addr(*req.Address)
		}
		fmt.Println(ui.KeyValueBlock("Deployment Preview", [][2]string{
			{"Contract", c.Name},
			{"Network", ui.NetworkName(network)},
			{"Bytecode", fmt.Sprintf("%d bytes  %s", len(c.Bytecode), ui.Meta(contract.CodeHash(c.Bytecode)))},
			{"Constructor args", plural(len(draft.Params()), "argument")},
			{"Address", target},
			{"Backend", cfg.BackendURL},
		}))

		if !deployYes && !ui.Confirm("Submit this deployment?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		spin := ui.NewSpinner(fmt.Sprintf("Submitting %s to %s...", c.Name, network))
		spin.Start()
		resp, err := newBackendClient().CreateContract(ctx, req)
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("%s submitted to %s", c.Name, ui.NetworkName(network))))
		fmt.Println(prettyJSON(resp))

		if err := recordDeployment(c, draft, req, resp); err != nil {
			log.WithError(err).Warn("could not record deployment")
			fmt.Println(ui.Warn("Deployment was submitted but could not be recorded: " + err.Error()))
			return nil
		}
		fmt.Println(ui.Hint("See all submissions with: w3deploy deployments list"))
		return nil
	},
}

// checkDraft refuses blobs that do not decode against the constructor.
func checkDraft(d *ctorargs.Draft) error {
	st := d.Status()
	if st.Valid {
		return nil
	}
	return fmt.Errorf("%s (constructor takes %s): %w\n  Pass --args, --args-hex or --edit",
		st.Message(), plural(len(d.Params()), "argument"), st.Err)
}

// resolveNetwork picks the target network. An empty flag means the default,
// or the picker on a terminal. "" with a nil error means the user cancelled.
func resolveNetwork(flag string) (string, error) {
	if flag != "" {
		if !cfg.HasNetwork(flag) {
			return "", fmt.Errorf("unknown network %q — run `w3deploy networks` to see configured networks", flag)
		}
		return flag, nil
	}
	if deployYes || !interactive() || len(cfg.Networks) < 2 {
		return cfg.DefaultNetwork, nil
	}

	items := make([]ui.PickerItem, len(cfg.Networks))
	for i, n := range cfg.Networks {
		items[i] = ui.PickerItem{Label: n, Value: n}
		if n == cfg.DefaultNetwork {
			items[i].SubLabel = "default"
		}
	}
	return ui.PickItem("Deploy to which network?", items)
}

func recordDeployment(c *contract.Contract, d *ctorargs.Draft, req *backend.DeployRequest, resp json.RawMessage) error {
	var address string
	if req.Address != nil {
		address = *req.Address
	}
	reg := newDeploymentRegistry()
	if err := reg.Load(); err != nil {
		return err
	}
	reg.Add(&contract.Deployment{
		Name:            c.Name,
		Network:         req.Network,
		CodeHash:        contract.CodeHash(c.Bytecode),
		ConstructorArgs: "0x" + d.Blob(),
		Address:         address,
		SubmittedAt:     time.Now().UTC().Format(time.RFC3339),
		Response:        resp,
	})
	log.WithFields(logrus.Fields{"name": c.Name, "network": req.Network}).Debug("deployment recorded")
	return reg.Save()
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func init() {
	deployArgs.register(deployCmd)
	deployCmd.Flags().StringVarP(&deployNetwork, "network", "n", "", "target network (default: config default_network)")
	deployCmd.Flags().StringVar(&deployAddress, "address", "", "request a specific deployment address")
	deployCmd.Flags().BoolVar(&deployEdit, "edit", false, "edit constructor arguments before submitting")
	deployCmd.Flags().BoolVarP(&deployYes, "yes", "y", false, "skip the confirmation prompt")
}
