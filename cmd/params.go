package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
	"github.com/Mohsinsiddi/w3deploy/internal/ui"
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Encode and decode constructor arguments",
	Long: `Work with ABI-encoded constructor arguments without the interactive editor.

Supported parameter types: uint256, address. Every argument occupies one
32-byte word; a blob is the words concatenated in declaration order.`,
}

// constructorParams loads path and extracts its constructor inputs.
func constructorParams(path string) (*contract.Contract, []ctorargs.Param, error) {
	c, err := contract.Load(path)
	if err != nil {
		return nil, nil, err
	}
	params, err := ctorargs.ExtractConstructor(c.ABIString())
	if err != nil {
		return nil, nil, err
	}
	return c, params, nil
}

// ── params decode ─────────────────────────────────────────────────────────────

var paramsDecodeCmd = &cobra.Command{
	Use:   "decode <file> <hex>",
	Short: "Decode a constructor argument blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, err := constructorParams(args[0])
		if err != nil {
			return err
		}
		d := ctorargs.NewDraftFromParams(params, args[1])
		out := ui.RenderParams(d, nil)
		fmt.Print(out)

		if st := d.Status(); !st.Valid {
			log.WithError(st.Err).Debug("decode failed")
			return fmt.Errorf("%s: %w", st.Message(), st.Err)
		}
		return nil
	},
}

// ── params encode ─────────────────────────────────────────────────────────────

var paramsEncodeCmd = &cobra.Command{
	Use:   "encode <file> <args>",
	Short: "Encode a comma-separated argument list",
	Long: `Encode a comma-separated argument list against the constructor.

Numbers may be decimal or 0x/0o/0b prefixed. Addresses are given as hex.

Examples:
  w3deploy params encode Pair.json "1,0x0000000000000000000000000000000000000002"
  w3deploy params encode Pair.json "0xff, 42"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, err := constructorParams(args[0])
		if err != nil {
			return err
		}
		blob, err := ctorargs.Encode(params, args[1])
		if err != nil {
			return err
		}
		fmt.Println("0x" + blob)
		return nil
	},
}

// ── params defaults ───────────────────────────────────────────────────────────

var paramsDefaultsCmd = &cobra.Command{
	Use:   "defaults <file>",
	Short: "Print the all-zero argument blob for the constructor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, err := constructorParams(args[0])
		if err != nil {
			return err
		}
		blob, err := ctorargs.EncodeDefaults(params)
		if err != nil {
			return err
		}
		fmt.Println("0x" + blob)
		return nil
	},
}

// ── params set ────────────────────────────────────────────────────────────────

var paramsSetCmd = &cobra.Command{
	Use:   "set <file> <hex> <name=value>...",
	Short: "Change named fields of an argument blob",
	Long: `Apply single-field edits to an existing blob, in order.

Each edit replaces every parameter with that name, re-encodes the blob and
decodes it again. An edit that does not survive the round trip is reported
and skipped; the blob keeps its previous value.

Example:
  w3deploy params set Pair.json 0x000...0001000...0002 a=42 b=0xdead`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, err := constructorParams(args[0])
		if err != nil {
			return err
		}
		d := ctorargs.NewDraftFromParams(params, args[1])
		if st := d.Status(); !st.Valid {
			return fmt.Errorf("%s: %w", st.Message(), st.Err)
		}

		for _, kv := range args[2:] {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				fmt.Println(ui.Warn(fmt.Sprintf("skipping %q: expected name=value", kv)))
				continue
			}
			if err := d.Update(name, value); err != nil {
				log.WithError(err).WithField("field", name).Debug("edit rejected")
				fmt.Println(ui.Warn(fmt.Sprintf("%s not changed: %v", name, err)))
			}
		}
		fmt.Println("0x" + d.Blob())
		return nil
	},
}

func init() {
	paramsCmd.AddCommand(paramsDecodeCmd, paramsEncodeCmd, paramsDefaultsCmd, paramsSetCmd)
}
