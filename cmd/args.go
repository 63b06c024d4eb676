package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/ctorargs"
	"github.com/spf13/cobra"
)

// argsFlags are the two ways of passing constructor arguments on the command line.
type argsFlags struct {
	values string // --args "1,0xabc"
	hex    string // --args-hex 0x0000...
}

func (a *argsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.values, "args", "", `constructor arguments, comma separated (e.g. "1000,0xd8dA...")`)
	cmd.Flags().StringVar(&a.hex, "args-hex", "", "ABI-encoded constructor arguments as hex")
	cmd.MarkFlagsMutuallyExclusive("args", "args-hex")
}

func (a *argsFlags) set() bool {
	return a.values != "" || a.hex != ""
}

// blob resolves the flags into a hex blob. With neither flag set the result
// is the zero blob when zeroDefault is true and "" otherwise.
func (a *argsFlags) blob(params []ctorargs.Param, zeroDefault bool) (string, error) {
	switch {
	case a.hex != "":
		return a.hex, nil
	case a.values != "":
		return ctorargs.Encode(params, a.values)
	case zeroDefault:
		return ctorargs.EncodeDefaults(params)
	default:
		return "", nil
	}
}

// loadDraft reads a contract file and wraps the constructor arguments chosen
// by flags. abiErr is set when the ABI has no usable constructor; the
// contract itself is still returned so the caller can show the rest.
func loadDraft(path string, flags *argsFlags, zeroDefault bool) (c *contract.Contract, d *ctorargs.Draft, abiErr error, err error) {
	c, err = contract.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	params, abiErr := ctorargs.ExtractConstructor(c.ABIString())
	if abiErr != nil {
		return c, nil, abiErr, nil
	}

	blob, err := flags.blob(params, zeroDefault)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("constructor args: %w", err)
	}
	return c, ctorargs.NewDraftFromParams(params, blob), nil, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
