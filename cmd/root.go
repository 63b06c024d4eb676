package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/w3deploy/internal/backend"
	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/contract"
	"github.com/Mohsinsiddi/w3deploy/internal/keystore"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3deploy/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	log     = newLogger()

	// tokenStore is swapped out in tests.
	tokenStore keystore.TokenStore
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3deploy",
	Short: "Inspect, parameterise and deploy compiled contracts",
	Long: `w3deploy — inspect a compiled smart contract, edit its constructor
arguments and submit it to a deployment backend.

  Reads compile-service records, Hardhat/Foundry artifacts and raw ABI files.
  Constructor arguments are encoded as 32-byte words; every edit is checked
  by decoding the result before it is accepted.

Config lives in ~/.w3deploy (override with --config or W3DEPLOY_CONFIG_DIR).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log.WithFields(logrus.Fields{
			"dir":     cfg.Dir(),
			"backend": cfg.BackendURL,
		}).Debug("config loaded")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// W3DEPLOY_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("W3DEPLOY_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.w3deploy)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		inspectCmd,
		paramsCmd,
		editCmd,
		deployCmd,
		addressCmd,
		networksCmd,
		deploymentsCmd,
		configCmd,
	)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// newBackendClient builds a client for the configured backend.
func newBackendClient() *backend.Client {
	return backend.NewClient(cfg.BackendURL, cfg.Timeout(),
		backend.WithTokenStore(keychain()),
		backend.WithLogger(log),
	)
}

// newDeploymentRegistry returns the deployment registry under the config dir.
func newDeploymentRegistry() *contract.Registry {
	return contract.NewRegistry(cfg.DeploymentsPath())
}

// interactive reports whether stdin and stdout are both terminals.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
