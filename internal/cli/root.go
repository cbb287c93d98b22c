package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/app"
	"github.com/trebuchet-org/treb-create2/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "treb-create2",
		Short: "Deterministic CREATE2 deployments for Foundry artifacts",
		Long: `treb-create2 predicts and deploys contracts at deterministic addresses through
a CREATE2 factory (the Deterministic Deployment Proxy or CreateX), and calls
functions on them by name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			v := config.SetupViper(config.FindProjectRoot(), cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cancel != nil {
				cancel()
			}
			if appInstance, err := getApp(cmd); err == nil {
				appInstance.Close()
			}
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("network", "n", "", "Network from foundry.toml [rpc_endpoints]")
	flags.String("rpc-url", "", "RPC endpoint, instead of --network")
	flags.Uint64("chain-id", 0, "Expected chain ID of --rpc-url (fetched when omitted)")
	flags.String("sender", "", "Sender from treb.toml used to sign transactions")
	flags.String("factory", "", "CREATE2 factory: arachnid or createx")
	flags.String("factory-address", "", "Override the factory address")
	flags.StringP("namespace", "s", "", "Namespace in treb.toml (defaults to 'default')")
	flags.Uint64("gas-limit", 0, "Gas limit for transactions (estimated when omitted)")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "contract",
		Title: "Contract Commands",
	})

	for _, cmd := range []*cobra.Command{NewPredictCmd(), NewDeployCmd(), NewStatusCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewCallCmd(), NewSendCmd(), NewMethodsCmd()} {
		cmd.GroupID = "contract"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
