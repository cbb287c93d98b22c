package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/cli/render"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var flags targetFlags

	cmd := &cobra.Command{
		Use:   "status <artifact>",
		Short: "Check whether a contract is deployed",
		Long: `Check for code at a contract's predicted address, or at --address.

Examples:
  treb-create2 status Counter --network sepolia
  treb-create2 status Counter --salt 0x01 --arg 42 --network sepolia
  treb-create2 status Counter --address 0x1234... --network sepolia`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			target, err := flags.target(args[0])
			if err != nil {
				return err
			}

			result, err := app.CheckDeployment.Run(cmd.Context(), usecase.CheckDeploymentParams{Target: target})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewStatusJSON(result))
			}
			return render.NewContractRenderer(cmd.OutOrStdout()).RenderStatus(result)
		},
	}

	flags.register(cmd, true)

	return cmd
}
