package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/cli/render"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var flags targetFlags
	var onchain bool

	cmd := &cobra.Command{
		Use:   "predict <artifact>",
		Short: "Predict the deployment address of a contract",
		Long: `Predict the address a contract will be deployed to through the CREATE2 factory.

The address depends only on the factory, the salt and the init code (bytecode
plus encoded constructor arguments). No network is needed unless the factory
mixes the chain or sender into the salt, or the deployment status is wanted.

Examples:
  treb-create2 predict Counter
  treb-create2 predict Counter --salt 0x01 --arg 42
  treb-create2 predict src/Token.sol:Token --arg "My Token" --arg MTK --network sepolia
  treb-create2 predict Counter --factory createx --network sepolia --onchain`,
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

			result, err := app.PredictAddress.Run(cmd.Context(), usecase.PredictAddressParams{
				Target:  target,
				Onchain: onchain,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewPredictionJSON(result))
			}
			return render.NewContractRenderer(cmd.OutOrStdout()).RenderPrediction(result, app.Config.Network)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&onchain, "onchain", false, "Cross-check the address with the factory's computeCreate2Address")

	return cmd
}
