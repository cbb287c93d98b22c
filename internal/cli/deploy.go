package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/cli/render"
	"github.com/trebuchet-org/treb-create2/internal/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var flags targetFlags
	var value string
	var specFile string
	var yes bool

	cmd := &cobra.Command{
		Use:   "deploy [artifact]",
		Short: "Deploy a contract to its deterministic address",
		Long: `Deploy a contract through the CREATE2 factory. If code already exists at the
predicted address nothing is sent and the existing address is reported.

Deployment inputs can be given as flags or in a YAML file:

  artifact: src/Counter.sol:Counter
  salt: "0x01"
  constructorArgs: ["42"]
  value: 0

Flags override values from the file.

Examples:
  treb-create2 deploy Counter --network sepolia
  treb-create2 deploy Counter --salt 0x01 --arg 42 --network sepolia --yes
  treb-create2 deploy --spec deploy/counter.yaml --network sepolia`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var artifactRef string
			if len(args) > 0 {
				artifactRef = args[0]
			}

			if specFile != "" {
				spec, err := config.LoadDeploymentFile(specFile)
				if err != nil {
					return err
				}
				if artifactRef == "" {
					artifactRef = spec.Artifact
				}
				if !cmd.Flags().Changed("salt") {
					flags.salt = spec.Salt
				}
				if !cmd.Flags().Changed("arg") {
					flags.args = spec.ConstructorArgs
				}
				if !cmd.Flags().Changed("value") {
					value = spec.Value
				}
			}
			if artifactRef == "" {
				return fmt.Errorf("artifact required, pass it as an argument or with --spec")
			}

			target, err := flags.target(artifactRef)
			if err != nil {
				return err
			}
			target.Value, err = parseValue(value)
			if err != nil {
				return err
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Target:      target,
				SkipConfirm: yes,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewDeploymentJSON(result))
			}
			return render.NewContractRenderer(cmd.OutOrStdout()).RenderDeployment(result)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&value, "value", "", "Wei sent to the constructor, e.g. 1000 or 0.1ether")
	cmd.Flags().StringVar(&specFile, "spec", "", "YAML file with deployment inputs")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
