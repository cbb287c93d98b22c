package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/cli/render"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// NewMethodsCmd creates the methods command
func NewMethodsCmd() *cobra.Command {
	var view, write bool

	cmd := &cobra.Command{
		Use:   "methods <artifact>",
		Short: "List the functions of a contract",
		Long: `List the functions of an artifact with their selectors and state mutability.

Examples:
  treb-create2 methods Counter
  treb-create2 methods src/Token.sol:Token --view`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListMethods.Run(cmd.Context(), usecase.ListMethodsParams{
				ArtifactRef: args[0],
				ReadOnly:    view,
				Writable:    write,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewMethodsRenderer(cmd.OutOrStdout()).RenderMethods(result)
		},
	}

	cmd.Flags().BoolVar(&view, "view", false, "Only list view and pure functions")
	cmd.Flags().BoolVar(&write, "write", false, "Only list state-changing functions")

	return cmd
}
