package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-create2/internal/cli/render"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// NewCallCmd creates the call command for read-only functions
func NewCallCmd() *cobra.Command {
	var flags targetFlags

	cmd := &cobra.Command{
		Use:   "call <artifact> [function] [args...]",
		Short: "Call a view function",
		Long: `Call a read-only function with eth_call and print its return values.

The function is given by name, or by signature when the name is overloaded.
Without a function an interactive picker is shown.

Examples:
  treb-create2 call Counter count --network sepolia
  treb-create2 call Token "balanceOf(address)" 0x1234... --arg "My Token" --arg MTK
  treb-create2 call Counter count --address 0x1234... --network sepolia`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, &flags, args, "", false, false)
		},
	}

	flags.register(cmd, true)

	return cmd
}

// NewSendCmd creates the send command for state-changing functions
func NewSendCmd() *cobra.Command {
	var flags targetFlags
	var value string
	var yes bool

	cmd := &cobra.Command{
		Use:   "send <artifact> [function] [args...]",
		Short: "Send a transaction to a contract function",
		Long: `Sign and send a transaction calling a state-changing function, then wait for
its receipt.

Examples:
  treb-create2 send Counter increment --network sepolia
  treb-create2 send Counter "setNumber(uint256)" 42 --network sepolia --yes
  treb-create2 send Vault deposit --value 0.1ether --address 0x1234... --network sepolia`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, &flags, args, value, yes, true)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&value, "value", "", "Wei sent with the transaction, e.g. 1000 or 0.1ether")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runInvoke(cmd *cobra.Command, flags *targetFlags, args []string, value string, yes, send bool) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	target, err := flags.target(args[0])
	if err != nil {
		return err
	}

	params := usecase.InvokeContractParams{Target: target, SkipConfirm: yes}
	if len(args) > 1 {
		params.Function = args[1]
		params.Args = args[2:]
	}

	var result *usecase.InvokeContractResult
	if send {
		params.Value, err = parseValue(value)
		if err != nil {
			return err
		}
		result, err = app.InvokeContract.Send(cmd.Context(), params)
	} else {
		result, err = app.InvokeContract.Call(cmd.Context(), params)
	}
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), render.NewInvocationJSON(result))
	}
	return render.NewMethodsRenderer(cmd.OutOrStdout()).RenderInvocation(result)
}
