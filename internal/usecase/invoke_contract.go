package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// ErrFunctionRequired is returned in non-interactive mode when no function was named
var ErrFunctionRequired = errors.New("function name required")

// InvokeContractParams contains parameters for calling a contract function
type InvokeContractParams struct {
	Target   ContractTarget
	Function string
	Args     []string
	// Value is sent along with state-changing calls
	Value       *big.Int
	SkipConfirm bool
}

// InvokeContractResult contains the outcome of an invocation
type InvokeContractResult struct {
	Address common.Address
	Method  MethodInfo
	// Outputs holds decoded return values of read-only calls
	Outputs []any
	// Receipt is set for transactions
	Receipt *domain.Receipt
	// Events are the decoded logs of the transaction
	Events []domain.DecodedEvent
}

// InvokeContract calls functions on a deterministic or attached contract
type InvokeContract struct {
	opener    *contractOpener
	selector  FunctionSelector
	confirmer Confirmer
	events    EventDecoder
	sink      ProgressSink
}

// NewInvokeContract creates a new InvokeContract use case
func NewInvokeContract(
	cfg *config.RuntimeConfig,
	artifacts ArtifactLoader,
	args ArgumentParser,
	handles *HandleFactory,
	signers SignerProvider,
	selector FunctionSelector,
	confirmer Confirmer,
	events EventDecoder,
	sink ProgressSink,
) *InvokeContract {
	return &InvokeContract{
		opener: &contractOpener{
			config:    cfg,
			artifacts: artifacts,
			args:      args,
			handles:   handles,
			signers:   signers,
		},
		selector:  selector,
		confirmer: confirmer,
		events:    events,
		sink:      sink,
	}
}

// Call executes a read-only function with eth_call
func (uc *InvokeContract) Call(ctx context.Context, params InvokeContractParams) (*InvokeContractResult, error) {
	handle, _, err := uc.opener.open(ctx, params.Target, false)
	if err != nil {
		return nil, err
	}

	method, values, err := uc.prepare(ctx, handle, params, true)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "calling",
		Message: fmt.Sprintf("Calling %s on %s", method.Signature, handle.Address().Hex()),
		Spinner: true,
	})
	outputs, err := handle.Call(ctx, method.Signature, values...)
	if err != nil {
		return nil, err
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Call complete"})

	return &InvokeContractResult{Address: handle.Address(), Method: method, Outputs: outputs}, nil
}

// Send submits a state-changing transaction and waits for its receipt
func (uc *InvokeContract) Send(ctx context.Context, params InvokeContractParams) (*InvokeContractResult, error) {
	handle, _, err := uc.opener.open(ctx, params.Target, true)
	if err != nil {
		return nil, err
	}

	method, values, err := uc.prepare(ctx, handle, params, false)
	if err != nil {
		return nil, err
	}

	if !params.SkipConfirm && !uc.opener.config.NonInteractive {
		prompt := fmt.Sprintf("Send %s to %s on %s?", method.Signature, handle.Address().Hex(), uc.opener.config.Network.Name)
		ok, err := uc.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "sending",
		Message: fmt.Sprintf("Sending %s to %s", method.Signature, handle.Address().Hex()),
		Spinner: true,
	})
	receipt, err := handle.SendTxWithValue(ctx, params.Value, method.Signature, values...)
	if err != nil {
		return nil, err
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Transaction confirmed"})

	result := &InvokeContractResult{Address: handle.Address(), Method: method, Receipt: receipt}
	if uc.events != nil {
		result.Events = uc.events.DecodeLogs(ctx, handle.ABI(), handle.Address(), receipt.Logs)
	}
	return result, nil
}

// prepare resolves the function, prompting for it when allowed, and parses its arguments
func (uc *InvokeContract) prepare(ctx context.Context, handle *ContractHandle, params InvokeContractParams, readOnly bool) (MethodInfo, []any, error) {
	name := params.Function
	if name == "" {
		if uc.opener.config.NonInteractive {
			return MethodInfo{}, nil, ErrFunctionRequired
		}
		candidates := lo.Filter(handle.Methods(), func(m MethodInfo, _ int) bool { return m.ReadOnly() == readOnly })
		if len(candidates) == 0 {
			return MethodInfo{}, nil, &domain.FunctionNotFoundError{Name: "(any)"}
		}
		picked, err := uc.selector.SelectFunction(ctx, candidates, "Select function")
		if err != nil {
			return MethodInfo{}, nil, err
		}
		name = picked.Signature
	}

	method, err := handle.Method(name, len(params.Args))
	if err != nil {
		return MethodInfo{}, nil, err
	}
	inputs, err := handle.Inputs(method.Signature, len(params.Args))
	if err != nil {
		return MethodInfo{}, nil, err
	}
	values, err := uc.opener.args.ParseArgs(inputs, params.Args)
	if err != nil {
		return MethodInfo{}, nil, err
	}
	return method, values, nil
}
