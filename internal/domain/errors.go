package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for deployment and invocation failures
var (
	// ErrInvalidInputLength is returned when a salt, address or init code has the wrong size
	ErrInvalidInputLength = errors.New("invalid input length")

	// ErrInvalidSalt is returned when the factory would reject the salt layout
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrFunctionNotFound is returned when the ABI has no entry for a function name
	ErrFunctionNotFound = errors.New("function not found")

	// ErrArgumentMismatch is returned when arguments do not match the ABI signature
	ErrArgumentMismatch = errors.New("argument mismatch")

	// ErrDecode is returned when return data cannot be decoded against the ABI outputs
	ErrDecode = errors.New("decode error")

	// ErrDeploymentFailed is returned when the factory transaction reverted or was dropped
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrAlreadyDeployed is returned when a concurrent deployment won the race. It is benign.
	ErrAlreadyDeployed = errors.New("already deployed")

	// ErrTransactionReverted is returned when a state-changing call reverted on-chain
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrTransactionDropped is returned when a submitted transaction disappeared from the node
	ErrTransactionDropped = errors.New("transaction dropped")

	// ErrRPCUnavailable is returned on transport or node failures
	ErrRPCUnavailable = errors.New("rpc unavailable")

	// ErrInsufficientFunds is returned when the signer cannot pay for value plus gas
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSignerRequired is returned when a write operation is attempted on a read-only handle
	ErrSignerRequired = errors.New("signer required")

	// ErrChainIDMismatch is returned when the RPC endpoint serves a different chain than requested
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrNotFound is returned when a requested artifact, network or sender doesn't exist
	ErrNotFound = errors.New("not found")
)

type InvalidInputLengthError struct {
	Field string
	Got   int
	Want  string
}

func (e *InvalidInputLengthError) Error() string {
	return fmt.Sprintf("invalid %s length: got %d bytes, want %s", e.Field, e.Got, e.Want)
}

func (e *InvalidInputLengthError) Unwrap() error { return ErrInvalidInputLength }

// FunctionNotFoundError names the missing function and the closest ABI entries.
type FunctionNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *FunctionNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("function %q not found in ABI", e.Name)
	}
	return fmt.Sprintf("function %q not found in ABI (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *FunctionNotFoundError) Unwrap() error { return ErrFunctionNotFound }

type ArgumentMismatchError struct {
	Method string
	Reason string
	Err    error
}

func (e *ArgumentMismatchError) Error() string {
	msg := "argument mismatch: " + e.Reason
	if e.Method != "" {
		msg = fmt.Sprintf("arguments for %s: %s", e.Method, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArgumentMismatchError) Is(target error) bool { return target == ErrArgumentMismatch }

func (e *ArgumentMismatchError) Unwrap() error { return e.Err }

type DecodeError struct {
	Method string
	Data   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode return data of %s (%d bytes): %v", e.Method, len(e.Data), e.Err)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

type DeploymentFailedError struct {
	Address common.Address
	TxHash  common.Hash
	Reason  string
	Err     error
}

func (e *DeploymentFailedError) Error() string {
	msg := fmt.Sprintf("deployment of %s failed", e.Address.Hex())
	if e.TxHash != (common.Hash{}) {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash.Hex())
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeploymentFailedError) Is(target error) bool { return target == ErrDeploymentFailed }

func (e *DeploymentFailedError) Unwrap() error { return e.Err }

// AlreadyDeployedError reports that another submission deployed the contract first.
type AlreadyDeployedError struct {
	Address common.Address
	TxHash  common.Hash
}

func (e *AlreadyDeployedError) Error() string {
	if e.TxHash == (common.Hash{}) {
		return fmt.Sprintf("contract already deployed at %s", e.Address.Hex())
	}
	return fmt.Sprintf("contract already deployed at %s (tx %s reverted)", e.Address.Hex(), e.TxHash.Hex())
}

func (e *AlreadyDeployedError) Unwrap() error { return ErrAlreadyDeployed }

type TransactionRevertedError struct {
	Method  string
	Receipt *Receipt
	Reason  string
	// Data is the raw revert data when the node returned it
	Data []byte
}

func (e *TransactionRevertedError) Error() string {
	msg := fmt.Sprintf("transaction %s reverted", e.Method)
	if e.Receipt != nil {
		msg += fmt.Sprintf(" (tx %s, block %d)", e.Receipt.TxHash.Hex(), e.Receipt.BlockNumber)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransactionRevertedError) Unwrap() error { return ErrTransactionReverted }

// RPCError wraps a transport failure of a single RPC operation.
type RPCError struct {
	Op  string
	Err error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Op, e.Err)
}

func (e *RPCError) Is(target error) bool { return target == ErrRPCUnavailable }

func (e *RPCError) Unwrap() error { return e.Err }

type InsufficientFundsError struct {
	Account  common.Address
	Balance  string
	Required string
}

func (e *InsufficientFundsError) Error() string {
	if e.Required == "" {
		return fmt.Sprintf("insufficient funds: %s has balance %s wei", e.Account.Hex(), e.Balance)
	}
	return fmt.Sprintf("insufficient funds: %s has %s wei, needs %s wei", e.Account.Hex(), e.Balance, e.Required)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// AmbiguousArtifactErr is returned when an artifact reference matches several files.
type AmbiguousArtifactErr struct {
	Ref     string
	Matches []string
}

func (e AmbiguousArtifactErr) Error() string {
	var suggestions []string
	for _, m := range e.Matches {
		suggestions = append(suggestions, "  - "+m)
	}
	return fmt.Sprintf("multiple artifacts found matching %q - use File.sol:Contract or a path to disambiguate:\n%s",
		e.Ref, strings.Join(suggestions, "\n"))
}
