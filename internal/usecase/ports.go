package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// ChainClient is the read side of a chain connection
type ChainClient interface {
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Signer signs and submits transactions for a single account
type Signer interface {
	Address() common.Address
	SignAndSend(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*domain.Receipt, error)
}

// Factory is a CREATE2 deployment factory contract
type Factory interface {
	Name() string
	Address() common.Address
	// EffectiveSalt returns the salt the factory passes to CREATE2 when sender
	// submits salt on chainID.
	EffectiveSalt(salt [32]byte, sender common.Address, chainID uint64) ([32]byte, error)
	// DeployCalldata builds the factory call that deploys initCode under salt.
	DeployCalldata(salt [32]byte, initCode []byte) ([]byte, error)
}

// OnchainPredictor is implemented by factories that expose an address view function
type OnchainPredictor interface {
	ComputeAddressOnchain(ctx context.Context, client ChainClient, salt [32]byte, initCodeHash common.Hash) (common.Address, error)
}

// ErrorDecoder is implemented by factories with custom revert errors
type ErrorDecoder interface {
	DecodeError(data []byte) (string, bool)
}

// ChainDialer opens chain connections
type ChainDialer interface {
	Dial(ctx context.Context, rpcEndpoint string, chainID uint64) (ChainClient, error)
}

// SignerProvider resolves named senders into signers. An empty sender name
// selects the configured default; ErrSignerRequired is returned when there is none.
type SignerProvider interface {
	Signer(ctx context.Context, network *config.Network, sender string) (Signer, error)
	Address(ctx context.Context, sender string) (common.Address, error)
}

// ArtifactLoader resolves artifact references into compiled contracts
type ArtifactLoader interface {
	Load(ctx context.Context, ref string) (*domain.Artifact, error)
}

// ArgumentParser converts command line strings into ABI values
type ArgumentParser interface {
	ParseArgs(inputs abi.Arguments, raw []string) ([]any, error)
}

// ABIResolver finds the ABI of a contract by its address
type ABIResolver interface {
	FindByAddress(ctx context.Context, address common.Address) (*abi.ABI, error)
}

// EventDecoder decodes receipt logs. Logs from emitter use contractABI,
// other emitters are looked up.
type EventDecoder interface {
	DecodeLogs(ctx context.Context, contractABI *abi.ABI, emitter common.Address, logs []*types.Log) []domain.DecodedEvent
}

// Confirmer asks the user to approve a state-changing action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// FunctionSelector lets the user pick a function when none was given
type FunctionSelector interface {
	SelectFunction(ctx context.Context, methods []MethodInfo, prompt string) (*MethodInfo, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
