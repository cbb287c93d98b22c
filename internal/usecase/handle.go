package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

// ErrNoDeploymentSpec is returned by Deploy on a handle attached to an existing address
var ErrNoDeploymentSpec = errors.New("handle has no deployment spec")

// ContractHandle binds a contract ABI to an address on one chain. Handles
// created from a deployment spec know their address before the contract
// exists; attached handles point at an address given by the caller.
// A handle is safe for concurrent use.
type ContractHandle struct {
	address  common.Address
	spec     *domain.DeploymentSpec
	abi      abi.ABI
	methods  *methodTable
	client   ChainClient
	signer   Signer
	deployer *DeterministicDeployer
	log      *slog.Logger
}

// NewContractHandle creates a handle for spec at its predicted address
func NewContractHandle(spec *domain.DeploymentSpec, client ChainClient, signer Signer, factory Factory, sink ProgressSink, log *slog.Logger) (*ContractHandle, error) {
	if len(spec.Bytecode) == 0 {
		return nil, &domain.InvalidInputLengthError{Field: "bytecode", Got: 0, Want: "at least 1 byte"}
	}

	deployer := NewDeterministicDeployer(client, signer, factory, sink, log)
	address, err := deployer.Predict(spec)
	if err != nil {
		return nil, err
	}

	return &ContractHandle{
		address:  address,
		spec:     spec,
		abi:      spec.ABI,
		methods:  newMethodTable(spec.ABI),
		client:   client,
		signer:   signer,
		deployer: deployer,
		log:      deployer.log.With("contract", address.Hex()),
	}, nil
}

// AttachContractHandle binds contractABI to a known address. The handle cannot deploy.
func AttachContractHandle(address common.Address, contractABI abi.ABI, client ChainClient, signer Signer, log *slog.Logger) *ContractHandle {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ContractHandle{
		address: address,
		abi:     contractABI,
		methods: newMethodTable(contractABI),
		client:  client,
		signer:  signer,
		log:     log.With("contract", address.Hex()),
	}
}

func (h *ContractHandle) Address() common.Address {
	return h.address
}

// Spec returns the deployment spec, or nil for attached handles
func (h *ContractHandle) Spec() *domain.DeploymentSpec {
	return h.spec
}

// ABI returns the contract interface the handle was built with
func (h *ContractHandle) ABI() *abi.ABI {
	return &h.abi
}

func (h *ContractHandle) Signer() Signer {
	return h.signer
}

// Methods lists the callable functions sorted by name and signature
func (h *ContractHandle) Methods() []MethodInfo {
	return h.methods.list()
}

// Method looks up a function by name or full signature
func (h *ContractHandle) Method(name string, argc int) (MethodInfo, error) {
	entry, err := h.methods.resolve(name, argc)
	if err != nil {
		return MethodInfo{}, err
	}
	return entry.info(), nil
}

// Inputs returns the ABI inputs of a function so raw arguments can be parsed
func (h *ContractHandle) Inputs(name string, argc int) (abi.Arguments, error) {
	entry, err := h.methods.resolve(name, argc)
	if err != nil {
		return nil, err
	}
	return entry.method.Inputs, nil
}

// IsDeployed reports whether the handle's address carries code
func (h *ContractHandle) IsDeployed(ctx context.Context) (bool, error) {
	code, err := h.Code(ctx)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

// Code returns the runtime code at the handle's address
func (h *ContractHandle) Code(ctx context.Context) ([]byte, error) {
	code, err := h.client.CodeAt(ctx, h.address)
	if err != nil {
		return nil, fmt.Errorf("check code at %s: %w", h.address.Hex(), err)
	}
	return code, nil
}

// FactoryDeployed reports whether the factory contract exists on the handle's
// chain. Attached handles have no factory and return false.
func (h *ContractHandle) FactoryDeployed(ctx context.Context) (bool, error) {
	if h.deployer == nil {
		return false, nil
	}
	return h.deployer.IsDeployed(ctx, h.deployer.Factory().Address())
}

// Deploy deploys the contract if it is not deployed yet
func (h *ContractHandle) Deploy(ctx context.Context) (*domain.DeployResult, error) {
	if h.spec == nil {
		return nil, fmt.Errorf("deploy %s: %w", h.address.Hex(), ErrNoDeploymentSpec)
	}
	return h.deployer.Deploy(ctx, h.spec)
}

// Call executes a read-only function with eth_call and decodes its outputs
func (h *ContractHandle) Call(ctx context.Context, name string, args ...any) ([]any, error) {
	entry, err := h.methods.resolve(name, len(args))
	if err != nil {
		return nil, err
	}
	data, err := entry.encode(args)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{To: &h.address, Data: data}
	if h.signer != nil {
		msg.From = h.signer.Address()
	}

	h.log.Debug("calling contract", "method", entry.method.Sig)
	out, err := h.client.Call(ctx, msg)
	if err != nil {
		var reverted *domain.TransactionRevertedError
		if errors.As(err, &reverted) {
			return nil, &domain.TransactionRevertedError{Method: entry.method.Sig, Reason: reverted.Reason}
		}
		return nil, fmt.Errorf("call %s: %w", entry.method.Sig, err)
	}

	if len(out) == 0 && len(entry.method.Outputs) > 0 {
		if deployed, cerr := h.IsDeployed(ctx); cerr == nil && !deployed {
			return nil, &domain.DecodeError{Method: entry.method.Sig, Err: fmt.Errorf("no contract code at %s", h.address.Hex())}
		}
	}
	return entry.decode(out)
}

// SendTx submits a state-changing call and waits for its receipt
func (h *ContractHandle) SendTx(ctx context.Context, name string, args ...any) (*domain.Receipt, error) {
	return h.SendTxWithValue(ctx, nil, name, args...)
}

// SendTxWithValue is SendTx forwarding value wei to a payable function
func (h *ContractHandle) SendTxWithValue(ctx context.Context, value *big.Int, name string, args ...any) (*domain.Receipt, error) {
	entry, err := h.methods.resolve(name, len(args))
	if err != nil {
		return nil, err
	}
	data, err := entry.encode(args)
	if err != nil {
		return nil, err
	}
	if value != nil && value.Sign() > 0 && !entry.method.IsPayable() {
		return nil, &domain.ArgumentMismatchError{Method: entry.method.Sig, Reason: "function is not payable"}
	}
	if h.signer == nil {
		return nil, fmt.Errorf("send %s: %w", entry.method.Sig, domain.ErrSignerRequired)
	}

	txHash, err := h.signer.SignAndSend(ctx, h.address, data, value)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", entry.method.Sig, err)
	}
	h.log.Debug("transaction submitted", "method", entry.method.Sig, "tx", txHash.Hex())

	receipt, err := h.signer.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("wait for %s receipt %s: %w", entry.method.Sig, txHash.Hex(), err)
	}
	if !receipt.Succeeded() {
		return nil, &domain.TransactionRevertedError{
			Method:  entry.method.Sig,
			Receipt: receipt,
			Reason:  h.revertReason(ctx, data, value),
		}
	}
	return receipt, nil
}

func (h *ContractHandle) revertReason(ctx context.Context, data []byte, value *big.Int) string {
	_, err := h.client.Call(ctx, ethereum.CallMsg{
		From:  h.signer.Address(),
		To:    &h.address,
		Data:  data,
		Value: value,
	})
	var reverted *domain.TransactionRevertedError
	if errors.As(err, &reverted) {
		return reverted.Reason
	}
	return ""
}

// HandleParams describes a contract to bind on a chain
type HandleParams struct {
	ChainID         uint64
	RPCEndpoint     string
	Signer          Signer
	ABI             abi.ABI
	Bytecode        []byte
	ConstructorArgs []any
	Salt            []byte
	Value           *big.Int
}

// HandleFactory creates contract handles over dialed chain connections
type HandleFactory struct {
	dialer  ChainDialer
	factory Factory
	sink    ProgressSink
	log     *slog.Logger
}

func NewHandleFactory(dialer ChainDialer, factory Factory, sink ProgressSink, log *slog.Logger) *HandleFactory {
	return &HandleFactory{
		dialer:  dialer,
		factory: factory,
		sink:    sink,
		log:     log,
	}
}

// CreateHandle encodes the constructor arguments, computes the deterministic
// address and returns a handle for it. Nothing is deployed.
func (f *HandleFactory) CreateHandle(ctx context.Context, params HandleParams) (*ContractHandle, error) {
	if len(params.Bytecode) == 0 {
		return nil, &domain.InvalidInputLengthError{Field: "bytecode", Got: 0, Want: "at least 1 byte"}
	}
	salt, err := create2.PadSalt(params.Salt)
	if err != nil {
		return nil, err
	}
	encodedArgs, err := EncodeConstructorArgs(params.ABI, params.ConstructorArgs)
	if err != nil {
		return nil, err
	}

	client, err := f.dialer.Dial(ctx, params.RPCEndpoint, params.ChainID)
	if err != nil {
		return nil, err
	}

	spec := domain.NewDeploymentSpec(params.ChainID, params.RPCEndpoint, params.ABI, params.Bytecode, encodedArgs, salt).
		WithValue(params.Value)
	return NewContractHandle(spec, client, params.Signer, f.factory, f.sink, f.log)
}

// AttachHandle binds contractABI to an existing address
func (f *HandleFactory) AttachHandle(ctx context.Context, chainID uint64, rpcEndpoint string, signer Signer, contractABI abi.ABI, address common.Address) (*ContractHandle, error) {
	client, err := f.dialer.Dial(ctx, rpcEndpoint, chainID)
	if err != nil {
		return nil, err
	}
	return AttachContractHandle(address, contractABI, client, signer, f.log), nil
}

// EncodeConstructorArgs ABI-encodes args against the constructor of contractABI
func EncodeConstructorArgs(contractABI abi.ABI, args []any) ([]byte, error) {
	inputs := contractABI.Constructor.Inputs
	if len(args) != len(inputs) {
		return nil, &domain.ArgumentMismatchError{
			Method: "constructor",
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(inputs), len(args)),
		}
	}
	if len(inputs) == 0 {
		return nil, nil
	}
	encoded, err := inputs.Pack(args...)
	if err != nil {
		return nil, &domain.ArgumentMismatchError{Method: "constructor", Reason: "cannot encode", Err: err}
	}
	return encoded, nil
}
