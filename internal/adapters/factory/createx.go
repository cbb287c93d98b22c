package factory

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// CreateXAddress is the canonical CreateX deployment
var CreateXAddress = common.HexToAddress("0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed")

// CreateX deploys through deployCreate2(bytes32,bytes). CreateX guards the
// salt before CREATE2, so predictions use create2.GuardSalt.
type CreateX struct {
	address common.Address
	binding *bindings.CreateX
}

// NewCreateX creates the factory at address, or the canonical address when zero
func NewCreateX(address common.Address) *CreateX {
	if address == (common.Address{}) {
		address = CreateXAddress
	}
	return &CreateX{address: address, binding: bindings.NewCreateX()}
}

func (f *CreateX) Name() string { return string(config.FactoryKindCreateX) }

func (f *CreateX) Address() common.Address { return f.address }

func (f *CreateX) EffectiveSalt(salt [32]byte, sender common.Address, chainID uint64) ([32]byte, error) {
	return create2.GuardSalt(salt, sender, chainID)
}

func (f *CreateX) DeployCalldata(salt [32]byte, initCode []byte) ([]byte, error) {
	calldata, err := f.binding.TryPackDeployCreate2(salt, initCode)
	if err != nil {
		return nil, fmt.Errorf("failed to pack deployCreate2: %w", err)
	}
	return calldata, nil
}

// ComputeAddressOnchain asks the factory for the CREATE2 address of an
// already guarded salt.
func (f *CreateX) ComputeAddressOnchain(ctx context.Context, client usecase.ChainClient, salt [32]byte, initCodeHash common.Hash) (common.Address, error) {
	to := f.address
	out, err := client.Call(ctx, ethereum.CallMsg{
		To:   &to,
		Data: f.binding.PackComputeCreate2Address(salt, initCodeHash),
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("computeCreate2Address: %w", err)
	}
	if len(out) == 0 {
		return common.Address{}, &domain.DecodeError{
			Method: "computeCreate2Address(bytes32,bytes32)",
			Err:    fmt.Errorf("no CreateX deployment at %s", f.address.Hex()),
		}
	}

	address, err := f.binding.UnpackComputeCreate2Address(out)
	if err != nil {
		return common.Address{}, &domain.DecodeError{Method: "computeCreate2Address(bytes32,bytes32)", Data: out, Err: err}
	}
	return address, nil
}

// ABI returns the CreateX contract ABI, used to decode its ContractCreation events
func (f *CreateX) ABI() (*abi.ABI, error) {
	return bindings.CreateXMetaData.ParseABI()
}

// DecodeError renders CreateX custom error data, if data is one
func (f *CreateX) DecodeError(data []byte) (string, bool) {
	decoded, err := f.binding.UnpackError(data)
	if err != nil {
		return "", false
	}
	switch e := decoded.(type) {
	case *bindings.CreateXFailedContractCreation:
		return fmt.Sprintf("FailedContractCreation(emitter: %s)", e.Emitter.Hex()), true
	case *bindings.CreateXFailedContractInitialisation:
		return fmt.Sprintf("FailedContractInitialisation(emitter: %s)", e.Emitter.Hex()), true
	case *bindings.CreateXInvalidSalt:
		return fmt.Sprintf("InvalidSalt(emitter: %s)", e.Emitter.Hex()), true
	default:
		return "", false
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.Factory          = (*CreateX)(nil)
	_ usecase.OnchainPredictor = (*CreateX)(nil)
	_ usecase.ErrorDecoder     = (*CreateX)(nil)
)
