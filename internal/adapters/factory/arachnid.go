package factory

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// ArachnidAddress is the Deterministic Deployment Proxy, deployed at the same
// address on most EVM chains with a presigned transaction.
var ArachnidAddress = common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")

// Arachnid deploys through the Deterministic Deployment Proxy. The proxy
// takes raw salt ++ initCode calldata and uses the salt unchanged.
type Arachnid struct {
	address common.Address
}

// NewArachnid creates the factory at address, or the canonical address when zero
func NewArachnid(address common.Address) *Arachnid {
	if address == (common.Address{}) {
		address = ArachnidAddress
	}
	return &Arachnid{address: address}
}

func (f *Arachnid) Name() string { return string(config.FactoryKindArachnid) }

func (f *Arachnid) Address() common.Address { return f.address }

func (f *Arachnid) EffectiveSalt(salt [32]byte, _ common.Address, _ uint64) ([32]byte, error) {
	return salt, nil
}

func (f *Arachnid) DeployCalldata(salt [32]byte, initCode []byte) ([]byte, error) {
	calldata := make([]byte, 0, len(salt)+len(initCode))
	calldata = append(calldata, salt[:]...)
	return append(calldata, initCode...), nil
}

// Ensure the adapter implements the interface
var _ usecase.Factory = (*Arachnid)(nil)
