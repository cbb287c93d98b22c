package abi

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// abiProvider is implemented by factories that publish their own ABI
type abiProvider interface {
	ABI() (*abi.ABI, error)
}

// FactoryABIResolver finds ABIs for addresses other than the target contract.
// The only address it knows is the configured factory's.
type FactoryABIResolver struct {
	factory usecase.Factory
}

func NewFactoryABIResolver(factory usecase.Factory) *FactoryABIResolver {
	return &FactoryABIResolver{factory: factory}
}

func (r *FactoryABIResolver) FindByAddress(ctx context.Context, address common.Address) (*abi.ABI, error) {
	if r.factory == nil || address != r.factory.Address() {
		return nil, fmt.Errorf("no ABI for %s: %w", address.Hex(), domain.ErrNotFound)
	}
	provider, ok := r.factory.(abiProvider)
	if !ok {
		return nil, fmt.Errorf("factory %s has no ABI: %w", r.factory.Name(), domain.ErrNotFound)
	}
	return provider.ABI()
}

var _ usecase.ABIResolver = (*FactoryABIResolver)(nil)
