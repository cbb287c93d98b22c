package factory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// NewFactory builds the factory selected in the runtime config
func NewFactory(cfg *config.RuntimeConfig) (usecase.Factory, error) {
	var address common.Address
	if cfg.Factory.Address != "" {
		if !common.IsHexAddress(cfg.Factory.Address) {
			return nil, fmt.Errorf("invalid factory address %q", cfg.Factory.Address)
		}
		address = common.HexToAddress(cfg.Factory.Address)
	}

	switch cfg.Factory.Kind {
	case config.FactoryKindArachnid, "":
		return NewArachnid(address), nil
	case config.FactoryKindCreateX:
		return NewCreateX(address), nil
	default:
		return nil, fmt.Errorf("unknown factory %q", cfg.Factory.Kind)
	}
}
