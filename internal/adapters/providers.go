package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-create2/internal/adapters/abi"
	"github.com/trebuchet-org/treb-create2/internal/adapters/artifacts"
	"github.com/trebuchet-org/treb-create2/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-create2/internal/adapters/factory"
	"github.com/trebuchet-org/treb-create2/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-create2/internal/adapters/progress"
	"github.com/trebuchet-org/treb-create2/internal/adapters/senders"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// BlockchainSet provides chain connections and signers
var BlockchainSet = wire.NewSet(
	blockchain.NewDialer,
	wire.Bind(new(usecase.ChainDialer), new(*blockchain.Dialer)),

	senders.NewProvider,
	wire.Bind(new(usecase.SignerProvider), new(*senders.Provider)),
)

// FactorySet provides the configured CREATE2 factory
var FactorySet = wire.NewSet(
	factory.NewFactory,
)

// EventSet provides receipt log decoding
var EventSet = wire.NewSet(
	abi.NewFactoryABIResolver,
	wire.Bind(new(usecase.ABIResolver), new(*abi.FactoryABIResolver)),

	abi.NewEventDecoder,
	wire.Bind(new(usecase.EventDecoder), new(*abi.EventDecoder)),
)

// ArtifactSet provides artifact loading and argument parsing
var ArtifactSet = wire.NewSet(
	artifacts.NewFoundryLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.FoundryLoader)),

	abi.NewArgParser,
	wire.Bind(new(usecase.ArgumentParser), new(*abi.ArgParser)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.FunctionSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the progress sink for the output mode
var ProgressSet = wire.NewSet(
	progress.NewSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	BlockchainSet,
	FactorySet,
	EventSet,
	ArtifactSet,
	InteractiveSet,
	ProgressSet,
)
