package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// PredictAddressParams contains parameters for predicting an address
type PredictAddressParams struct {
	Target ContractTarget
	// Onchain asks the factory to compute the address as well, if it can
	Onchain bool
}

// PredictAddressResult contains the predicted address and its inputs
type PredictAddressResult struct {
	Artifact       *domain.Artifact
	Address        common.Address
	FactoryName    string
	FactoryAddress common.Address
	Sender         common.Address
	ChainID        uint64
	Salt           common.Hash
	EffectiveSalt  common.Hash
	InitCodeHash   common.Hash
	InitCodeSize   int
	// Deployed is nil when no network is configured
	Deployed *bool
	// OnchainAddress is set when Onchain was requested and the factory supports it
	OnchainAddress *common.Address
}

// PredictAddress computes where an artifact deploys to without sending anything
type PredictAddress struct {
	config    *config.RuntimeConfig
	artifacts ArtifactLoader
	args      ArgumentParser
	factory   Factory
	signers   SignerProvider
	dialer    ChainDialer
	sink      ProgressSink
}

// NewPredictAddress creates a new PredictAddress use case
func NewPredictAddress(
	cfg *config.RuntimeConfig,
	artifacts ArtifactLoader,
	args ArgumentParser,
	factory Factory,
	signers SignerProvider,
	dialer ChainDialer,
	sink ProgressSink,
) *PredictAddress {
	return &PredictAddress{
		config:    cfg,
		artifacts: artifacts,
		args:      args,
		factory:   factory,
		signers:   signers,
		dialer:    dialer,
		sink:      sink,
	}
}

// Run executes the predict use case. A network is only needed when the
// factory mixes the chain into the salt or when deployment status is wanted.
func (uc *PredictAddress) Run(ctx context.Context, params PredictAddressParams) (*PredictAddressResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "resolving",
		Message: fmt.Sprintf("Resolving artifact: %s", params.Target.ArtifactRef),
		Spinner: true,
	})

	artifact, err := uc.artifacts.Load(ctx, params.Target.ArtifactRef)
	if err != nil {
		return nil, err
	}
	args, err := uc.args.ParseArgs(artifact.ABI.Constructor.Inputs, params.Target.ConstructorArgs)
	if err != nil {
		return nil, err
	}
	encodedArgs, err := EncodeConstructorArgs(artifact.ABI, args)
	if err != nil {
		return nil, err
	}
	salt, err := create2.ParseSalt(params.Target.Salt)
	if err != nil {
		return nil, err
	}

	var chainID uint64
	var rpcURL string
	if uc.config.Network != nil {
		chainID = uc.config.Network.ChainID
		rpcURL = uc.config.Network.RPCURL
	}

	sender, err := uc.signers.Address(ctx, uc.config.Sender)
	if err != nil && !errors.Is(err, domain.ErrSignerRequired) {
		return nil, err
	}

	spec := domain.NewDeploymentSpec(chainID, rpcURL, artifact.ABI, artifact.Bytecode, encodedArgs, salt)
	effectiveSalt, err := uc.factory.EffectiveSalt(spec.Salt, sender, chainID)
	if err != nil {
		return nil, err
	}
	initCodeHash := create2.InitCodeHash(spec.InitCode)

	result := &PredictAddressResult{
		Artifact:       artifact,
		Address:        create2.PredictFromHash(uc.factory.Address(), effectiveSalt, initCodeHash),
		FactoryName:    uc.factory.Name(),
		FactoryAddress: uc.factory.Address(),
		Sender:         sender,
		ChainID:        chainID,
		Salt:           common.Hash(spec.Salt),
		EffectiveSalt:  common.Hash(effectiveSalt),
		InitCodeHash:   initCodeHash,
		InitCodeSize:   len(spec.InitCode),
	}

	if uc.config.Network == nil {
		if params.Onchain {
			return nil, ErrNoNetwork
		}
		return result, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "checking",
		Message: fmt.Sprintf("Checking %s on %s", result.Address.Hex(), uc.config.Network.Name),
		Spinner: true,
	})
	client, err := uc.dialer.Dial(ctx, rpcURL, chainID)
	if err != nil {
		return nil, err
	}
	code, err := client.CodeAt(ctx, result.Address)
	if err != nil {
		return nil, err
	}
	deployed := len(code) > 0
	result.Deployed = &deployed

	if params.Onchain {
		onchain, ok := uc.factory.(OnchainPredictor)
		if !ok {
			return nil, fmt.Errorf("factory %s has no address view function", uc.factory.Name())
		}
		address, err := onchain.ComputeAddressOnchain(ctx, client, effectiveSalt, initCodeHash)
		if err != nil {
			return nil, err
		}
		result.OnchainAddress = &address
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Address computed"})
	return result, nil
}
