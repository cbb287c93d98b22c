package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

var (
	// ErrNoNetwork is returned when an operation needs a chain and none is configured
	ErrNoNetwork = errors.New("no network selected, use --network or --rpc-url")

	// ErrCancelled is returned when the user declines a confirmation prompt
	ErrCancelled = errors.New("cancelled by user")
)

// ContractTarget identifies a contract by artifact plus either its
// deployment inputs or an address it already lives at.
type ContractTarget struct {
	ArtifactRef     string
	ConstructorArgs []string
	Salt            string
	Address         string
	// Value is forwarded to the constructor on deployment
	Value *big.Int
}

// contractOpener turns a ContractTarget into a handle on the configured network
type contractOpener struct {
	config    *config.RuntimeConfig
	artifacts ArtifactLoader
	args      ArgumentParser
	handles   *HandleFactory
	signers   SignerProvider
}

func (o *contractOpener) open(ctx context.Context, target ContractTarget, requireSigner bool) (*ContractHandle, *domain.Artifact, error) {
	network := o.config.Network
	if network == nil {
		return nil, nil, ErrNoNetwork
	}

	artifact, err := o.artifacts.Load(ctx, target.ArtifactRef)
	if err != nil {
		return nil, nil, err
	}

	signer, err := o.signers.Signer(ctx, network, o.config.Sender)
	if err != nil {
		if requireSigner || !errors.Is(err, domain.ErrSignerRequired) {
			return nil, nil, err
		}
		signer = nil
	}

	if target.Address != "" {
		if !common.IsHexAddress(target.Address) {
			return nil, nil, fmt.Errorf("%w: %q is not an address", domain.ErrInvalidInputLength, target.Address)
		}
		handle, err := o.handles.AttachHandle(ctx, network.ChainID, network.RPCURL, signer, artifact.ABI, common.HexToAddress(target.Address))
		if err != nil {
			return nil, nil, err
		}
		return handle, artifact, nil
	}

	args, err := o.args.ParseArgs(artifact.ABI.Constructor.Inputs, target.ConstructorArgs)
	if err != nil {
		return nil, nil, err
	}
	salt, err := create2.ParseSalt(target.Salt)
	if err != nil {
		return nil, nil, err
	}

	handle, err := o.handles.CreateHandle(ctx, HandleParams{
		ChainID:         network.ChainID,
		RPCEndpoint:     network.RPCURL,
		Signer:          signer,
		ABI:             artifact.ABI,
		Bytecode:        artifact.Bytecode,
		ConstructorArgs: args,
		Salt:            salt[:],
		Value:           target.Value,
	})
	if err != nil {
		return nil, nil, err
	}
	return handle, artifact, nil
}
