package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// DeployContractParams contains parameters for a deterministic deployment
type DeployContractParams struct {
	Target      ContractTarget
	SkipConfirm bool
}

// DeployContractResult describes the outcome of a deployment
type DeployContractResult struct {
	Artifact    *domain.Artifact
	Address     common.Address
	FactoryName string
	Network     *config.Network
	Sender      common.Address
	// Receipt is nil when the contract was already deployed
	Receipt *domain.Receipt
	// AlreadyDeployed is true when code was found at the address, either
	// before submitting or because a concurrent deployment landed first
	AlreadyDeployed bool
	// Events are the decoded logs of the deployment transaction
	Events []domain.DecodedEvent
}

// DeployContract deploys an artifact through the configured CREATE2 factory
type DeployContract struct {
	opener    *contractOpener
	factory   Factory
	confirmer Confirmer
	events    EventDecoder
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	artifacts ArtifactLoader,
	args ArgumentParser,
	handles *HandleFactory,
	signers SignerProvider,
	factory Factory,
	confirmer Confirmer,
	events EventDecoder,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DeployContract{
		opener: &contractOpener{
			config:    cfg,
			artifacts: artifacts,
			args:      args,
			handles:   handles,
			signers:   signers,
		},
		factory:   factory,
		confirmer: confirmer,
		events:    events,
		sink:      sink,
		log:       log,
	}
}

// Run executes the deploy use case
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	if params.Target.Address != "" {
		return nil, fmt.Errorf("deploy computes its own address: %w", ErrNoDeploymentSpec)
	}

	handle, artifact, err := uc.opener.open(ctx, params.Target, true)
	if err != nil {
		return nil, err
	}

	result := &DeployContractResult{
		Artifact:    artifact,
		Address:     handle.Address(),
		FactoryName: uc.factory.Name(),
		Network:     uc.opener.config.Network,
		Sender:      handle.Signer().Address(),
	}

	deployed, err := handle.IsDeployed(ctx)
	if err != nil {
		return nil, err
	}
	if deployed {
		uc.log.Debug("skipping confirmation, contract already deployed", "address", result.Address.Hex())
		result.AlreadyDeployed = true
		return result, nil
	}

	if !params.SkipConfirm && !uc.opener.config.NonInteractive {
		prompt := fmt.Sprintf("Deploy %s to %s on %s via %s?",
			artifact.Name, result.Address.Hex(), result.Network.Name, result.FactoryName)
		ok, err := uc.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	deployment, err := handle.Deploy(ctx)
	if errors.Is(err, domain.ErrAlreadyDeployed) {
		uc.sink.Info(fmt.Sprintf("%s was deployed by another transaction", result.Address.Hex()))
		result.AlreadyDeployed = true
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Receipt = deployment.Receipt
	result.AlreadyDeployed = deployment.Skipped()
	if uc.events != nil && result.Receipt != nil {
		result.Events = uc.events.DecodeLogs(ctx, handle.ABI(), result.Address, result.Receipt.Logs)
	}
	return result, nil
}
