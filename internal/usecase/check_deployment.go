package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// CheckDeploymentParams contains parameters for checking deployment status
type CheckDeploymentParams struct {
	Target ContractTarget
}

// CheckDeploymentResult reports code presence at a contract's address
type CheckDeploymentResult struct {
	ArtifactName    string
	Address         common.Address
	Network         *config.Network
	Deployed        bool
	CodeSize        int
	CodeHash        common.Hash
	FactoryName     string
	FactoryAddress  common.Address
	FactoryDeployed bool
}

// CheckDeployment reports whether a contract is deployed at its deterministic address
type CheckDeployment struct {
	opener  *contractOpener
	factory Factory
	sink    ProgressSink
}

// NewCheckDeployment creates a new CheckDeployment use case
func NewCheckDeployment(
	cfg *config.RuntimeConfig,
	artifacts ArtifactLoader,
	args ArgumentParser,
	handles *HandleFactory,
	signers SignerProvider,
	factory Factory,
	sink ProgressSink,
) *CheckDeployment {
	return &CheckDeployment{
		opener: &contractOpener{
			config:    cfg,
			artifacts: artifacts,
			args:      args,
			handles:   handles,
			signers:   signers,
		},
		factory: factory,
		sink:    sink,
	}
}

// Run executes the status use case
func (uc *CheckDeployment) Run(ctx context.Context, params CheckDeploymentParams) (*CheckDeploymentResult, error) {
	handle, artifact, err := uc.opener.open(ctx, params.Target, false)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "checking",
		Message: fmt.Sprintf("Checking code at %s", handle.Address().Hex()),
		Spinner: true,
	})

	code, err := handle.Code(ctx)
	if err != nil {
		return nil, err
	}

	result := &CheckDeploymentResult{
		ArtifactName: artifact.Name,
		Address:      handle.Address(),
		Network:      uc.opener.config.Network,
		Deployed:     len(code) > 0,
		CodeSize:     len(code),
	}
	if result.Deployed {
		result.CodeHash = crypto.Keccak256Hash(code)
	}

	if handle.Spec() != nil {
		result.FactoryName = uc.factory.Name()
		result.FactoryAddress = uc.factory.Address()
		result.FactoryDeployed, err = handle.FactoryDeployed(ctx)
		if err != nil {
			return nil, err
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Status checked"})
	return result, nil
}
