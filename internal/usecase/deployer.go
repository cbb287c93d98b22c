package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

// DeterministicDeployer deploys init code through a CREATE2 factory so the
// resulting address depends only on factory, salt and init code.
type DeterministicDeployer struct {
	client  ChainClient
	signer  Signer
	factory Factory
	sink    ProgressSink
	log     *slog.Logger
}

// NewDeterministicDeployer creates a deployer. signer may be nil, in which case
// only Predict and IsDeployed are usable.
func NewDeterministicDeployer(client ChainClient, signer Signer, factory Factory, sink ProgressSink, log *slog.Logger) *DeterministicDeployer {
	if sink == nil {
		sink = NopProgress{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DeterministicDeployer{
		client:  client,
		signer:  signer,
		factory: factory,
		sink:    sink,
		log:     log,
	}
}

// Factory returns the factory deployments go through
func (d *DeterministicDeployer) Factory() Factory {
	return d.factory
}

// Predict returns the address spec deploys to. It performs no I/O.
func (d *DeterministicDeployer) Predict(spec *domain.DeploymentSpec) (common.Address, error) {
	salt, err := d.effectiveSalt(spec)
	if err != nil {
		return common.Address{}, err
	}
	return create2.PredictFromHash(d.factory.Address(), salt, create2.InitCodeHash(spec.InitCode)), nil
}

// IsDeployed reports whether address carries runtime code
func (d *DeterministicDeployer) IsDeployed(ctx context.Context, address common.Address) (bool, error) {
	code, err := d.client.CodeAt(ctx, address)
	if err != nil {
		return false, fmt.Errorf("check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

// Deploy makes sure the contract described by spec exists at its predicted
// address. If code is already there no transaction is sent and the result has
// a nil receipt. When a concurrent deployment lands first the result is
// returned together with an *domain.AlreadyDeployedError.
func (d *DeterministicDeployer) Deploy(ctx context.Context, spec *domain.DeploymentSpec) (*domain.DeployResult, error) {
	if d.signer == nil {
		return nil, fmt.Errorf("deploy: %w", domain.ErrSignerRequired)
	}
	if len(spec.InitCode) == 0 {
		return nil, &domain.InvalidInputLengthError{Field: "init code", Got: 0, Want: "at least 1 byte"}
	}

	address, err := d.Predict(spec)
	if err != nil {
		return nil, err
	}
	log := d.log.With("address", address.Hex(), "factory", d.factory.Name())

	d.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "checking",
		Message: fmt.Sprintf("Checking code at %s", address.Hex()),
		Spinner: true,
	})
	deployed, err := d.IsDeployed(ctx, address)
	if err != nil {
		return nil, err
	}
	if deployed {
		log.Debug("code already present, skipping deployment")
		d.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Already deployed"})
		return &domain.DeployResult{Address: address}, nil
	}

	if err := d.checkValue(ctx, spec.Value); err != nil {
		return nil, err
	}

	calldata, err := d.factory.DeployCalldata(spec.Salt, spec.InitCode)
	if err != nil {
		return nil, fmt.Errorf("build factory calldata: %w", err)
	}

	d.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "submitting",
		Message: fmt.Sprintf("Submitting deployment through %s", d.factory.Name()),
		Spinner: true,
	})
	txHash, err := d.signer.SignAndSend(ctx, d.factory.Address(), calldata, spec.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrRPCUnavailable) || ctx.Err() != nil {
			return nil, err
		}
		// Gas estimation fails when the factory call reverts, which is also
		// what happens when someone else deployed in the meantime.
		log.Debug("submission rejected", "error", err)
		return d.resolveFailure(ctx, address, common.Hash{}, calldata, spec.Value, err)
	}
	log = log.With("tx", txHash.Hex())
	log.Debug("deployment submitted")

	d.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "waiting",
		Message: fmt.Sprintf("Waiting for %s", txHash.Hex()),
		Spinner: true,
	})
	receipt, err := d.signer.WaitForReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionDropped) {
			return nil, &domain.DeploymentFailedError{Address: address, TxHash: txHash, Reason: "transaction dropped", Err: err}
		}
		return nil, fmt.Errorf("wait for deployment receipt %s: %w", txHash.Hex(), err)
	}

	if !receipt.Succeeded() {
		log.Debug("deployment reverted", "block", receipt.BlockNumber)
		return d.resolveFailure(ctx, address, txHash, calldata, spec.Value, nil)
	}

	deployed, err = d.IsDeployed(ctx, address)
	if err != nil {
		return nil, err
	}
	if !deployed {
		return nil, &domain.DeploymentFailedError{
			Address: address,
			TxHash:  txHash,
			Reason:  "factory transaction succeeded but left no code at the predicted address",
		}
	}

	receipt.ContractAddress = &address
	log.Info("contract deployed", "block", receipt.BlockNumber, "gasUsed", receipt.GasUsed)
	d.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Deployed"})
	return &domain.DeployResult{Address: address, Receipt: receipt}, nil
}

// resolveFailure decides between a lost race and a real failure by looking at
// the predicted address again.
func (d *DeterministicDeployer) resolveFailure(ctx context.Context, address common.Address, txHash common.Hash, calldata []byte, value *big.Int, cause error) (*domain.DeployResult, error) {
	deployed, err := d.IsDeployed(ctx, address)
	if err != nil {
		return nil, err
	}
	if deployed {
		d.log.Info("contract deployed by a concurrent transaction", "address", address.Hex())
		return &domain.DeployResult{Address: address}, &domain.AlreadyDeployedError{Address: address, TxHash: txHash}
	}

	reason := d.revertReason(ctx, calldata, value)
	if reason == "" && cause == nil {
		reason = "factory call reverted"
	}
	return nil, &domain.DeploymentFailedError{Address: address, TxHash: txHash, Reason: reason, Err: cause}
}

func (d *DeterministicDeployer) revertReason(ctx context.Context, calldata []byte, value *big.Int) string {
	to := d.factory.Address()
	_, err := d.client.Call(ctx, ethereum.CallMsg{
		From:  d.signer.Address(),
		To:    &to,
		Data:  calldata,
		Value: value,
	})
	var reverted *domain.TransactionRevertedError
	if !errors.As(err, &reverted) {
		return ""
	}
	if decoder, ok := d.factory.(ErrorDecoder); ok && len(reverted.Data) > 0 {
		if reason, ok := decoder.DecodeError(reverted.Data); ok {
			return reason
		}
	}
	return reverted.Reason
}

func (d *DeterministicDeployer) checkValue(ctx context.Context, value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}
	balance, err := d.client.BalanceAt(ctx, d.signer.Address())
	if err != nil {
		return fmt.Errorf("check balance of %s: %w", d.signer.Address().Hex(), err)
	}
	if balance.Cmp(value) < 0 {
		return &domain.InsufficientFundsError{
			Account:  d.signer.Address(),
			Balance:  balance.String(),
			Required: value.String(),
		}
	}
	return nil
}

func (d *DeterministicDeployer) effectiveSalt(spec *domain.DeploymentSpec) ([32]byte, error) {
	var sender common.Address
	if d.signer != nil {
		sender = d.signer.Address()
	}
	return d.factory.EffectiveSalt(spec.Salt, sender, spec.ChainID)
}
