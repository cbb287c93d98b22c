package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

func storageSpec(salt byte) *domain.DeploymentSpec {
	return domain.NewDeploymentSpec(1337, "http://fake", mustStorageABI(), storageBytecode, nil, [32]byte{31: salt})
}

func TestDeterministicDeployer(t *testing.T) {
	ctx := context.Background()

	t.Run("predict matches create2", func(t *testing.T) {
		chain := newFakeChain()
		deployer := NewDeterministicDeployer(chain, nil, testFactory{}, nil, nil)
		spec := storageSpec(1)

		address, err := deployer.Predict(spec)
		require.NoError(t, err)
		assert.Equal(t, crypto.CreateAddress2(testFactoryAddress, spec.Salt, crypto.Keccak256(storageBytecode)), address)
		assert.Zero(t, chain.codeAtCalls)
	})

	t.Run("deploys once and is idempotent", func(t *testing.T) {
		chain := newFakeChain()
		sink := &recordingSink{}
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, sink, nil)
		spec := storageSpec(1)

		first, err := deployer.Deploy(ctx, spec)
		require.NoError(t, err)
		require.NotNil(t, first.Receipt)
		assert.False(t, first.Skipped())
		assert.Equal(t, domain.ReceiptStatusSuccess, first.Receipt.Status)
		require.NotNil(t, first.Receipt.ContractAddress)
		assert.Equal(t, first.Address, *first.Receipt.ContractAddress)

		second, err := deployer.Deploy(ctx, spec)
		require.NoError(t, err)
		assert.True(t, second.Skipped())
		assert.Equal(t, first.Address, second.Address)

		assert.Equal(t, 1, chain.sendCalls)
		assert.Equal(t, 1, chain.codeCount())
		assert.Equal(t, []string{"checking", "submitting", "waiting", "complete", "checking", "complete"}, sink.stages)
	})

	t.Run("is deployed transitions", func(t *testing.T) {
		chain := newFakeChain()
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)
		spec := storageSpec(2)
		address, err := deployer.Predict(spec)
		require.NoError(t, err)

		deployed, err := deployer.IsDeployed(ctx, address)
		require.NoError(t, err)
		assert.False(t, deployed)

		_, err = deployer.Deploy(ctx, spec)
		require.NoError(t, err)

		deployed, err = deployer.IsDeployed(ctx, address)
		require.NoError(t, err)
		assert.True(t, deployed)
	})

	t.Run("different salts give different addresses", func(t *testing.T) {
		chain := newFakeChain()
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)

		a, err := deployer.Deploy(ctx, storageSpec(1))
		require.NoError(t, err)
		b, err := deployer.Deploy(ctx, storageSpec(2))
		require.NoError(t, err)
		assert.NotEqual(t, a.Address, b.Address)
		assert.Equal(t, 2, chain.codeCount())
	})

	t.Run("requires a signer", func(t *testing.T) {
		deployer := NewDeterministicDeployer(newFakeChain(), nil, testFactory{}, nil, nil)
		_, err := deployer.Deploy(ctx, storageSpec(1))
		assert.ErrorIs(t, err, domain.ErrSignerRequired)
	})

	t.Run("rejects empty init code", func(t *testing.T) {
		chain := newFakeChain()
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)
		spec := domain.NewDeploymentSpec(1337, "", mustStorageABI(), nil, nil, [32]byte{})

		_, err := deployer.Deploy(ctx, spec)
		assert.ErrorIs(t, err, domain.ErrInvalidInputLength)
		assert.Zero(t, chain.sendCalls)
	})

	t.Run("rpc failure on code check", func(t *testing.T) {
		chain := newFakeChain()
		chain.codeAtErr = errors.New("connection refused")
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)

		_, err := deployer.Deploy(ctx, storageSpec(1))
		assert.ErrorIs(t, err, domain.ErrRPCUnavailable)
		assert.Zero(t, chain.sendCalls)
	})

	t.Run("value above balance fails before submission", func(t *testing.T) {
		chain := newFakeChain()
		chain.balances[senderA] = big.NewInt(10)
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)

		_, err := deployer.Deploy(ctx, storageSpec(1).WithValue(big.NewInt(11)))
		var fundsErr *domain.InsufficientFundsError
		require.ErrorAs(t, err, &fundsErr)
		assert.Equal(t, "10", fundsErr.Balance)
		assert.Equal(t, "11", fundsErr.Required)
		assert.Zero(t, chain.sendCalls)
	})

	t.Run("dropped transaction is a deployment failure", func(t *testing.T) {
		chain := newFakeChain()
		chain.dropTxs = true
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)

		_, err := deployer.Deploy(ctx, storageSpec(1))
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.ErrorIs(t, err, domain.ErrTransactionDropped)
	})

	t.Run("rejected submission without code is a deployment failure", func(t *testing.T) {
		chain := newFakeChain()
		chain.rejectSends = errors.New("execution reverted")
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), testFactory{}, nil, nil)

		_, err := deployer.Deploy(ctx, storageSpec(1))
		var failed *domain.DeploymentFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, common.Hash{}, failed.TxHash)
	})

	t.Run("factory decodes its revert data", func(t *testing.T) {
		chain := newFakeChain()
		chain.rejectSends = errors.New("execution reverted")
		deployer := NewDeterministicDeployer(chain, chain.signer(senderA), shortCalldataFactory{}, nil, nil)

		_, err := deployer.Deploy(ctx, storageSpec(1))
		var failed *domain.DeploymentFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "InvalidSalt(0x2a)", failed.Reason)
	})

	for _, tc := range []struct {
		name    string
		senders []common.Address
	}{
		{"distinct signers", []common.Address{senderA, senderB}},
		{"same signer", []common.Address{senderA, senderA}},
	} {
		t.Run("concurrent deployments resolve to one contract with "+tc.name, func(t *testing.T) {
			chain := newFakeChain()
			chain.holdCodeChecks(2)
			spec := storageSpec(7)

			deployers := make([]*DeterministicDeployer, len(tc.senders))
			for i, sender := range tc.senders {
				deployers[i] = NewDeterministicDeployer(chain, chain.signer(sender), testFactory{}, nil, nil)
			}

			results := make([]*domain.DeployResult, len(deployers))
			errs := make([]error, len(deployers))
			var wg sync.WaitGroup
			for i, d := range deployers {
				wg.Add(1)
				go func(i int, d *DeterministicDeployer) {
					defer wg.Done()
					results[i], errs[i] = d.Deploy(ctx, spec)
				}(i, d)
			}
			wg.Wait()

			var succeeded, lost int
			for i := range deployers {
				require.NotNil(t, results[i])
				assert.Equal(t, results[0].Address, results[i].Address)
				switch {
				case errs[i] == nil:
					succeeded++
					assert.NotNil(t, results[i].Receipt)
				case errors.Is(errs[i], domain.ErrAlreadyDeployed):
					lost++
					var already *domain.AlreadyDeployedError
					require.ErrorAs(t, errs[i], &already)
					assert.Equal(t, results[i].Address, already.Address)
				default:
					t.Fatalf("unexpected error: %v", errs[i])
				}
			}
			assert.Equal(t, 1, succeeded)
			assert.Equal(t, 1, lost)
			assert.Equal(t, 2, chain.sendCalls)
			assert.Equal(t, 1, chain.codeCount())
		})
	}
}

// shortCalldataFactory sends calldata the fake proxy rejects, and decodes
// the revert data it gets back
type shortCalldataFactory struct {
	testFactory
}

func (shortCalldataFactory) DeployCalldata([32]byte, []byte) ([]byte, error) {
	return []byte{0x2a}, nil
}

func (shortCalldataFactory) DecodeError(data []byte) (string, bool) {
	return fmt.Sprintf("InvalidSalt(%#x)", data), true
}
