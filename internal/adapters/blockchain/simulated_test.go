package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-create2/internal/adapters/factory"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// Runtime code of the Deterministic Deployment Proxy
var arachnidRuntime = common.FromHex("0x7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe03601600081602082378035828234f58015156039578182fd5b8082525050506014600cf3")

// Returns storage slot 0 for calls without arguments, stores the first word
// of the arguments otherwise.
var storageBytecode = common.FromHex("0x793660041060125760005460005260206000f35b60043560005500600052601a6006f3")

const storageABIJSON = `[
	{"type":"function","name":"x","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"setX","inputs":[{"name":"v","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

// committingBackend mines a block after every submitted transaction. With
// dropNext set the next transaction is acknowledged but never reaches the pool.
type committingBackend struct {
	simulated.Client
	sim      *simulated.Backend
	dropNext atomic.Bool
}

func (b *committingBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.dropNext.CompareAndSwap(true, false) {
		return nil
	}
	if err := b.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.sim.Commit()
	return nil
}

type simulatedChain struct {
	sim     *simulated.Backend
	backend *committingBackend
	dialer  *Dialer
	key     *ecdsa.PrivateKey
}

func newSimulatedChain(t *testing.T, withProxy bool) *simulatedChain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	alloc := types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))},
	}
	if withProxy {
		alloc[factory.ArachnidAddress] = types.Account{Code: arachnidRuntime, Balance: new(big.Int)}
	}

	sim := simulated.NewBackend(alloc)
	t.Cleanup(func() { _ = sim.Close() })

	backend := &committingBackend{Client: sim.Client(), sim: sim}
	dialer := NewDialerWithFunc(func(context.Context, string) (Backend, func(), error) {
		return backend, nil, nil
	}, nil)

	return &simulatedChain{sim: sim, backend: backend, dialer: dialer, key: key}
}

func (c *simulatedChain) connect(t *testing.T) (*Client, *KeySigner) {
	t.Helper()
	client, err := c.dialer.Connect(context.Background(), "simulated", 0)
	require.NoError(t, err)
	signer := NewKeySigner(client, c.key, SignerOptions{PollInterval: 10 * time.Millisecond, Timeout: 5 * time.Second}, nil)
	return client, signer
}

func storageSpec(t *testing.T, chainID uint64, salt [32]byte) *domain.DeploymentSpec {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(storageABIJSON))
	require.NoError(t, err)
	return domain.NewDeploymentSpec(chainID, "simulated", parsed, storageBytecode, nil, salt)
}

func TestSimulatedDeployAndInvoke(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, true)
	client, signer := chain.connect(t)

	spec := storageSpec(t, client.ChainID(), [32]byte{31: 0x01})
	handle, err := usecase.NewContractHandle(spec, client, signer, factory.NewArachnid(common.Address{}), nil, nil)
	require.NoError(t, err)

	predicted, err := create2.Predict(factory.ArachnidAddress, spec.Salt[:], spec.InitCode)
	require.NoError(t, err)
	assert.Equal(t, predicted, handle.Address())

	deployed, err := handle.IsDeployed(ctx)
	require.NoError(t, err)
	assert.False(t, deployed)

	first, err := handle.Deploy(ctx)
	require.NoError(t, err)
	require.NotNil(t, first.Receipt)
	assert.True(t, first.Receipt.Succeeded())
	assert.Equal(t, predicted, first.Address)

	deployed, err = handle.IsDeployed(ctx)
	require.NoError(t, err)
	assert.True(t, deployed)

	second, err := handle.Deploy(ctx)
	require.NoError(t, err)
	assert.True(t, second.Skipped())
	assert.Equal(t, first.Address, second.Address)

	out, err := handle.Call(ctx, "x")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].(*big.Int).Sign())

	receipt, err := handle.SendTx(ctx, "setX", big.NewInt(42))
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())

	out, err = handle.Call(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), out[0])

	_, err = handle.Call(ctx, "y")
	assert.ErrorIs(t, err, domain.ErrFunctionNotFound)
}

func TestSimulatedSequentialNonces(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, true)
	client, signer := chain.connect(t)

	handle, err := usecase.NewContractHandle(storageSpec(t, client.ChainID(), [32]byte{}), client, signer, factory.NewArachnid(common.Address{}), nil, nil)
	require.NoError(t, err)
	_, err = handle.Deploy(ctx)
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		_, err := handle.SendTx(ctx, "setX", big.NewInt(i))
		require.NoError(t, err)
	}

	nonce, err := client.Backend().PendingNonceAt(ctx, signer.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), nonce)

	out, err := handle.Call(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), out[0])
}

func TestSimulatedDroppedTransaction(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, true)
	client, signer := chain.connect(t)
	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")

	chain.backend.dropNext.Store(true)
	dropped, err := signer.SignAndSend(ctx, to, nil, big.NewInt(1))
	require.NoError(t, err)
	_, err = signer.WaitForReceipt(ctx, dropped)
	require.ErrorIs(t, err, domain.ErrTransactionDropped)

	t.Run("next transaction reuses the dropped nonce", func(t *testing.T) {
		txHash, err := signer.SignAndSend(ctx, to, nil, big.NewInt(1))
		require.NoError(t, err)
		receipt, err := signer.WaitForReceipt(ctx, txHash)
		require.NoError(t, err)
		assert.True(t, receipt.Succeeded())

		tx, _, err := client.Backend().TransactionByHash(ctx, txHash)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), tx.Nonce())
	})
}

func TestSimulatedConcurrentDeploySameSigner(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, true)
	client, signer := chain.connect(t)

	handle, err := usecase.NewContractHandle(storageSpec(t, client.ChainID(), [32]byte{31: 0x09}), client, signer, factory.NewArachnid(common.Address{}), nil, nil)
	require.NoError(t, err)

	const workers = 2
	results := make([]*domain.DeployResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = handle.Deploy(ctx)
		}(i)
	}
	wg.Wait()

	receipts := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			require.True(t, errors.Is(errs[i], domain.ErrAlreadyDeployed), "unexpected error: %v", errs[i])
		}
		require.NotNil(t, results[i])
		assert.Equal(t, handle.Address(), results[i].Address)
		if results[i].Receipt != nil {
			receipts++
			assert.True(t, results[i].Receipt.Succeeded())
		}
	}
	assert.Equal(t, 1, receipts)

	deployed, err := handle.IsDeployed(ctx)
	require.NoError(t, err)
	assert.True(t, deployed)
}

func TestSimulatedMissingProxy(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, false)
	client, signer := chain.connect(t)

	handle, err := usecase.NewContractHandle(storageSpec(t, client.ChainID(), [32]byte{}), client, signer, factory.NewArachnid(common.Address{}), nil, nil)
	require.NoError(t, err)

	ok, err := handle.FactoryDeployed(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// a call to an account without code succeeds with no effect
	_, err = handle.Deploy(ctx)
	assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
}

func TestSimulatedInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, true)
	client, _ := chain.connect(t)

	poor, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewKeySigner(client, poor, SignerOptions{GasLimit: 100000}, nil)

	_, err = signer.SignAndSend(ctx, factory.ArachnidAddress, storageBytecode, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestDialerChainIDCheck(t *testing.T) {
	ctx := context.Background()
	chain := newSimulatedChain(t, false)

	client, err := chain.dialer.Connect(ctx, "simulated", 0)
	require.NoError(t, err)
	require.NotZero(t, client.ChainID())

	again, err := chain.dialer.Dial(ctx, "simulated", client.ChainID())
	require.NoError(t, err)
	assert.Same(t, client, again)

	_, err = chain.dialer.Dial(ctx, "simulated", client.ChainID()+1)
	assert.ErrorIs(t, err, domain.ErrChainIDMismatch)
}
