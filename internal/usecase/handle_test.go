package usecase

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

func newStorageHandle(t *testing.T, chain *fakeChain, signer Signer) *ContractHandle {
	t.Helper()
	factory := NewHandleFactory(&fakeDialer{chain: chain}, testFactory{}, nil, nil)
	handle, err := factory.CreateHandle(context.Background(), HandleParams{
		ChainID:     1337,
		RPCEndpoint: "http://fake",
		Signer:      signer,
		ABI:         mustStorageABI(),
		Bytecode:    storageBytecode,
		Salt:        []byte{0x01},
	})
	require.NoError(t, err)
	return handle
}

func TestContractHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("address is known before deployment", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, chain.signer(senderA))

		deployed, err := handle.IsDeployed(ctx)
		require.NoError(t, err)
		assert.False(t, deployed)

		result, err := handle.Deploy(ctx)
		require.NoError(t, err)
		assert.Equal(t, handle.Address(), result.Address)

		deployed, err = handle.IsDeployed(ctx)
		require.NoError(t, err)
		assert.True(t, deployed)
	})

	t.Run("handles with the same inputs agree", func(t *testing.T) {
		chain := newFakeChain()
		a := newStorageHandle(t, chain, chain.signer(senderA))
		b := newStorageHandle(t, chain, nil)
		assert.Equal(t, a.Address(), b.Address())
	})

	t.Run("write then read", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, chain.signer(senderA))
		_, err := handle.Deploy(ctx)
		require.NoError(t, err)

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
	})

	t.Run("unknown function", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, chain.signer(senderA))
		before := chain.codeAtCalls

		_, err := handle.Call(ctx, "nonexistent")
		assert.ErrorIs(t, err, domain.ErrFunctionNotFound)

		_, err = handle.SendTx(ctx, "nonexistent")
		assert.ErrorIs(t, err, domain.ErrFunctionNotFound)

		assert.Equal(t, before, chain.codeAtCalls)
		assert.Zero(t, chain.sendCalls)
	})

	t.Run("argument mismatch is detected locally", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, chain.signer(senderA))

		_, err := handle.SendTx(ctx, "setX")
		assert.ErrorIs(t, err, domain.ErrArgumentMismatch)

		_, err = handle.SendTx(ctx, "setX", "not a number")
		assert.ErrorIs(t, err, domain.ErrArgumentMismatch)

		assert.Zero(t, chain.sendCalls)
	})

	t.Run("call on undeployed address is a decode error", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, nil)

		_, err := handle.Call(ctx, "x")
		assert.ErrorIs(t, err, domain.ErrDecode)
	})

	t.Run("read-only handle cannot write", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, nil)

		_, err := handle.Deploy(ctx)
		assert.ErrorIs(t, err, domain.ErrSignerRequired)

		_, err = handle.SendTx(ctx, "setX", big.NewInt(1))
		assert.ErrorIs(t, err, domain.ErrSignerRequired)
	})

	t.Run("reverted transaction carries receipt and reason", func(t *testing.T) {
		chain := newFakeChain()
		handle := newStorageHandle(t, chain, chain.signer(senderA))
		_, err := handle.Deploy(ctx)
		require.NoError(t, err)

		_, err = handle.SendTx(ctx, "fail")
		var reverted *domain.TransactionRevertedError
		require.ErrorAs(t, err, &reverted)
		assert.Equal(t, "fail()", reverted.Method)
		assert.Equal(t, "always fails", reverted.Reason)
		require.NotNil(t, reverted.Receipt)
		assert.Equal(t, domain.ReceiptStatusReverted, reverted.Receipt.Status)
	})

	t.Run("value requires a payable function", func(t *testing.T) {
		chain := newFakeChain()
		chain.balances[senderA] = big.NewInt(100)
		handle := newStorageHandle(t, chain, chain.signer(senderA))
		_, err := handle.Deploy(ctx)
		require.NoError(t, err)

		_, err = handle.SendTxWithValue(ctx, big.NewInt(5), "setX", big.NewInt(1))
		assert.ErrorIs(t, err, domain.ErrArgumentMismatch)

		receipt, err := handle.SendTxWithValue(ctx, big.NewInt(5), "deposit")
		require.NoError(t, err)
		assert.True(t, receipt.Succeeded())
		assert.Equal(t, big.NewInt(95), chain.balances[senderA])
	})

	t.Run("attached handle", func(t *testing.T) {
		chain := newFakeChain()
		deployedHandle := newStorageHandle(t, chain, chain.signer(senderA))
		_, err := deployedHandle.Deploy(ctx)
		require.NoError(t, err)
		_, err = deployedHandle.SendTx(ctx, "setX", big.NewInt(7))
		require.NoError(t, err)

		factory := NewHandleFactory(&fakeDialer{chain: chain}, testFactory{}, nil, nil)
		attached, err := factory.AttachHandle(ctx, 1337, "http://fake", nil, mustStorageABI(), deployedHandle.Address())
		require.NoError(t, err)
		assert.Nil(t, attached.Spec())

		out, err := attached.Call(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(7), out[0])

		_, err = attached.Deploy(ctx)
		assert.ErrorIs(t, err, ErrNoDeploymentSpec)
	})
}

func TestHandleFactoryCreateHandle(t *testing.T) {
	ctx := context.Background()
	withArgsABI, err := abi.JSON(strings.NewReader(`[{"type":"constructor","inputs":[{"name":"owner","type":"address"},{"name":"x","type":"uint256"}]}]`))
	require.NoError(t, err)

	t.Run("constructor args are appended to bytecode", func(t *testing.T) {
		factory := NewHandleFactory(&fakeDialer{chain: newFakeChain()}, testFactory{}, nil, nil)
		owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

		handle, err := factory.CreateHandle(ctx, HandleParams{
			ChainID:         1,
			ABI:             withArgsABI,
			Bytecode:        []byte{0x60, 0x00},
			ConstructorArgs: []any{owner, big.NewInt(3)},
		})
		require.NoError(t, err)

		spec := handle.Spec()
		require.Len(t, spec.ConstructorArgs, 64)
		assert.Equal(t, append([]byte{0x60, 0x00}, spec.ConstructorArgs...), spec.InitCode)
		assert.Equal(t, owner, common.BytesToAddress(spec.ConstructorArgs[:32]))
		assert.Equal(t, byte(3), spec.ConstructorArgs[63])
	})

	t.Run("wrong constructor arity", func(t *testing.T) {
		dialer := &fakeDialer{chain: newFakeChain()}
		factory := NewHandleFactory(dialer, testFactory{}, nil, nil)

		_, err := factory.CreateHandle(ctx, HandleParams{ABI: withArgsABI, Bytecode: []byte{0x00}})
		assert.ErrorIs(t, err, domain.ErrArgumentMismatch)
		assert.Empty(t, dialer.dialed)
	})

	t.Run("empty bytecode", func(t *testing.T) {
		factory := NewHandleFactory(&fakeDialer{chain: newFakeChain()}, testFactory{}, nil, nil)
		_, err := factory.CreateHandle(ctx, HandleParams{ABI: mustStorageABI()})
		assert.ErrorIs(t, err, domain.ErrInvalidInputLength)
	})

	t.Run("salt longer than 32 bytes", func(t *testing.T) {
		factory := NewHandleFactory(&fakeDialer{chain: newFakeChain()}, testFactory{}, nil, nil)
		_, err := factory.CreateHandle(ctx, HandleParams{ABI: mustStorageABI(), Bytecode: storageBytecode, Salt: make([]byte, 33)})
		assert.ErrorIs(t, err, domain.ErrInvalidInputLength)
	})

	t.Run("dial failure", func(t *testing.T) {
		dialErr := &domain.RPCError{Op: "dial", Err: errors.New("no route to host")}
		factory := NewHandleFactory(&fakeDialer{dialErr: dialErr}, testFactory{}, nil, nil)
		_, err := factory.CreateHandle(ctx, HandleParams{ABI: mustStorageABI(), Bytecode: storageBytecode})
		assert.ErrorIs(t, err, domain.ErrRPCUnavailable)
	})
}
