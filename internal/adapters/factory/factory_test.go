package factory

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-create2/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-create2/internal/create2"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// callClient answers eth_call with a canned response
type callClient struct {
	out     []byte
	err     error
	lastMsg ethereum.CallMsg
}

func (c *callClient) CodeAt(context.Context, common.Address) ([]byte, error) { return nil, nil }

func (c *callClient) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	return new(big.Int), nil
}

func (c *callClient) Call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	c.lastMsg = msg
	return c.out, c.err
}

func TestArachnid(t *testing.T) {
	f := NewArachnid(common.Address{})
	assert.Equal(t, ArachnidAddress, f.Address())
	assert.Equal(t, "arachnid", f.Name())

	salt := [32]byte{31: 0x01}
	effective, err := f.EffectiveSalt(salt, common.HexToAddress("0x1111111111111111111111111111111111111111"), 1)
	require.NoError(t, err)
	assert.Equal(t, salt, effective)

	calldata, err := f.DeployCalldata(salt, []byte{0x60, 0x00})
	require.NoError(t, err)
	assert.Equal(t, append(salt[:], 0x60, 0x00), calldata)

	custom := common.HexToAddress("0x2222222222222222222222222222222222222222")
	assert.Equal(t, custom, NewArachnid(custom).Address())
}

func TestCreateX(t *testing.T) {
	f := NewCreateX(common.Address{})
	assert.Equal(t, CreateXAddress, f.Address())
	assert.Equal(t, "createx", f.Name())

	t.Run("deploy calldata uses deployCreate2(bytes32,bytes)", func(t *testing.T) {
		salt := [32]byte{31: 0x07}
		calldata, err := f.DeployCalldata(salt, []byte{0xfe})
		require.NoError(t, err)
		assert.Equal(t, "0x26307668", hexutil.Encode(calldata[:4]))
		assert.Equal(t, salt[:], calldata[4:36])
	})

	t.Run("effective salt is the guarded salt", func(t *testing.T) {
		sender := common.HexToAddress("0x1111111111111111111111111111111111111111")
		salt := [32]byte{31: 0x09}

		got, err := f.EffectiveSalt(salt, sender, 10)
		require.NoError(t, err)
		want, err := create2.GuardSalt(salt, sender, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("effective salt without a sender", func(t *testing.T) {
		salt := [32]byte{31: 0x01}

		got, err := f.EffectiveSalt(salt, common.Address{}, 1)
		require.NoError(t, err)
		assert.Equal(t, [32]byte(crypto.Keccak256Hash(salt[:])), got)
	})

	t.Run("onchain prediction", func(t *testing.T) {
		predicted := common.HexToAddress("0x3333333333333333333333333333333333333333")
		client := &callClient{out: common.LeftPadBytes(predicted.Bytes(), 32)}

		got, err := f.ComputeAddressOnchain(context.Background(), client, [32]byte{}, common.Hash{})
		require.NoError(t, err)
		assert.Equal(t, predicted, got)
		require.NotNil(t, client.lastMsg.To)
		assert.Equal(t, CreateXAddress, *client.lastMsg.To)
		assert.Equal(t, "0x890c283b", hexutil.Encode(client.lastMsg.Data[:4]))
	})

	t.Run("onchain prediction without factory code", func(t *testing.T) {
		_, err := f.ComputeAddressOnchain(context.Background(), &callClient{}, [32]byte{}, common.Hash{})
		assert.ErrorIs(t, err, domain.ErrDecode)
	})

	t.Run("onchain prediction call failure", func(t *testing.T) {
		client := &callClient{err: errors.New("boom")}
		_, err := f.ComputeAddressOnchain(context.Background(), client, [32]byte{}, common.Hash{})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("decodes custom errors", func(t *testing.T) {
		emitter := common.LeftPadBytes(CreateXAddress.Bytes(), 32)
		data := append(bindings.CreateXInvalidSaltErrorID().Bytes()[:4], emitter...)

		reason, ok := f.DecodeError(data)
		require.True(t, ok)
		assert.Equal(t, "InvalidSalt(emitter: "+CreateXAddress.Hex()+")", reason)

		data = append(bindings.CreateXFailedContractCreationErrorID().Bytes()[:4], emitter...)
		reason, ok = f.DecodeError(data)
		require.True(t, ok)
		assert.Contains(t, reason, "FailedContractCreation")

		_, ok = f.DecodeError([]byte{0x01, 0x02, 0x03, 0x04})
		assert.False(t, ok)
	})
}

func TestNewFactory(t *testing.T) {
	tests := []struct {
		name    string
		factory config.FactoryConfig
		want    string
		address common.Address
		wantErr string
	}{
		{name: "default", factory: config.FactoryConfig{}, want: "arachnid", address: ArachnidAddress},
		{name: "createx", factory: config.FactoryConfig{Kind: config.FactoryKindCreateX}, want: "createx", address: CreateXAddress},
		{
			name:    "address override",
			factory: config.FactoryConfig{Kind: config.FactoryKindCreateX, Address: "0x4444444444444444444444444444444444444444"},
			want:    "createx",
			address: common.HexToAddress("0x4444444444444444444444444444444444444444"),
		},
		{name: "bad address", factory: config.FactoryConfig{Address: "0x44"}, wantErr: "invalid factory address"},
		{name: "unknown kind", factory: config.FactoryConfig{Kind: "create3"}, wantErr: "unknown factory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFactory(&config.RuntimeConfig{Factory: tt.factory})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name())
			assert.Equal(t, tt.address, f.Address())
		})
	}
}
