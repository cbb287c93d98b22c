package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultTimeout      = 3 * time.Minute

	// receipt polls in a row that may find the transaction missing from the
	// node before it is reported as dropped
	maxMissingPolls = 3
)

// SignerOptions tune transaction submission
type SignerOptions struct {
	GasLimit     uint64
	PollInterval time.Duration
	Timeout      time.Duration
}

// KeySigner signs EIP-1559 transactions with an in-memory private key
type KeySigner struct {
	client  *Client
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	opts    SignerOptions
	log     *slog.Logger

	// mu serialises nonce assignment so transactions go out in call order
	mu        sync.Mutex
	nextNonce uint64
	hasNonce  bool
}

// NewKeySigner creates a signer for key on client's chain
func NewKeySigner(client *Client, key *ecdsa.PrivateKey, opts SignerOptions, log *slog.Logger) *KeySigner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	address := crypto.PubkeyToAddress(key.PublicKey)
	return &KeySigner{
		client:  client,
		key:     key,
		address: address,
		chainID: new(big.Int).SetUint64(client.ChainID()),
		opts:    opts,
		log:     log.With("component", "signer", "address", address.Hex()),
	}
}

// ParsePrivateKey parses a hex encoded secp256k1 key, with or without 0x
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Address returns the account the signer sends from
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignAndSend builds, signs and submits a transaction to `to`
func (s *KeySigner) SignAndSend(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	if value == nil {
		value = new(big.Int)
	}
	backend := s.client.backend

	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := backend.PendingNonceAt(ctx, s.address)
	if err != nil {
		return common.Hash{}, classifyError("eth_getTransactionCount", err)
	}
	if s.hasNonce && s.nextNonce > nonce {
		nonce = s.nextNonce
	}

	tipCap, feeCap, err := s.fees(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	gas := s.opts.GasLimit
	if gas == 0 {
		estimate, err := backend.EstimateGas(ctx, ethereum.CallMsg{
			From:      s.address,
			To:        &to,
			GasFeeCap: feeCap,
			GasTipCap: tipCap,
			Value:     value,
			Data:      data,
		})
		if err != nil {
			return common.Hash{}, classifyError("eth_estimateGas", err)
		}
		gas = estimate * 11 / 10
	}

	if err := s.checkBalance(ctx, gas, feeCap, value); err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, classifyError("eth_sendRawTransaction", err)
	}

	s.nextNonce = nonce + 1
	s.hasNonce = true
	s.log.Debug("transaction sent", "tx", signed.Hash().Hex(), "nonce", nonce, "gas", gas, "to", to.Hex())
	return signed.Hash(), nil
}

// forgetNonce drops the locally tracked nonce so the next send asks the node
// again. A dropped transaction never consumed its nonce.
func (s *KeySigner) forgetNonce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasNonce = false
}

// fees returns the tip and fee cap: the suggested tip plus twice the latest base fee
func (s *KeySigner) fees(ctx context.Context) (*big.Int, *big.Int, error) {
	backend := s.client.backend

	tipCap, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, classifyError("eth_maxPriorityFeePerGas", err)
	}
	head, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, classifyError("eth_getBlockByNumber", err)
	}

	feeCap := new(big.Int).Set(tipCap)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}
	return tipCap, feeCap, nil
}

func (s *KeySigner) checkBalance(ctx context.Context, gas uint64, feeCap, value *big.Int) error {
	balance, err := s.client.BalanceAt(ctx, s.address)
	if err != nil {
		return err
	}
	required := new(big.Int).Mul(new(big.Int).SetUint64(gas), feeCap)
	required.Add(required, value)
	if balance.Cmp(required) < 0 {
		return &domain.InsufficientFundsError{
			Account:  s.address,
			Balance:  balance.String(),
			Required: required.String(),
		}
	}
	return nil
}

// WaitForReceipt polls until txHash is mined, the timeout passes, or the node
// stops reporting the transaction.
func (s *KeySigner) WaitForReceipt(ctx context.Context, txHash common.Hash) (*domain.Receipt, error) {
	backend := s.client.backend

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	missing := 0
	for {
		receipt, err := backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return domain.ReceiptFromTypes(receipt), nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("waiting for receipt %s: %w", txHash.Hex(), ctx.Err())
			}
			return nil, classifyError("eth_getTransactionReceipt", err)
		}

		_, _, err = backend.TransactionByHash(ctx, txHash)
		switch {
		case errors.Is(err, ethereum.NotFound):
			missing++
			if missing >= maxMissingPolls {
				s.forgetNonce()
				return nil, fmt.Errorf("%w: %s", domain.ErrTransactionDropped, txHash.Hex())
			}
		case err == nil:
			missing = 0
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Ensure the adapter implements the interface
var _ usecase.Signer = (*KeySigner)(nil)
