package senders

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-create2/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// Provider turns the senders configured in treb.toml into signers
type Provider struct {
	cfg    *config.RuntimeConfig
	dialer *blockchain.Dialer
	log    *slog.Logger

	mu      sync.Mutex
	signers map[string]*blockchain.KeySigner
}

// NewProvider creates a sender provider
func NewProvider(cfg *config.RuntimeConfig, dialer *blockchain.Dialer, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Provider{
		cfg:     cfg,
		dialer:  dialer,
		log:     log,
		signers: make(map[string]*blockchain.KeySigner),
	}
}

// Signer returns the signer for sender on network. Signers are cached per
// endpoint so nonces stay ordered across use cases.
func (p *Provider) Signer(ctx context.Context, network *config.Network, sender string) (usecase.Signer, error) {
	name, senderCfg, err := p.resolve(sender)
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, fmt.Errorf("sender %s: no network configured", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cacheKey := network.RPCURL + "|" + name
	if signer, ok := p.signers[cacheKey]; ok {
		return signer, nil
	}

	key, err := privateKey(name, senderCfg)
	if err != nil {
		return nil, err
	}
	client, err := p.dialer.Connect(ctx, network.RPCURL, network.ChainID)
	if err != nil {
		return nil, err
	}

	signer := blockchain.NewKeySigner(client, key, blockchain.SignerOptions{
		GasLimit:     p.cfg.GasLimit,
		PollInterval: p.cfg.ReceiptPollInterval,
		Timeout:      p.cfg.ReceiptTimeout,
	}, p.log)
	p.signers[cacheKey] = signer
	p.log.Debug("loaded sender", "sender", name, "address", signer.Address().Hex(), "network", network.Name)
	return signer, nil
}

// Address returns the account of sender without connecting to a chain
func (p *Provider) Address(ctx context.Context, sender string) (common.Address, error) {
	name, senderCfg, err := p.resolve(sender)
	if err != nil {
		return common.Address{}, err
	}
	key, err := privateKey(name, senderCfg)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// resolve finds the sender config by name. An empty name selects the
// configured sender, then a sender named "default", then the only sender,
// then one of the conventional names.
func (p *Provider) resolve(name string) (string, config.SenderConfig, error) {
	senders := p.cfg.Senders
	if name == "" {
		name = p.cfg.Sender
	}
	if name == "" {
		return p.defaultSender()
	}

	if sender, ok := senders[name]; ok {
		return name, sender, nil
	}
	for key, sender := range senders {
		if strings.EqualFold(key, name) {
			return key, sender, nil
		}
	}

	known := make([]string, 0, len(senders))
	for key := range senders {
		known = append(known, key)
	}
	sort.Strings(known)
	if len(known) == 0 {
		return "", config.SenderConfig{}, fmt.Errorf("sender '%s' not found, no senders configured in treb.toml: %w", name, domain.ErrNotFound)
	}
	return "", config.SenderConfig{}, fmt.Errorf("sender '%s' not found (available: %s): %w",
		name, strings.Join(known, ", "), domain.ErrNotFound)
}

func (p *Provider) defaultSender() (string, config.SenderConfig, error) {
	senders := p.cfg.Senders

	if sender, ok := senders["default"]; ok {
		return "default", sender, nil
	}
	if len(senders) == 1 {
		for name, sender := range senders {
			return name, sender, nil
		}
	}
	for _, name := range []string{"local", "deployer", "dev"} {
		if sender, ok := senders[name]; ok {
			return name, sender, nil
		}
	}
	return "", config.SenderConfig{}, fmt.Errorf("no default sender configured: %w", domain.ErrSignerRequired)
}

func privateKey(name string, sender config.SenderConfig) (*ecdsa.PrivateKey, error) {
	switch sender.Type {
	case config.SenderTypePrivateKey, "":
	default:
		return nil, fmt.Errorf("sender %s: unsupported sender type %q", name, sender.Type)
	}
	if sender.PrivateKey == "" {
		return nil, fmt.Errorf("sender %s: private key not configured", name)
	}

	key, err := blockchain.ParsePrivateKey(sender.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("sender %s: %w", name, err)
	}
	if sender.Address != "" {
		derived := crypto.PubkeyToAddress(key.PublicKey)
		if !common.IsHexAddress(sender.Address) || common.HexToAddress(sender.Address) != derived {
			return nil, fmt.Errorf("sender %s: configured address %s does not match private key (%s)",
				name, sender.Address, derived.Hex())
		}
	}
	return key, nil
}

// Ensure the adapter implements the interface
var _ usecase.SignerProvider = (*Provider)(nil)
