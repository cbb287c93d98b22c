package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

const dialTimeout = 10 * time.Second

// DialFunc opens a backend for an RPC endpoint. The returned func closes it.
type DialFunc func(ctx context.Context, rpcURL string) (Backend, func(), error)

// Dialer opens and caches one connection per RPC endpoint
type Dialer struct {
	dial    DialFunc
	log     *slog.Logger
	mu      sync.Mutex
	clients map[string]*Client
}

// NewDialer creates a dialer backed by ethclient
func NewDialer(log *slog.Logger) *Dialer {
	return NewDialerWithFunc(dialEthclient, log)
}

// NewDialerWithFunc creates a dialer that opens backends with dial
func NewDialerWithFunc(dial DialFunc, log *slog.Logger) *Dialer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dialer{
		dial:    dial,
		log:     log.With("component", "dialer"),
		clients: make(map[string]*Client),
	}
}

func dialEthclient(ctx context.Context, rpcURL string) (Backend, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Dial implements usecase.ChainDialer
func (d *Dialer) Dial(ctx context.Context, rpcURL string, chainID uint64) (usecase.ChainClient, error) {
	client, err := d.Connect(ctx, rpcURL, chainID)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Connect returns the cached client for rpcURL, dialing it on first use.
// chainID 0 adopts whatever chain the endpoint serves; otherwise a different
// chain is an ErrChainIDMismatch.
func (d *Dialer) Connect(ctx context.Context, rpcURL string, chainID uint64) (*Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if client, ok := d.clients[rpcURL]; ok {
		if chainID != 0 && client.chainID != chainID {
			return nil, fmt.Errorf("%w: %s serves chain %d, expected %d",
				domain.ErrChainIDMismatch, rpcURL, client.chainID, chainID)
		}
		return client, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	backend, closer, err := d.dial(dialCtx, rpcURL)
	if err != nil {
		return nil, &domain.RPCError{Op: "dial " + rpcURL, Err: err}
	}

	networkChainID, err := backend.ChainID(dialCtx)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, classifyError("eth_chainId", err)
	}

	if chainID != 0 && networkChainID.Uint64() != chainID {
		if closer != nil {
			closer()
		}
		return nil, fmt.Errorf("%w: %s serves chain %d, expected %d",
			domain.ErrChainIDMismatch, rpcURL, networkChainID.Uint64(), chainID)
	}

	client := &Client{backend: backend, chainID: networkChainID.Uint64(), closer: closer}
	d.clients[rpcURL] = client
	d.log.Debug("connected", "rpc", rpcURL, "chainId", client.chainID)
	return client, nil
}

// Close closes every cached connection
func (d *Dialer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for url, client := range d.clients {
		client.Close()
		delete(d.clients, url)
	}
}

// Ensure the adapter implements the interface
var _ usecase.ChainDialer = (*Dialer)(nil)
