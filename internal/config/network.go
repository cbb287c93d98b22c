package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

const chainIDTimeout = 10 * time.Second

var envNameReplacer = strings.NewReplacer("-", "_", ".", "_")

// rpcEnvVar is the variable consulted for a network missing from foundry.toml,
// e.g. base-sepolia reads BASE_SEPOLIA_RPC_URL.
func rpcEnvVar(network string) string {
	return envNameReplacer.Replace(strings.ToUpper(network)) + "_RPC_URL"
}

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	projectRoot   string
	foundryConfig *config.FoundryConfig
	cache         *NetworkCache
	fetch         func(ctx context.Context, rpcURL string) (uint64, error)
	mu            sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks   map[string]uint64   `json:"networks"`   // name -> chainID
	RPCs       map[string]uint64   `json:"rpcs"`       // rpcURL -> chainID
	ChainNames map[uint64][]string `json:"chainNames"` // chainID -> names
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(projectRoot string, foundryConfig *config.FoundryConfig) *NetworkResolver {
	r := &NetworkResolver{
		projectRoot:   projectRoot,
		foundryConfig: foundryConfig,
		fetch:         fetchChainID,
	}

	// Load cache
	r.loadCache()

	return r
}

// Resolve resolves a network name to its configuration. Names missing from
// foundry.toml fall back to the <NAME>_RPC_URL environment variable.
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	rpcURL, exists := r.foundryConfig.RpcEndpoints[networkName]
	fallback := rpcEnvVar(networkName)
	if !exists {
		rpcURL = os.Getenv(fallback)
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints] and %s is not set",
			networkName, fallback)
	}

	// Check cache first
	r.mu.RLock()
	chainID, cached := r.cache.Networks[networkName]
	r.mu.RUnlock()

	if !cached {
		fetched, err := r.chainID(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}
		chainID = fetched
		r.updateCache(networkName, rpcURL, chainID)
	}

	return &config.Network{
		Name:    networkName,
		RPCURL:  rpcURL,
		ChainID: chainID,
	}, nil
}

// ResolveURL builds a network for a bare RPC URL. chainID 0 means ask the node.
func (r *NetworkResolver) ResolveURL(ctx context.Context, rpcURL string, chainID uint64) (*config.Network, error) {
	if chainID == 0 {
		fetched, err := r.chainID(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID from %s: %w", rpcURL, err)
		}
		chainID = fetched
	}
	return &config.Network{
		Name:    fmt.Sprintf("chain-%d", chainID),
		RPCURL:  rpcURL,
		ChainID: chainID,
	}, nil
}

// chainID returns the chain ID served at rpcURL, using the RPC cache
func (r *NetworkResolver) chainID(ctx context.Context, rpcURL string) (uint64, error) {
	r.mu.RLock()
	if chainID, exists := r.cache.RPCs[rpcURL]; exists {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	return r.fetch(ctx, rpcURL)
}

// fetchChainID calls eth_chainId on rpcURL
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, chainIDTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	var result hexutil.Uint64
	if err := client.CallContext(ctx, &result, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", err)
	}
	return uint64(result), nil
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.projectRoot, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	if err := json.Unmarshal(data, &r.cache); err != nil {
		// Invalid cache, start fresh
		r.cache = newNetworkCache()
	}
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:   make(map[string]uint64),
		RPCs:       make(map[string]uint64),
		ChainNames: make(map[uint64][]string),
		UpdatedAt:  time.Now(),
	}
}

// updateCache updates the cache with new chain ID information
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID

	found := false
	for _, name := range r.cache.ChainNames[chainID] {
		if name == networkName {
			found = true
			break
		}
	}
	if !found {
		r.cache.ChainNames[chainID] = append(r.cache.ChainNames[chainID], networkName)
	}

	r.cache.UpdatedAt = time.Now()

	// Save to disk (ignore errors, cache is just for performance)
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}
