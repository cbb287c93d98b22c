package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Namespace string   // Selects [ns.<name>] in treb.toml
	Profile   string   // Foundry profile the namespace maps to
	Network   *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Transaction settings
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
	GasLimit            uint64 // 0 means estimate

	// Deployment settings
	Factory FactoryConfig
	Sender  string // Sender name, empty means the namespace default

	// Config source tracking
	ConfigSource string // "treb.toml" or "" when only defaults/env were used

	// Artifact settings
	OutDir string // Absolute path of the Foundry out directory

	// Resolved configurations
	FoundryConfig *FoundryConfig
	Senders       map[string]SenderConfig
}

// Network represents network configuration
type Network struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
}

type FactoryKind string

const (
	FactoryKindArachnid FactoryKind = "arachnid"
	FactoryKindCreateX  FactoryKind = "createx"
)

// FactoryConfig selects the CREATE2 factory used for deployments
type FactoryConfig struct {
	Kind    FactoryKind
	Address string // Overrides the canonical address when set
}
