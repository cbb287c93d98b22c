package config

// FoundryConfig holds the parts of foundry.toml this tool reads
type FoundryConfig struct {
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`
	Profile      map[string]ProfileConfig `toml:"profile"`
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	OutPath string `toml:"out,omitempty"`
}

type SenderType string

var (
	SenderTypePrivateKey SenderType = "private_key"
)

// SenderConfig represents a sender configuration
type SenderConfig struct {
	Type       SenderType `toml:"type"`
	Address    string     `toml:"address,omitempty"`
	PrivateKey string     `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}
