package config

// TrebFileConfig represents the full treb.toml configuration file
type TrebFileConfig struct {
	Ns map[string]NamespaceConfig `toml:"ns"`
}

// NamespaceConfig represents a [ns.<name>] section in treb.toml
type NamespaceConfig struct {
	Profile        string                  `toml:"profile,omitempty"` // Foundry profile, defaults to the namespace name
	Factory        string                  `toml:"factory,omitempty"`
	FactoryAddress string                  `toml:"factory_address,omitempty"`
	Sender         string                  `toml:"sender,omitempty"`
	Senders        map[string]SenderConfig `toml:"senders"`
}
