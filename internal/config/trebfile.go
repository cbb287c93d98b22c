package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

const defaultNamespace = "default"

// loadTrebConfig loads and parses treb.toml if it exists.
// Returns (nil, nil) when treb.toml does not exist.
func loadTrebConfig(projectRoot string) (*config.TrebFileConfig, error) {
	trebPath := filepath.Join(projectRoot, "treb.toml")

	if _, err := os.Stat(trebPath); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.TrebFileConfig
	if _, err := toml.DecodeFile(trebPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse treb.toml: %w", err)
	}

	// Default profile to namespace name when omitted
	for nsName, nsCfg := range cfg.Ns {
		if nsCfg.Profile == "" {
			nsCfg.Profile = nsName
			cfg.Ns[nsName] = nsCfg
		}
	}

	// Expand environment variables in all sender config string fields
	for nsName, nsCfg := range cfg.Ns {
		nsCfg.FactoryAddress = os.ExpandEnv(nsCfg.FactoryAddress)
		for senderName, sender := range nsCfg.Senders {
			sender.PrivateKey = os.ExpandEnv(sender.PrivateKey)
			sender.Address = os.ExpandEnv(sender.Address)
			nsCfg.Senders[senderName] = sender
		}
		cfg.Ns[nsName] = nsCfg
	}

	return &cfg, nil
}

// mergeTrebFileConfig overlays the active namespace on top of the default
// namespace. Senders are merged by name; scalar settings of the active
// namespace win when set. Returns the merged namespace and its Foundry profile.
func mergeTrebFileConfig(trebFile *config.TrebFileConfig, namespace string) (config.NamespaceConfig, string) {
	merged := config.NamespaceConfig{
		Senders: make(map[string]config.SenderConfig),
	}
	profile := namespace

	overlay := func(ns config.NamespaceConfig) {
		for name, sender := range ns.Senders {
			merged.Senders[name] = sender
		}
		if ns.Factory != "" {
			merged.Factory = ns.Factory
		}
		if ns.FactoryAddress != "" {
			merged.FactoryAddress = ns.FactoryAddress
		}
		if ns.Sender != "" {
			merged.Sender = ns.Sender
		}
	}

	if trebFile == nil {
		return merged, profile
	}
	if def, ok := trebFile.Ns[defaultNamespace]; ok {
		overlay(def)
	}
	if namespace != defaultNamespace {
		if ns, ok := trebFile.Ns[namespace]; ok {
			overlay(ns)
			if ns.Profile != "" {
				profile = ns.Profile
			}
		}
	} else if def, ok := trebFile.Ns[defaultNamespace]; ok && def.Profile != "" {
		profile = def.Profile
	}
	merged.Profile = profile
	return merged, profile
}
