package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		DataDir:             filepath.Join(projectRoot, ".treb"),
		Namespace:           v.GetString("namespace"),
		Debug:               v.GetBool("debug"),
		NonInteractive:      v.GetBool("non_interactive"),
		JSON:                v.GetBool("json"),
		Timeout:             v.GetDuration("timeout"),
		ReceiptPollInterval: v.GetDuration("receipt_poll_interval"),
		ReceiptTimeout:      v.GetDuration("receipt_timeout"),
		GasLimit:            v.GetUint64("gas_limit"),
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}

	loadEnvFiles(projectRoot)

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	trebFile, err := loadTrebConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if trebFile != nil {
		cfg.ConfigSource = "treb.toml"
	}
	ns, profile := mergeTrebFileConfig(trebFile, cfg.Namespace)
	cfg.Profile = profile
	cfg.Senders = ns.Senders
	cfg.OutDir = outDir(projectRoot, foundryConfig, profile)

	cfg.Factory, err = resolveFactory(v, ns)
	if err != nil {
		return nil, err
	}

	cfg.Sender = v.GetString("sender")
	if cfg.Sender == "" {
		cfg.Sender = ns.Sender
	}

	cfg.Network, err = resolveNetwork(v, projectRoot, foundryConfig)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func resolveFactory(v *viper.Viper, ns config.NamespaceConfig) (config.FactoryConfig, error) {
	factory := config.FactoryConfig{
		Kind:    config.FactoryKind(strings.ToLower(v.GetString("factory"))),
		Address: v.GetString("factory_address"),
	}
	if factory.Kind == "" {
		factory.Kind = config.FactoryKind(strings.ToLower(ns.Factory))
	}
	if factory.Kind == "" {
		factory.Kind = config.FactoryKindArachnid
	}
	if factory.Address == "" {
		factory.Address = ns.FactoryAddress
	}

	switch factory.Kind {
	case config.FactoryKindArachnid, config.FactoryKindCreateX:
	default:
		return factory, fmt.Errorf("unknown factory %q, expected %q or %q",
			factory.Kind, config.FactoryKindArachnid, config.FactoryKindCreateX)
	}
	return factory, nil
}

func resolveNetwork(v *viper.Viper, projectRoot string, foundryConfig *config.FoundryConfig) (*config.Network, error) {
	networkName := v.GetString("network")
	rpcURL := v.GetString("rpc_url")
	if networkName == "" && rpcURL == "" {
		return nil, nil
	}

	ctx := context.Background()
	resolver := NewNetworkResolver(projectRoot, foundryConfig)
	if rpcURL != "" {
		network, err := resolver.ResolveURL(ctx, rpcURL, v.GetUint64("chain_id"))
		if err != nil {
			return nil, err
		}
		if networkName != "" {
			network.Name = networkName
		}
		return network, nil
	}

	network, err := resolver.Resolve(ctx, networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	return network, nil
}

// FindProjectRoot walks up from the current directory to find foundry.toml or
// treb.toml. Outside a project the current directory is used.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		for _, marker := range []string{"foundry.toml", "treb.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".treb"))

	// Set up environment variables
	v.SetEnvPrefix("TREB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("namespace", defaultNamespace)
	v.SetDefault("timeout", "5m")
	v.SetDefault("receipt_poll_interval", "2s")
	v.SetDefault("receipt_timeout", "3m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		if err != nil {
			panic(err)
		}
	})

	return v
}
