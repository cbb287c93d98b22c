package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
)

const defaultOutDir = "out"

var envRefPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// envReference returns the variable named by an endpoint written as exactly
// ${NAME}. Endpoints that only embed a variable are not references.
func envReference(endpoint string) (string, bool) {
	m := envRefPattern.FindStringSubmatch(endpoint)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// loadEnvFiles loads .env and .env.local from the project root. Variables
// already present in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFoundryConfig loads and parses foundry.toml. A missing file yields an
// empty config so prediction works outside Foundry projects.
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	cfg := &config.FoundryConfig{
		RpcEndpoints: make(map[string]string),
		Profile:      make(map[string]config.ProfileConfig),
	}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw config.FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range raw.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
		if cfg.RpcEndpoints[name] == "" {
			if envVar, ok := envReference(url); ok {
				return nil, fmt.Errorf("rpc endpoint %s references %s, which is not set", name, envVar)
			}
		}
	}
	for name, profile := range raw.Profile {
		cfg.Profile[name] = profile
	}

	return cfg, nil
}

// outDir returns the artifact directory of profile, falling back to the
// default profile and then to Foundry's default.
func outDir(projectRoot string, foundryConfig *config.FoundryConfig, profile string) string {
	out := defaultOutDir
	if p, ok := foundryConfig.Profile["default"]; ok && p.OutPath != "" {
		out = p.OutPath
	}
	if p, ok := foundryConfig.Profile[profile]; ok && p.OutPath != "" {
		out = p.OutPath
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(projectRoot, out)
}
