package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeploymentFile is a YAML description of one deterministic deployment
type DeploymentFile struct {
	Artifact        string   `yaml:"artifact"`
	Salt            string   `yaml:"salt"`
	ConstructorArgs []string `yaml:"constructorArgs"`
	Value           string   `yaml:"value"`
}

// LoadDeploymentFile reads and validates a deployment file. String values are
// expanded against the environment.
func LoadDeploymentFile(path string) (*DeploymentFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment file: %w", err)
	}

	var file DeploymentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse deployment file %s: %w", path, err)
	}
	if file.Artifact == "" {
		return nil, fmt.Errorf("deployment file %s: artifact is required", path)
	}

	file.Salt = os.ExpandEnv(file.Salt)
	file.Value = os.ExpandEnv(file.Value)
	for i, arg := range file.ConstructorArgs {
		file.ConstructorArgs[i] = os.ExpandEnv(arg)
	}
	return &file, nil
}
