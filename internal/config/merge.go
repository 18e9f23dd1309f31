package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names.
const (
	keyBackend = "backend"
	keyLoader  = "loader"
	keyLogging = "logging"
	keyOutput  = "output"
	keyServer  = "server"
)

// MergeYAML reads a YAML file and applies its sections onto target. Fields
// missing from a section keep their current values. Unknown top-level keys
// are ignored.
func MergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = MergeYAMLBytes(target, data); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// MergeYAMLBytes is MergeYAML for in-memory data.
func MergeYAMLBytes(target *Config, data []byte) error {
	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	for key, node := range overlay {
		if err := decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("section %q: %w", key, err)
		}
	}
	return nil
}

// decodeSection decodes node into the field of target named by key.
// Decoding into the existing value keeps fields the overlay omits.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyBackend:
		return node.Decode(&target.Backend)
	case keyLoader:
		return node.Decode(&target.Loader)
	case keyLogging:
		return node.Decode(&target.Logging)
	case keyOutput:
		return node.Decode(&target.Output)
	case keyServer:
		return node.Decode(&target.Server)
	default:
		return nil
	}
}
