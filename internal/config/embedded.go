package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed gameConfig.json
var embeddedConfig []byte

// loadEmbeddedConfig parses the compiled-in default configuration.
func loadEmbeddedConfig() (*jsonConfig, error) {
	var cfg jsonConfig
	if err := json.Unmarshal(embeddedConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded config file: %w", err)
	}
	return &cfg, nil
}
