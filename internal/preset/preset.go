// Package preset loads banner configurations from YAML files and watches
// them for changes.
package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/rook-computer/bannercast/internal/banner"
)

// Parse decodes a YAML preset. Missing keys keep their default values and
// invalid enum literals fall back to the defaults.
func Parse(byts []byte) (banner.Config, error) {
	cfg := banner.Default()
	if err := yaml.Unmarshal(byts, &cfg); err != nil {
		return banner.Config{}, fmt.Errorf("parse preset: %w", err)
	}
	return cfg.Normalize(), nil
}

// Load reads and parses the preset at path.
func Load(path string) (banner.Config, error) {
	byts, err := os.ReadFile(path)
	if err != nil {
		return banner.Config{}, fmt.Errorf("read preset: %w", err)
	}
	cfg, err := Parse(byts)
	if err != nil {
		return banner.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as a YAML preset.
func Marshal(cfg banner.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
