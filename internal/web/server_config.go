package web

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

const (
	EnvListenAddr = "BANNERCAST_LISTEN"
	EnvDevMode    = "BANNERCAST_DEV"
	EnvPublicURL  = "BANNERCAST_PUBLIC_URL"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - bannercast: :8080
// - preview:    no server
type ServerConfig struct {
	ListenAddr string `yaml:"listen"`
	DevMode    bool   `yaml:"dev"`

	// PublicURL is the externally reachable base URL used for share links.
	// When empty it is derived from each request.
	PublicURL string `yaml:"publicURL"`

	StaticDir string `yaml:"staticDir"`
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	return applyEnv(ServerConfig{ListenAddr: defaultListenAddr})
}

// LoadServerConfig reads the YAML file at path (when set) and then applies
// the environment on top.
func LoadServerConfig(path string, defaultListenAddr string) (ServerConfig, error) {
	cfg := ServerConfig{ListenAddr: defaultListenAddr}

	if path != "" {
		byts, err := os.ReadFile(path)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalStrict(byts, &cfg); err != nil {
			return ServerConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.ListenAddr == "" {
			cfg.ListenAddr = defaultListenAddr
		}
	}

	return applyEnv(cfg)
}

func applyEnv(cfg ServerConfig) (ServerConfig, error) {
	if listenAddr := os.Getenv(EnvListenAddr); listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		cfg.DevMode = parsed
	}

	if publicURL := os.Getenv(EnvPublicURL); publicURL != "" {
		cfg.PublicURL = publicURL
	}

	return cfg, nil
}
