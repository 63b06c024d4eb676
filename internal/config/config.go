package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	defaultBackend = "http://localhost:8080"
	defaultNetwork = "holesky"
	defaultTimeout = 15

	configFile      = "config.json"
	deploymentsFile = "deployments.json"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.w3deploy.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".w3deploy")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if len(cfg.Networks) == 0 {
		cfg.Networks = slices.Clone(DefaultNetworks)
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = defaultBackend
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// SetBackend validates and stores the backend base URL.
func (c *Config) SetBackend(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: expected http(s)://host[:port]", raw)
	}
	c.BackendURL = strings.TrimRight(u.String(), "/")
	return nil
}

// AddNetwork adds a deployable network.
func (c *Config) AddNetwork(name string) error {
	if slices.Contains(c.Networks, name) {
		return fmt.Errorf("network %s already configured", name)
	}
	c.Networks = append(c.Networks, name)
	return nil
}

// RemoveNetwork removes a deployable network. The default network cannot be removed.
func (c *Config) RemoveNetwork(name string) error {
	idx := slices.Index(c.Networks, name)
	if idx == -1 {
		return fmt.Errorf("network %s not configured", name)
	}
	if name == c.DefaultNetwork {
		return fmt.Errorf("network %s is the default; change the default first", name)
	}
	c.Networks = slices.Delete(c.Networks, idx, idx+1)
	return nil
}

// HasNetwork reports whether name is a configured network.
func (c *Config) HasNetwork(name string) bool {
	return slices.Contains(c.Networks, name)
}

// SetDefaultNetwork changes the default; the network must be configured.
func (c *Config) SetDefaultNetwork(name string) error {
	if !c.HasNetwork(name) {
		return fmt.Errorf("unknown network %q (configured: %s)", name, strings.Join(c.Networks, ", "))
	}
	c.DefaultNetwork = name
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// DeploymentsPath is where deployment records are kept.
func (c *Config) DeploymentsPath() string {
	return filepath.Join(c.configDir, deploymentsFile)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		BackendURL:     defaultBackend,
		DefaultNetwork: defaultNetwork,
		Networks:       slices.Clone(DefaultNetworks),
		RequestTimeout: defaultTimeout,
		configDir:      dir,
	}
}
