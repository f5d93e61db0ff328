package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the production roster API.
const DefaultAPIURL = "https://api-jesseguranca.onrender.com"

// ClientConfig is loaded from ~/.config/jesctl/config.yaml.
type ClientConfig struct {
	APIURL         string `yaml:"api_url"`
	Token          string `yaml:"token,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
	PruneSelection *bool  `yaml:"prune_selection,omitempty"`

	path string
}

// Prune reports whether stale selections are dropped on refresh. Defaults to true.
func (c *ClientConfig) Prune() bool {
	return c.PruneSelection == nil || *c.PruneSelection
}

// Validate checks the fields Load cannot default.
func (c *ClientConfig) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url %q must start with http:// or https://", c.APIURL)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jesctl"), nil
}

// DefaultPath returns ~/.config/jesctl/config.yaml.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path, or DefaultPath when path is empty, and
// validates it. A missing file yields defaults. A .env file in the working
// directory is loaded first; JESCTL_API_URL, JESCTL_TOKEN and
// JESCTL_LOG_LEVEL override values from the file.
func Load(path string) (*ClientConfig, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.path, err)
	}
	return cfg, nil
}

// Read is Load without validation, for repairing a broken config.
func Read(path string) (*ClientConfig, error) {
	_ = godotenv.Load()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var cfg ClientConfig
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	cfg.path = path
	return &cfg, nil
}

// Save writes cfg to path, or DefaultPath when path is empty.
func Save(path string, cfg *ClientConfig) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func applyEnv(cfg *ClientConfig) {
	if v := os.Getenv("JESCTL_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("JESCTL_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("JESCTL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func applyDefaults(cfg *ClientConfig) {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
}
