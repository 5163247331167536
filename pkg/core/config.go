// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds layerslim configuration
type Config struct {
	OutDir      string `yaml:"out_dir"`
	CachePath   string `yaml:"cache_path"`
	Pip         string `yaml:"pip"`
	Python      string `yaml:"python"`
	Runtime     string `yaml:"runtime,omitempty"`
	Codec       string `yaml:"codec"`
	LogLevel    string `yaml:"log_level"`
	ProfilesDir string `yaml:"profiles_dir,omitempty"`
	Checkpoints bool   `yaml:"checkpoints"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		OutDir:      filepath.Join(".", "cdk.out", "layers"),
		CachePath:   getDefaultCachePath(),
		Pip:         filepath.Join(".venv", "bin", "pip"),
		Python:      "python3",
		Runtime:     "", // Auto-detect
		Codec:       "pickle",
		LogLevel:    "info",
		Checkpoints: true,
	}
}

// DefaultConfigPath is $HOME/.config/layerslim/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "layerslim", "config.yaml"), nil
}

// LoadConfig loads configuration from file. Fields the file leaves out
// keep their defaults; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultCachePath() string {
	if path := os.Getenv("LAYERSLIM_CACHE_PATH"); path != "" {
		return path
	}
	return os.TempDir()
}
