// Config loading for the satchel CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/satchel/internal/paths"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeyNoticeTTL         = "notice_ttl"
	cfgKeyOrganizerEndpoint = "organizer.endpoint"
	cfgKeyOrganizerTimeout  = "organizer.timeout"
	cfgKeyOrganizerToken    = "organizer.token"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Satchel CLI configuration

# Backend selection: jsonl or sqlite
backend: jsonl

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# How long transient status messages stay visible
notice_ttl: 5s

# External reorganizer service
organizer:
  # endpoint: https://organizer.example.com/v1/organize
  timeout: 60s
  # token:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.DefaultBackend)
	v.SetDefault(cfgKeyNoticeTTL, types.DefaultNoticeTTL)
	v.SetDefault(cfgKeyOrganizerTimeout, types.DefaultOrganizerTimeout)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file
// does not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadSettings resolves the config directory, reads config.yaml, and
// builds a validated Config.
func loadSettings() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   v.GetString(cfgKeyDataDir),
		NoticeTTL: getDuration(v, cfgKeyNoticeTTL, types.DefaultNoticeTTL),
		Organizer: types.OrganizerConfig{
			Endpoint: v.GetString(cfgKeyOrganizerEndpoint),
			Timeout:  getDuration(v, cfgKeyOrganizerTimeout, types.DefaultOrganizerTimeout),
			Token:    v.GetString(cfgKeyOrganizerToken),
		},
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// getDuration reads a duration key, falling back when the key parses
// to zero.
func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d := v.GetDuration(key); d != 0 {
		return d
	}
	return fallback
}
