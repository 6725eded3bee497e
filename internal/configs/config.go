package configs

import (
	"fmt"
	"os"
)

// Config is the user configuration file.
type Config struct {
	// VaultPath is the vault directory. "~" expands to the home directory.
	VaultPath string `toml:"vault_path"`

	// Audit enables the audit log.
	Audit bool `toml:"audit"`

	// AuditPath overrides the audit log location.
	AuditPath string `toml:"audit_path"`

	// ConfirmRemove asks before remove deletes an entry.
	ConfirmRemove bool `toml:"confirm_remove"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		VaultPath:     DefaultVaultPath,
		Audit:         true,
		ConfirmRemove: true,
	}
}

// Load loads the configuration at configPath. Missing keys keep their
// defaults, and a missing file yields DefaultConfig.
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}

	return config, nil
}

// Save writes config to configPath.
func Save(configPath string, config *Config) error {
	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
