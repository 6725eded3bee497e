package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/secman/internal/utils"
)

const (
	// EnvVault overrides the vault path from the config file.
	EnvVault = "SECMAN_VAULT"

	// DefaultVaultPath is used when neither flag, env nor config set a path.
	DefaultVaultPath = "~/.secman"
)

// Source names where a resolved vault path came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// Settings is the configuration in effect for one command.
type Settings struct {
	ConfigPath    string `json:"config_path"`
	VaultPath     string `json:"vault_path"`
	VaultSource   Source `json:"vault_source"`
	Audit         bool   `json:"audit"`
	AuditPath     string `json:"audit_path"`
	ConfirmRemove bool   `json:"confirm_remove"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/secman/config.toml, or the
// platform equivalent.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(configDir, "secman", "config.toml"), nil
}

// DefaultAuditPath returns $XDG_DATA_HOME/secman/audit.jsonl, falling back
// to ~/.local/share.
func DefaultAuditPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")

	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "secman", "audit.jsonl"), nil
}

// Resolve loads the config file and applies the vault path precedence:
// flagVault, then $SECMAN_VAULT, then vault_path, then the default.
// An empty configPath means DefaultConfigPath.
func Resolve(configPath, flagVault string) (*Settings, error) {
	if configPath == "" {
		var err error
		configPath, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	config, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		ConfigPath:    configPath,
		Audit:         config.Audit,
		ConfirmRemove: config.ConfirmRemove,
	}

	vaultPath, source := DefaultVaultPath, SourceDefault
	switch {
	case flagVault != "":
		vaultPath, source = flagVault, SourceFlag
	case os.Getenv(EnvVault) != "":
		vaultPath, source = os.Getenv(EnvVault), SourceEnv
	case config.VaultPath != "" && config.VaultPath != DefaultVaultPath:
		vaultPath, source = config.VaultPath, SourceConfig
	}

	settings.VaultSource = source
	if settings.VaultPath, err = absPath(vaultPath); err != nil {
		return nil, err
	}

	if config.AuditPath != "" {
		settings.AuditPath, err = absPath(config.AuditPath)
	} else {
		settings.AuditPath, err = DefaultAuditPath()
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func absPath(path string) (string, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}
