package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"stablecore/crypto"
)

const (
	defaultListenAddress = ":8645"
	defaultDataDir       = "./stable-data"
	defaultLogLevel      = "info"
	defaultOracleMaxAge  = 60
	// defaultVaultAddress is the protocol-owned principal holding locked
	// collateral when the operator does not override it.
	defaultVaultAddress = "stcm1wd6xzcnvv5kkxmmjv5khvct4d36qqqqqda6mlr"
)

// Config captures the runtime settings for the stablecoin daemon.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	// VaultAddress is the bech32 module principal that holds locked
	// collateral and must never be a user account.
	VaultAddress string `toml:"VaultAddress"`
	// OracleMaxAgeSeconds bounds how old a published quote may be before
	// valuations fail closed.
	OracleMaxAgeSeconds int64  `toml:"OracleMaxAgeSeconds"`
	LogLevel            string `toml:"LogLevel"`
	Environment         string `toml:"Environment"`
}

// Load reads the TOML configuration from the given path, creating a default
// file when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() {
	if cfg == nil {
		return
	}
	cfg.ListenAddress = strings.TrimSpace(cfg.ListenAddress)
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = defaultListenAddress
	}
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	cfg.VaultAddress = strings.TrimSpace(cfg.VaultAddress)
	if cfg.VaultAddress == "" {
		cfg.VaultAddress = defaultVaultAddress
	}
	if cfg.OracleMaxAgeSeconds <= 0 {
		cfg.OracleMaxAgeSeconds = defaultOracleMaxAge
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	cfg.Environment = strings.TrimSpace(cfg.Environment)
}

// Validate checks the settings that cannot be repaired by defaulting.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("configuration is missing")
	}
	vault, err := crypto.DecodeAddress(cfg.VaultAddress)
	if err != nil {
		return fmt.Errorf("vault address: %w", err)
	}
	if vault.Prefix() != crypto.ModulePrefix {
		return fmt.Errorf("vault address must carry the %q prefix", crypto.ModulePrefix)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return nil
}

// Vault returns the decoded vault principal. Call Validate first.
func (cfg *Config) Vault() crypto.Address {
	return crypto.MustDecodeAddress(cfg.VaultAddress)
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.normalize()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create config: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return cfg, nil
}
