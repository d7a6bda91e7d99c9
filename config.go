package carteira

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Customer struct {
		ID   string `yaml:"id"`
		Nome string `yaml:"nome"`
	} `yaml:"customer"`
	Store struct {
		// Backend selects the ledger store: "file", "sqlite" or "memory".
		Backend string `yaml:"backend"`
		// Path is the data directory for "file" or the database file for
		// "sqlite".
		Path string `yaml:"path"`
	} `yaml:"store"`
	// DefaultBalance is the opening cash balance for customers without a
	// persisted record.
	DefaultBalance float64 `yaml:"default_balance"`
	// CatalogPath overrides the embedded product catalog.
	CatalogPath string `yaml:"catalog_path"`
	Agent       struct {
		Model string `yaml:"model"`
	} `yaml:"agent"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// LoadConfig reads config from a YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error; the
// defaults describe a complete local setup.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("lendo configuração: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("configuração inválida: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CARTEIRA_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("CARTEIRA_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("CARTEIRA_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("CARTEIRA_SALDO_INICIAL"); v != "" {
		if saldo, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DefaultBalance = saldo
		}
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Agent.Model = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Customer.ID == "" {
		cfg.Customer.ID = "cliente"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "file"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = ".carteira"
	}
	if cfg.DefaultBalance == 0 {
		cfg.DefaultBalance = 20000
	}
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = "gemini-2.5-pro"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Defaults returns the ledger defaults the config describes.
func (c *Config) Defaults() LedgerDefaults {
	return LedgerDefaults{
		Name:           c.Customer.Nome,
		OpeningBalance: BRL(c.DefaultBalance),
	}
}
