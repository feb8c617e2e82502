package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "bookkeep.yaml"

// dbPathEnv overrides the configured database path when set (loaded
// from the environment or a .env file).
const dbPathEnv = "BOOKKEEP_DB"

// Config represents the top-level bookkeep.yaml configuration.
type Config struct {
	Business     BusinessConfig `yaml:"business"`
	Database     DatabaseConfig `yaml:"database"`
	Fiscal       FiscalConfig   `yaml:"fiscal"`
	BankAccounts []BankAccount  `yaml:"bank_accounts,omitempty"`
	Defaults     DefaultsConfig `yaml:"defaults"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// BankAccount maps a bank statement feed to a chart-of-accounts entry.
type BankAccount struct {
	Name     string `yaml:"name"`
	LastFour string `yaml:"last_four"`
	Code     string `yaml:"code"`
}

// DefaultsConfig names well-known accounts used by import drafts.
type DefaultsConfig struct {
	OwnerEquityCode string `yaml:"owner_equity_code"`
	IncomeCode      string `yaml:"income_code"`
	ExpenseCode     string `yaml:"expense_code"`
}

// Load reads a bookkeep.yaml file, overlaying the database path from
// the environment (a .env file is honored if present).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	_ = godotenv.Load()
	if env := os.Getenv(dbPathEnv); env != "" {
		cfg.Database.Path = env
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Database: DatabaseConfig{
			Path: "bookkeep.db",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Defaults: DefaultsConfig{
			OwnerEquityCode: "3000",
			IncomeCode:      "4000",
			ExpenseCode:     "5000",
		},
	}
}
