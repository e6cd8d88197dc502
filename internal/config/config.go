package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/andy/invoicer/internal/domain"
)

// Environment variables that override the config file
const (
	EnvDBPath     = "INVOICER_DB_PATH"
	EnvArchiveDir = "INVOICER_ARCHIVE_DIR"
	EnvLogLevel   = "INVOICER_LOG_LEVEL"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice document settings
	Invoice InvoiceConfig `yaml:"invoice"`

	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to the encrypted SQLite database
}

type InvoiceConfig struct {
	ArchiveDir       string `yaml:"archive_dir"`        // Directory for generated PDFs
	Title            string `yaml:"title"`              // Heading printed on every invoice
	Footer           string `yaml:"footer"`             // Closing line printed under the items
	CurrencySymbol   string `yaml:"currency_symbol"`    // Shown in the CLI and TUI only, never in the PDF
	DefaultPriceType string `yaml:"default_price_type"` // wholesale or retail
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log destination; empty logs to stderr
}

// DefaultConfigDir returns ~/.config/invoicer
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "invoicer")
	}
	return filepath.Join(homeDir, ".config", "invoicer")
}

// DefaultConfigPath returns ~/.config/invoicer/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := DefaultConfigDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "invoicer.db"),
		},
		Invoice: InvoiceConfig{
			ArchiveDir:       filepath.Join(dir, "invoices"),
			Title:            "INVOICE",
			Footer:           "Thank you for your business!",
			CurrencySymbol:   "₹",
			DefaultPriceType: string(domain.PriceRetail),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "invoicer.log"),
		},
	}
}

// LoadDotEnv loads .env from the config directory and then the working
// directory. Variables already set in the environment are never replaced, so
// the first file to define a key wins.
func LoadDotEnv(configDir string) error {
	for _, path := range []string{filepath.Join(configDir, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads .env files and then the default config path
func LoadDefault() (*Config, error) {
	if err := LoadDotEnv(DefaultConfigDir()); err != nil {
		return nil, err
	}
	return Load(DefaultConfigPath())
}

// ApplyEnv overrides settings from INVOICER_* variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvArchiveDir); v != "" {
		c.Invoice.ArchiveDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	verr := &domain.ValidationError{}
	if c.Database.Path == "" {
		verr.Add("database.path", "is required")
	}
	if c.Invoice.ArchiveDir == "" {
		verr.Add("invoice.archive_dir", "is required")
	}
	if _, err := domain.ParsePriceType(c.Invoice.DefaultPriceType); err != nil {
		verr.Add("invoice.default_price_type", "must be wholesale or retail")
	}
	return verr.OrNil()
}

// PriceType returns the configured default pricing tier
func (c *Config) PriceType() domain.PriceType {
	t, err := domain.ParsePriceType(c.Invoice.DefaultPriceType)
	if err != nil {
		return domain.PriceRetail
	}
	return t
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database and archive directories
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Invoice.ArchiveDir, 0755); err != nil {
		return err
	}

	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0755); err != nil {
			return err
		}
	}

	return nil
}
