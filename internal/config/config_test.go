package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/invoicer/internal/domain"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvArchiveDir, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Database.Path != def.Database.Path || cfg.Invoice.Title != "INVOICE" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.PriceType() != domain.PriceRetail {
		t.Fatalf("expected retail default, got %s", cfg.PriceType())
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := "invoice:\n  title: FACTURE\n  default_price_type: Wholesale\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvDBPath, filepath.Join(dir, "env.db"))
	t.Setenv(EnvArchiveDir, "")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Invoice.Title != "FACTURE" {
		t.Fatalf("expected title from file, got %q", cfg.Invoice.Title)
	}
	if cfg.Invoice.Footer != "Thank you for your business!" {
		t.Fatalf("expected default footer to survive partial file, got %q", cfg.Invoice.Footer)
	}
	if cfg.Database.Path != filepath.Join(dir, "env.db") || cfg.Log.Level != "warn" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if cfg.PriceType() != domain.PriceWholesale {
		t.Fatalf("expected wholesale, got %s", cfg.PriceType())
	}
}

func TestLoad_InvalidPriceType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("invoice:\n  default_price_type: bulk\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLoadDotEnv_ConfigDirWins(t *testing.T) {
	const key = "INVOICER_TEST_DOTENV"
	t.Setenv(key, "")
	os.Unsetenv(key)

	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, ".env"), []byte(key+"=from-config\n"), 0600); err != nil {
		t.Fatal(err)
	}

	work := t.TempDir()
	if err := os.WriteFile(filepath.Join(work, ".env"), []byte(key+"=from-cwd\n"), 0600); err != nil {
		t.Fatal(err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	if err := LoadDotEnv(configDir); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv(key); got != "from-config" {
		t.Fatalf("expected config dir value, got %q", got)
	}
}

func TestSaveAndEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "db", "invoicer.db")
	cfg.Invoice.ArchiveDir = filepath.Join(dir, "invoices")
	cfg.Log.File = filepath.Join(dir, "logs", "invoicer.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, d := range []string{"db", "invoices", "logs"} {
		if _, err := os.Stat(filepath.Join(dir, d)); err != nil {
			t.Fatalf("expected %s to exist: %v", d, err)
		}
	}

	path := filepath.Join(dir, "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvArchiveDir, "")
	t.Setenv(EnvLogLevel, "")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Invoice.ArchiveDir != cfg.Invoice.ArchiveDir {
		t.Fatalf("expected archive dir to round-trip")
	}
}
