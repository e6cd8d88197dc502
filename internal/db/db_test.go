package db

import (
	"path/filepath"
	"testing"
)

func TestRunMigrations_Idempotent(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "nested", "invoicer.db"), "test-key")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := database.RunMigrations(); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	v, err := database.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != migrations[len(migrations)-1].version {
		t.Fatalf("expected version %d, got %d", migrations[len(migrations)-1].version, v)
	}

	for _, table := range []string{"customers", "products", "invoices", "invoice_items"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}
}

func TestOpen_WrongKeyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoicer.db")

	database, err := Open(path, "right")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.RunMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.Close()

	other, err := Open(path, "wrong")
	if err == nil {
		defer other.Close()
		if err := other.RunMigrations(); err == nil {
			t.Fatalf("expected wrong key to be rejected")
		}
	}
}
