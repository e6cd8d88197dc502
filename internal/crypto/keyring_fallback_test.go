//go:build !darwin

package crypto

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFallbackKeyring_RoundTrip(t *testing.T) {
	t.Setenv(EnvKey, "")
	envFile := filepath.Join(t.TempDir(), "cfg", ".env")
	if err := os.MkdirAll(filepath.Dir(envFile), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envFile, []byte("INVOICER_LOG_LEVEL=debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	k := NewKeyring(envFile)
	if k.IsAvailable() {
		t.Fatalf("expected no key before SetKey")
	}

	if err := k.SetKey("s3cret"); err != nil {
		t.Fatalf("set key: %v", err)
	}
	got, err := k.GetKey()
	if err != nil || got != "s3cret" {
		t.Fatalf("expected stored key, got %q (%v)", got, err)
	}

	info, err := os.Stat(envFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 key file, got %v", info.Mode().Perm())
	}

	if err := k.DeleteKey(); err != nil {
		t.Fatalf("delete key: %v", err)
	}
	if _, err := k.GetKey(); err == nil {
		t.Fatalf("expected missing key after delete")
	}
}

func TestFallbackKeyring_EnvWins(t *testing.T) {
	t.Setenv(EnvKey, "from-env")
	k := NewKeyring(filepath.Join(t.TempDir(), ".env"))

	got, err := k.GetKey()
	if err != nil || got != "from-env" {
		t.Fatalf("expected env key, got %q (%v)", got, err)
	}
}
