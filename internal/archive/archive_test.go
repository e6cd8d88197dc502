package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/andy/invoicer/internal/domain"
)

type recordingOpener struct {
	opened []string
	err    error
}

func (r *recordingOpener) Open(path string) error {
	r.opened = append(r.opened, path)
	return r.err
}

func newTestArchive(t *testing.T, opener Opener, files ...string) *Archive {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.3"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return New(dir, opener, log.New(io.Discard))
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		date string
		time string
	}{
		{"invoice_20240301_093000.pdf", true, "2024-03-01", "09:30:00"},
		{"invoice_20231231_235959.PDF", true, "2023-12-31", "23:59:59"},
		{"invoice_20240301_0930.pdf", false, "", ""},
		{"invoice_2024031_093000.pdf", false, "", ""},
		{"invoice_20241301_093000.pdf", false, "", ""},
		{"Invoice_20240301_093000.pdf", false, "", ""},
		{"invoice_20240301_093000", false, "", ""},
		{"notes.txt", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ParseFileName(tt.name)
			if ok != tt.ok {
				t.Fatalf("expected recognized=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if e.Date() != tt.date || e.Time() != tt.time {
				t.Fatalf("expected %s %s, got %s %s", tt.date, tt.time, e.Date(), e.Time())
			}
		})
	}
}

func TestList_SortsNewestFirstAndSkipsOthers(t *testing.T) {
	a := newTestArchive(t, &recordingOpener{},
		"invoice_20240301_093000.pdf",
		"invoice_20240302_080000.pdf",
		"notes.txt",
		"invoice_20240301_093000.txt",
	)
	if err := os.Mkdir(filepath.Join(a.Dir(), "invoice_20250101_000000.pdf"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{
		"invoice_20240302_080000.pdf",
		"invoice_20240301_093000.txt",
		"invoice_20240301_093000.pdf",
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, name := range want {
		if entries[i].FileName != name {
			t.Errorf("[%d] expected %s, got %s", i, name, entries[i].FileName)
		}
	}
}

func TestList_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	a := New(dir, &recordingOpener{}, log.New(io.Discard))

	entries, err := a.List()
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", entries, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory to be created: %v", err)
	}
}

func TestOpen(t *testing.T) {
	opener := &recordingOpener{}
	a := newTestArchive(t, opener, "invoice_20240301_093000.pdf")

	if err := a.Open("invoice_20240301_093000.pdf"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(opener.opened) != 1 || opener.opened[0] != filepath.Join(a.Dir(), "invoice_20240301_093000.pdf") {
		t.Fatalf("unexpected opener calls %v", opener.opened)
	}

	if err := a.Open("invoice_20990101_000000.pdf"); !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected ErrIO for missing file, got %v", err)
	}
	if err := a.Open("../secret.pdf"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for path, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	a := newTestArchive(t, &recordingOpener{}, "invoice_20240301_093000.pdf")

	if err := a.Delete("invoice_20240301_093000.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries, _ := a.List()
	if len(entries) != 0 {
		t.Fatalf("expected empty archive after delete")
	}
	if err := a.Delete("invoice_20240301_093000.pdf"); !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected ErrIO deleting missing file, got %v", err)
	}
}

func TestChainOpener_FallsBack(t *testing.T) {
	var tried []string
	fail := func(name string) Launcher {
		return Launcher{Name: name, Run: func(string) error {
			tried = append(tried, name)
			return errors.New("not installed")
		}}
	}
	ok := Launcher{Name: "ok", Run: func(string) error {
		tried = append(tried, "ok")
		return nil
	}}

	if err := (ChainOpener{fail("a"), ok, fail("c")}).Open("x.pdf"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(tried) != 2 || tried[1] != "ok" {
		t.Fatalf("expected chain to stop at first success, tried %v", tried)
	}

	err := (ChainOpener{fail("a"), fail("b")}).Open("x.pdf")
	if !errors.Is(err, domain.ErrPlatform) {
		t.Fatalf("expected ErrPlatform, got %v", err)
	}
}

func TestDefaultOpener_NonZeroExitFallsThrough(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux opener chain")
	}

	bin := t.TempDir()
	marker := filepath.Join(bin, "gio-ran")
	stubs := map[string]string{
		"xdg-open": "#!/bin/sh\nexit 3\n",
		"gio":      "#!/bin/sh\n: > '" + marker + "'\nexit 0\n",
	}
	for name, script := range stubs {
		if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)

	doc := filepath.Join(t.TempDir(), "invoice_20240301_093000.pdf")
	if err := os.WriteFile(doc, []byte("%PDF-1.3"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := DefaultOpener().Open(doc); err != nil {
		t.Fatalf("expected gio to open the file, got %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("expected gio to run after xdg-open exited 3: %v", err)
	}
}

func TestDefaultOpener_AllFail(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux opener chain")
	}

	bin := t.TempDir()
	for _, name := range []string{"xdg-open", "gio"} {
		if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 4\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", bin)

	// browser fallback left out so the result does not depend on the desktop
	err := DefaultOpener()[:2].Open(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, domain.ErrPlatform) {
		t.Fatalf("expected ErrPlatform when every opener exits non-zero, got %v", err)
	}
}
