package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/andy/invoicer/internal/domain"
)

var namePattern = regexp.MustCompile(`^invoice_(\d{8})_(\d{6})\.([A-Za-z0-9]+)$`)

// Entry is one recognized document in the archive
type Entry struct {
	FileName    string
	GeneratedAt time.Time
	Size        int64
}

// Date is the display form of the generation day
func (e Entry) Date() string {
	return e.GeneratedAt.Format("2006-01-02")
}

// Time is the display form of the generation time of day
func (e Entry) Time() string {
	return e.GeneratedAt.Format("15:04:05")
}

// ParseFileName recognizes invoice_<YYYYMMDD>_<HHMMSS>.<ext>. Names that do not
// match, or carry an impossible date, are reported as unrecognized.
func ParseFileName(name string) (Entry, bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Entry{}, false
	}
	t, err := time.ParseInLocation("20060102150405", m[1]+m[2], time.Local)
	if err != nil {
		return Entry{}, false
	}
	return Entry{FileName: name, GeneratedAt: t}, true
}

// Archive is the flat directory of rendered invoices
type Archive struct {
	dir    string
	opener Opener
	logger *log.Logger
}

// New creates an Archive over dir. A nil opener uses the platform default.
func New(dir string, opener Opener, logger *log.Logger) *Archive {
	if opener == nil {
		opener = DefaultOpener()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Archive{dir: dir, opener: opener, logger: logger}
}

// Dir returns the archive directory
func (a *Archive) Dir() string {
	return a.dir
}

// List returns recognized documents, newest first. Ties sort by file name
// descending. The directory is created if missing.
func (a *Archive) List() ([]Entry, error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w: %w", domain.ErrIO, err)
	}

	dirEntries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w: %w", domain.ErrIO, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		entry, ok := ParseFileName(de.Name())
		if !ok {
			continue
		}
		if info, err := de.Info(); err == nil {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].GeneratedAt.Equal(entries[j].GeneratedAt) {
			return entries[i].GeneratedAt.After(entries[j].GeneratedAt)
		}
		return entries[i].FileName > entries[j].FileName
	})
	return entries, nil
}

// Path resolves a file name inside the archive
func (a *Archive) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", domain.NewValidationError("file_name", "must be a plain file name")
	}
	return filepath.Join(a.dir, name), nil
}

// Open shows a document in the system viewer
func (a *Archive) Open(name string) error {
	path, err := a.Path(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open %s: %w: %w", name, domain.ErrIO, err)
	}

	if err := a.opener.Open(path); err != nil {
		a.logger.Warn("no viewer could open document", "path", path, "err", err)
		return err
	}
	a.logger.Debug("document opened", "path", path)
	return nil
}

// Delete removes a document
func (a *Archive) Delete(name string) error {
	path, err := a.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w: %w", name, domain.ErrNotFound, domain.ErrIO)
		}
		return fmt.Errorf("failed to delete %s: %w: %w", name, domain.ErrIO, err)
	}
	a.logger.Info("document deleted", "file", name)
	return nil
}
