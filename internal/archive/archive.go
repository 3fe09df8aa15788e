// Package archive keeps timestamped copies of the live data file.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	DefaultRetention = 5

	suffix = ".bak"
	// stampLayout sorts lexically in chronological order.
	stampLayout = "20060102_150405.000000000"
)

// Archiver copies the live file into Dir before it is overwritten and prunes
// old copies down to Retention.
type Archiver struct {
	fs        billy.Filesystem
	dir       string
	retention int
	now       func() time.Time
}

type Option func(*Archiver)

// WithClock overrides the time source used to name archives.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) { a.now = now }
}

// New returns an archiver writing into dir on fs. A retention below one is
// treated as DefaultRetention.
func New(fs billy.Filesystem, dir string, retention int, opts ...Option) *Archiver {
	if retention < 1 {
		retention = DefaultRetention
	}
	a := &Archiver{fs: fs, dir: dir, retention: retention, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Archive copies livePath into the backup directory and prunes. It returns the
// archive path, or "" when there was no live file to copy.
func (a *Archiver) Archive(livePath string) (string, error) {
	name, err := a.Copy(livePath)
	if err != nil || name == "" {
		return name, err
	}
	if err := a.Prune(path.Base(livePath)); err != nil {
		return name, err
	}
	return name, nil
}

// Copy writes a timestamped copy of livePath without pruning. It returns ""
// when there is no live file.
func (a *Archiver) Copy(livePath string) (string, error) {
	data, err := util.ReadFile(a.fs, livePath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read live file: %w", err)
	}
	if err := a.fs.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := a.fs.Join(a.dir, path.Base(livePath)+"."+a.now().UTC().Format(stampLayout)+suffix)
	if err := util.WriteFile(a.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return name, nil
}

// Discard removes an archive written by Copy.
func (a *Archiver) Discard(name string) error {
	return a.fs.Remove(name)
}

// List returns the archives of the file named base, oldest first.
func (a *Archiver) List(base string) ([]string, error) {
	entries, err := a.fs.ReadDir(a.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, base+".") || !strings.HasSuffix(n, suffix) {
			continue
		}
		names = append(names, a.fs.Join(a.dir, n))
	}
	sort.Strings(names)
	return names, nil
}

// Prune removes all but the newest Retention archives of the file named base.
func (a *Archiver) Prune(base string) error {
	names, err := a.List(base)
	if err != nil {
		return err
	}
	for len(names) > a.retention {
		if err := a.fs.Remove(names[0]); err != nil {
			return fmt.Errorf("prune %s: %w", names[0], err)
		}
		names = names[1:]
	}
	return nil
}
