// Package updater owns the only path that replaces the active FAQ data.
package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/faqtree/internal/archive"
	"github.com/agentic-research/faqtree/internal/graph"
	"github.com/agentic-research/faqtree/internal/ingest"
	"github.com/agentic-research/faqtree/internal/journal"
)

var (
	ErrUpdateInProgress = errors.New("another update is in progress")
	ErrNoData           = errors.New("data file not found")
)

// Deps are the collaborators of an Updater. Journal, Notifier and Logger
// may be nil.
type Deps struct {
	FS       billy.Filesystem
	Store    *graph.Store
	Archiver *archive.Archiver
	Journal  journal.Recorder
	Notifier Notifier
	Logger   *slog.Logger
}

// Result describes an update that did not fail.
type Result struct {
	Status  journal.Status
	Archive string
	Digest  string
	Stats   graph.Stats
}

// Updater validates candidate documents and swaps them in. Updates are
// serialized; a second update started while one runs fails with
// ErrUpdateInProgress instead of queueing.
type Updater struct {
	mu       sync.Mutex
	digest   string
	livePath string
	opts     ingest.Options

	fs       billy.Filesystem
	store    *graph.Store
	archiver *archive.Archiver
	journal  journal.Recorder
	notifier Notifier
	logger   *slog.Logger
}

func New(livePath string, opts ingest.Options, d Deps) *Updater {
	u := &Updater{
		livePath: livePath,
		opts:     opts,
		fs:       d.FS,
		store:    d.Store,
		archiver: d.Archiver,
		journal:  d.Journal,
		notifier: d.Notifier,
		logger:   d.Logger,
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	if u.journal == nil {
		u.journal = journal.Nop{}
	}
	if u.notifier == nil {
		u.notifier = LogNotifier{Logger: u.logger}
	}
	return u
}

// LivePath is the file the active data set was read from.
func (u *Updater) LivePath() string { return u.livePath }

// LoadFile reads the live file and makes it active. When the file does not
// exist the current data stays active and ErrNoData is returned.
func (u *Updater) LoadFile(ctx context.Context) error {
	if !u.mu.TryLock() {
		return ErrUpdateInProgress
	}
	defer u.mu.Unlock()
	return u.load(ctx, "startup", EventStartup)
}

func (u *Updater) load(ctx context.Context, source string, kind EventKind) error {
	data, err := util.ReadFile(u.fs, u.livePath)
	if errors.Is(err, os.ErrNotExist) {
		u.notifier.Notify(ctx, Event{Kind: EventDataMissing, Source: source, Detail: u.livePath})
		return fmt.Errorf("%w: %s", ErrNoData, u.livePath)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", u.livePath, err)
	}

	sum := digest(data)
	if sum == u.digest {
		return nil
	}
	ds, err := ingest.Parse(data, u.opts)
	if err != nil {
		u.reject(ctx, source, sum, err)
		return fmt.Errorf("load %s: %w", u.livePath, err)
	}
	if err := u.store.ReplaceAll(ds); err != nil {
		return fmt.Errorf("swap data: %w", err)
	}
	u.digest = sum
	u.applied(ctx, kind, source, sum, ds.Stats(), "")
	return nil
}

// Apply validates data and, when it is a valid document, copies the current
// live file into the archive, writes data in its place and swaps the store.
// Old archives are pruned only after the write succeeds. A rejected document
// leaves the live file, the archive and the store untouched.
//
// A document identical to the active one is a no-op unless the live file
// on disk no longer holds it, in which case the file is rewritten.
func (u *Updater) Apply(ctx context.Context, data []byte, source string) (Result, error) {
	if !u.mu.TryLock() {
		return Result{}, ErrUpdateInProgress
	}
	defer u.mu.Unlock()

	sum := digest(data)
	if sum == u.digest && u.liveDigest() == sum {
		res := Result{Status: journal.StatusUnchanged, Digest: sum, Stats: u.store.Snapshot().Stats()}
		u.record(ctx, journal.Entry{Source: source, Status: res.Status, Digest: sum,
			Categories: res.Stats.Categories, Questions: res.Stats.Questions})
		return res, nil
	}

	ds, err := ingest.Parse(data, u.opts)
	if err != nil {
		u.reject(ctx, source, sum, err)
		return Result{}, fmt.Errorf("reject update: %w", err)
	}

	archived, err := u.archiver.Copy(u.livePath)
	if err != nil {
		u.reject(ctx, source, sum, err)
		return Result{}, fmt.Errorf("archive live file: %w", err)
	}
	if err := u.writeLive(data); err != nil {
		if archived != "" {
			_ = u.archiver.Discard(archived)
		}
		u.reject(ctx, source, sum, err)
		return Result{}, fmt.Errorf("write live file: %w", err)
	}
	if err := u.archiver.Prune(filepath.Base(u.livePath)); err != nil {
		u.logger.Warn("prune backups failed", "error", err)
	}
	if err := u.store.ReplaceAll(ds); err != nil {
		return Result{}, fmt.Errorf("swap data: %w", err)
	}
	u.digest = sum

	st := ds.Stats()
	u.applied(ctx, EventUpdateApplied, source, sum, st, archived)
	return Result{Status: journal.StatusApplied, Archive: archived, Digest: sum, Stats: st}, nil
}

// Current returns the live file as it is on disk.
func (u *Updater) Current() ([]byte, error) {
	data, err := util.ReadFile(u.fs, u.livePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoData, u.livePath)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u.livePath, err)
	}
	return data, nil
}

// liveDigest hashes the live file, or returns "" when it cannot be read.
func (u *Updater) liveDigest() string {
	data, err := util.ReadFile(u.fs, u.livePath)
	if err != nil {
		return ""
	}
	return digest(data)
}

// writeLive replaces the live file through a temporary file and a rename, so
// readers of the path see either the old or the new document.
func (u *Updater) writeLive(data []byte) error {
	dir := filepath.Dir(u.livePath)
	if err := u.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := util.TempFile(u.fs, dir, "."+filepath.Base(u.livePath)+".tmp-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = u.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = u.fs.Remove(tmp)
		return err
	}
	if err := u.fs.Rename(tmp, u.livePath); err != nil {
		_ = u.fs.Remove(tmp)
		return err
	}
	return nil
}

func (u *Updater) applied(ctx context.Context, kind EventKind, source, sum string, st graph.Stats, archived string) {
	u.logger.Info("data updated",
		"source", source,
		"categories", st.Categories,
		"questions", st.Questions,
		"archive", archived,
	)
	u.record(ctx, journal.Entry{Source: source, Status: journal.StatusApplied, Digest: sum,
		Detail: archived, Categories: st.Categories, Questions: st.Questions})
	u.notifier.Notify(ctx, Event{Kind: kind, Source: source, Stats: st})
}

func (u *Updater) reject(ctx context.Context, source, sum string, cause error) {
	u.logger.Warn("update rejected", "source", source, "error", cause)
	u.record(ctx, journal.Entry{Source: source, Status: journal.StatusRejected, Digest: sum, Detail: cause.Error()})
	u.notifier.Notify(ctx, Event{Kind: EventUpdateRejected, Source: source, Detail: cause.Error()})
}

func (u *Updater) record(ctx context.Context, e journal.Entry) {
	if err := u.journal.Record(ctx, e); err != nil {
		u.logger.Error("journal write failed", "error", err)
	}
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
