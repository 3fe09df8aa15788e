package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/faqtree/internal/archive"
	"github.com/agentic-research/faqtree/internal/graph"
	"github.com/agentic-research/faqtree/internal/ingest"
	"github.com/agentic-research/faqtree/internal/journal"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) kinds() []EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []EventKind
	for _, ev := range n.events {
		out = append(out, ev.Kind)
	}
	return out
}

type recordingJournal struct {
	entries []journal.Entry
}

func (j *recordingJournal) Record(_ context.Context, e journal.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

func doc(answer string) []byte {
	return []byte(fmt.Sprintf(`{
		"texts": {"start": "hi", "select": "pick", "unknown": "eh"},
		"questions": {"Shipping": {"When?": %q}, "Top": "root answer"}
	}`, answer))
}

type fixture struct {
	fs       billy.Filesystem
	store    *graph.Store
	notifier *recordingNotifier
	journal  *recordingJournal
	archiver *archive.Archiver
	u        *Updater
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fs:       memfs.New(),
		store:    graph.NewStore(nil),
		notifier: &recordingNotifier{},
		journal:  &recordingJournal{},
	}
	n := 0
	clock := func() time.Time {
		n++
		return time.Date(2026, 1, 1, 0, 0, n, 0, time.UTC)
	}
	f.archiver = archive.New(f.fs, "backups", 5, archive.WithClock(clock))
	f.u = New("data.json", ingest.DefaultOptions(), Deps{
		FS:       f.fs,
		Store:    f.store,
		Archiver: f.archiver,
		Journal:  f.journal,
		Notifier: f.notifier,
	})
	return f
}

func (f *fixture) answer(t *testing.T) string {
	t.Helper()
	q, ok := f.store.Snapshot().Question(-1)
	require.True(t, ok)
	return q.Answer
}

func TestLoadFileMissing(t *testing.T) {
	f := newFixture(t)

	err := f.u.LoadFile(context.Background())
	require.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, []EventKind{EventDataMissing}, f.notifier.kinds())
	assert.Equal(t, "start text", f.store.Texts().Start, "defaults stay active")
	assert.Zero(t, f.store.Generation())
}

func TestLoadFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))

	require.NoError(t, f.u.LoadFile(context.Background()))
	assert.Equal(t, "monday", f.answer(t))
	assert.Equal(t, "hi", f.store.Texts().Start)
	assert.Equal(t, []EventKind{EventStartup}, f.notifier.kinds())
}

func TestLoadFileInvalidKeepsDefaults(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", []byte(`{"texts": {}}`), 0o644))

	err := f.u.LoadFile(context.Background())
	require.ErrorIs(t, err, ingest.ErrSchemaViolation)
	assert.Equal(t, []EventKind{EventUpdateRejected}, f.notifier.kinds())
	assert.Zero(t, f.store.Generation())
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))
	require.NoError(t, f.u.LoadFile(ctx))

	res, err := f.u.Apply(ctx, doc("friday"), "test")
	require.NoError(t, err)
	assert.Equal(t, journal.StatusApplied, res.Status)
	assert.Equal(t, "friday", f.answer(t))

	live, err := util.ReadFile(f.fs, "data.json")
	require.NoError(t, err)
	assert.Equal(t, doc("friday"), live)

	old, err := util.ReadFile(f.fs, res.Archive)
	require.NoError(t, err)
	assert.Equal(t, doc("monday"), old, "the previous live file is archived")

	assert.Equal(t, []EventKind{EventStartup, EventUpdateApplied}, f.notifier.kinds())
	last := f.journal.entries[len(f.journal.entries)-1]
	assert.Equal(t, journal.StatusApplied, last.Status)
	assert.Equal(t, "test", last.Source)
	assert.Equal(t, res.Digest, last.Digest)
}

func TestApplyWithoutLiveFile(t *testing.T) {
	f := newFixture(t)

	res, err := f.u.Apply(context.Background(), doc("tuesday"), "test")
	require.NoError(t, err)
	assert.Empty(t, res.Archive)
	assert.Equal(t, "tuesday", f.answer(t))
}

func TestApplyRejectedLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))
	require.NoError(t, f.u.LoadFile(ctx))
	before := f.store.Snapshot()

	for _, bad := range []string{
		`{"texts": {"start": "a", "select": "b", "unknown": "c"}, "questions": {"x": 1}}`,
		`{"texts": `,
		`[]`,
	} {
		_, err := f.u.Apply(ctx, []byte(bad), "test")
		require.Error(t, err, bad)
	}

	assert.Same(t, before, f.store.Snapshot())
	live, err := util.ReadFile(f.fs, "data.json")
	require.NoError(t, err)
	assert.Equal(t, doc("monday"), live)

	names, err := f.archiver.List("data.json")
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, e := range f.journal.entries[1:] {
		assert.Equal(t, journal.StatusRejected, e.Status)
		assert.NotEmpty(t, e.Detail)
	}
	assert.Equal(t, EventUpdateRejected, f.notifier.kinds()[1])
}

func TestApplyRejectionCarriesFirstViolation(t *testing.T) {
	f := newFixture(t)
	bad := `{"texts": {"start": "a", "select": "b", "unknown": "c"},
		"questions": {"A": {"B": [1]}, "C": 2}}`

	_, err := f.u.Apply(context.Background(), []byte(bad), "test")
	require.ErrorIs(t, err, ingest.ErrSchemaViolation)

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	require.Len(t, f.notifier.events, 1)
	assert.Contains(t, f.notifier.events[0].Detail, `"B"`)
	assert.NotContains(t, f.notifier.events[0].Detail, `"C"`)
}

func TestApplyUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))
	require.NoError(t, f.u.LoadFile(ctx))
	gen := f.store.Generation()

	res, err := f.u.Apply(ctx, doc("monday"), "test")
	require.NoError(t, err)
	assert.Equal(t, journal.StatusUnchanged, res.Status)
	assert.Equal(t, gen, f.store.Generation())

	names, err := f.archiver.List("data.json")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestApplyConcurrentUpdateFails(t *testing.T) {
	f := newFixture(t)

	f.u.mu.Lock()
	_, err := f.u.Apply(context.Background(), doc("x"), "test")
	assert.ErrorIs(t, err, ErrUpdateInProgress)
	assert.ErrorIs(t, f.u.LoadFile(context.Background()), ErrUpdateInProgress)
	f.u.mu.Unlock()

	assert.Zero(t, f.store.Generation())
	assert.Empty(t, f.journal.entries)
}

func TestBackupRetention(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("v0"), 0o644))

	for i := 1; i <= 7; i++ {
		_, err := f.u.Apply(ctx, doc(fmt.Sprintf("v%d", i)), "test")
		require.NoError(t, err)
	}

	names, err := f.archiver.List("data.json")
	require.NoError(t, err)
	require.Len(t, names, 5)
	oldest, err := util.ReadFile(f.fs, names[0])
	require.NoError(t, err)
	assert.Equal(t, doc("v2"), oldest)
	assert.Equal(t, "v7", f.answer(t))
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(live, doc("monday"), 0o644))

	fs := osfs.New("")
	store := graph.NewStore(nil)
	notifier := &recordingNotifier{}
	u := New(live, ingest.DefaultOptions(), Deps{
		FS:       fs,
		Store:    store,
		Archiver: archive.New(fs, filepath.Join(dir, "backups"), 5),
		Notifier: notifier,
	})
	require.NoError(t, u.LoadFile(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- u.Watch(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(live, doc("sunday"), 0o644)
		q, ok := store.Snapshot().Question(-1)
		return ok && q.Answer == "sunday"
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, notifier.kinds(), EventUpdateApplied)
}

func TestApplyRestoresBrokenLiveFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))
	require.NoError(t, f.u.LoadFile(ctx))

	require.NoError(t, util.WriteFile(f.fs, "data.json", []byte(`{"texts": {`), 0o644))

	res, err := f.u.Apply(ctx, doc("monday"), "test")
	require.NoError(t, err)
	assert.Equal(t, journal.StatusApplied, res.Status)

	live, err := util.ReadFile(f.fs, "data.json")
	require.NoError(t, err)
	assert.Equal(t, doc("monday"), live)

	broken, err := util.ReadFile(f.fs, res.Archive)
	require.NoError(t, err)
	assert.Equal(t, `{"texts": {`, string(broken))
}

func TestApplyRewritesMissingLiveFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))
	require.NoError(t, f.u.LoadFile(ctx))
	require.NoError(t, f.fs.Remove("data.json"))

	res, err := f.u.Apply(ctx, doc("monday"), "test")
	require.NoError(t, err)
	assert.Equal(t, journal.StatusApplied, res.Status)
	live, err := util.ReadFile(f.fs, "data.json")
	require.NoError(t, err)
	assert.Equal(t, doc("monday"), live)
}

type failingRename struct {
	billy.Filesystem
}

func (failingRename) Rename(string, string) error { return errors.New("disk full") }

func TestApplyWriteFailureKeepsBackups(t *testing.T) {
	ctx := context.Background()
	fs := memfs.New()
	n := 0
	clock := func() time.Time {
		n++
		return time.Date(2026, 1, 1, 0, 0, n, 0, time.UTC)
	}
	archiver := archive.New(fs, "backups", 2, archive.WithClock(clock))
	for _, v := range []string{"v0", "v1"} {
		require.NoError(t, util.WriteFile(fs, "data.json", doc(v), 0o644))
		_, err := archiver.Archive("data.json")
		require.NoError(t, err)
	}
	before, err := archiver.List("data.json")
	require.NoError(t, err)
	require.Len(t, before, 2)

	store := graph.NewStore(nil)
	u := New("data.json", ingest.DefaultOptions(), Deps{
		FS:       failingRename{fs},
		Store:    store,
		Archiver: archiver,
		Notifier: &recordingNotifier{},
	})

	_, err = u.Apply(ctx, doc("v2"), "test")
	require.Error(t, err)

	after, err := archiver.List("data.json")
	require.NoError(t, err)
	assert.Equal(t, before, after, "no backup is evicted by a failed write")

	live, err := util.ReadFile(fs, "data.json")
	require.NoError(t, err)
	assert.Equal(t, doc("v1"), live)
	assert.Zero(t, store.Generation())
}

func TestCurrent(t *testing.T) {
	f := newFixture(t)

	_, err := f.u.Current()
	require.ErrorIs(t, err, ErrNoData)

	require.NoError(t, util.WriteFile(f.fs, "data.json", doc("monday"), 0o644))
	got, err := f.u.Current()
	require.NoError(t, err)
	assert.Equal(t, doc("monday"), got)
}
