package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dbvoir/internal/config"
	"dbvoir/internal/ledger"
	"dbvoir/internal/testsupport"
)

type fakeImporter struct {
	dirs []string
	err  error
}

func (f *fakeImporter) Import(_ context.Context, dir string) error {
	f.dirs = append(f.dirs, dir)
	return f.err
}

type fakeRescanner struct {
	configured bool
	calls      int
	err        error
}

func (f *fakeRescanner) Configured() bool { return f.configured }

func (f *fakeRescanner) Refresh(context.Context) error {
	f.calls++
	return f.err
}

type fakeNotifier struct {
	completed []string
	failed    []string
	rescans   int
	errors    int
}

func (f *fakeNotifier) NotifyImportCompleted(_ context.Context, title string) error {
	f.completed = append(f.completed, title)
	return nil
}

func (f *fakeNotifier) NotifyImportFailed(_ context.Context, title string, _ error) error {
	f.failed = append(f.failed, title)
	return nil
}

func (f *fakeNotifier) NotifyRescanTriggered(context.Context) error {
	f.rescans++
	return nil
}

func (f *fakeNotifier) NotifyError(context.Context, error, string) error {
	f.errors++
	return nil
}

func (f *fakeNotifier) TestNotification(context.Context) error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Paths.DownloadDir = t.TempDir()
	cfg.Watch.Delay = 1
	cfg.Watch.PollInterval = 1
	return cfg
}

func newTestManager(t *testing.T, importer *fakeImporter, rescan *fakeRescanner, notifier *fakeNotifier) (*Manager, *ledger.Store) {
	t.Helper()
	store, err := ledger.OpenPath(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	mgr, err := NewManager(testConfig(t), store, importer, rescan, notifier, slog.Default())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr, store
}

func TestFlushSettledEnqueues(t *testing.T) {
	mgr, store := newTestManager(t, &fakeImporter{}, nil, &fakeNotifier{})
	ctx := context.Background()

	track := filepath.Join(t.TempDir(), "song.flac")
	testsupport.WriteTrack(t, track, 4096)
	old := time.Now().Add(-time.Minute)
	if err := os.Chtimes(track, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	mgr.pending[track] = old
	mgr.flushSettled(ctx)

	if len(mgr.pending) != 0 {
		t.Fatalf("pending = %d entries, want 0", len(mgr.pending))
	}
	item, err := store.GetBySourcePath(ctx, track)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item == nil || item.Status != ledger.StatusPending {
		t.Fatalf("item = %+v, want pending", item)
	}
}

func TestFlushSettledHoldsRecentFiles(t *testing.T) {
	mgr, store := newTestManager(t, &fakeImporter{}, nil, &fakeNotifier{})
	ctx := context.Background()

	track := filepath.Join(t.TempDir(), "fresh.mp3")
	testsupport.WriteTrack(t, track, 4096)

	mgr.pending[track] = time.Now()
	mgr.flushSettled(ctx)

	if _, held := mgr.pending[track]; !held {
		t.Fatal("recent file should still be pending")
	}
	item, err := store.GetBySourcePath(ctx, track)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item != nil {
		t.Fatalf("item = %+v, want none yet", item)
	}
}

func TestFlushSettledHoldsEmptyFiles(t *testing.T) {
	mgr, store := newTestManager(t, &fakeImporter{}, nil, &fakeNotifier{})
	ctx := context.Background()

	track := filepath.Join(t.TempDir(), "empty.flac")
	if err := os.WriteFile(track, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	old := time.Now().Add(-time.Minute)
	if err := os.Chtimes(track, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	mgr.pending[track] = old
	mgr.flushSettled(ctx)

	if _, held := mgr.pending[track]; !held {
		t.Fatal("zero-byte file should still be pending")
	}
	item, err := store.GetBySourcePath(ctx, track)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item != nil {
		t.Fatalf("item = %+v, want none for zero-byte file", item)
	}
}

func TestFlushSettledDropsVanishedFiles(t *testing.T) {
	mgr, store := newTestManager(t, &fakeImporter{}, nil, &fakeNotifier{})
	ctx := context.Background()

	gone := filepath.Join(t.TempDir(), "gone.ogg")
	mgr.pending[gone] = time.Now().Add(-time.Minute)
	mgr.flushSettled(ctx)

	if len(mgr.pending) != 0 {
		t.Fatal("vanished file should be dropped")
	}
	item, err := store.GetBySourcePath(ctx, gone)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item != nil {
		t.Fatal("vanished file should not be enqueued")
	}
}

func TestProcessItemSuccessTriggersRescan(t *testing.T) {
	importer := &fakeImporter{}
	rescan := &fakeRescanner{configured: true}
	notifier := &fakeNotifier{}
	mgr, store := newTestManager(t, importer, rescan, notifier)
	ctx := context.Background()

	item, _, err := store.Enqueue(ctx, "/downloads/album/track.flac")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	mgr.processItem(ctx, item)

	loaded, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != ledger.StatusImported {
		t.Fatalf("status = %q, want imported", loaded.Status)
	}
	if loaded.RunID == "" {
		t.Error("run id not recorded")
	}
	if loaded.ImportedAt == nil {
		t.Error("imported_at not recorded")
	}
	if len(importer.dirs) != 1 || importer.dirs[0] != "/downloads/album" {
		t.Errorf("import dirs = %v, want parent directory", importer.dirs)
	}
	if rescan.calls != 1 {
		t.Errorf("rescan calls = %d, want 1", rescan.calls)
	}
	if len(notifier.completed) != 1 || notifier.rescans != 1 {
		t.Errorf("notifications = %+v", notifier)
	}
}

func TestProcessItemFailureRecordsError(t *testing.T) {
	importer := &fakeImporter{err: errors.New("beets import blew up")}
	rescan := &fakeRescanner{configured: true}
	notifier := &fakeNotifier{}
	mgr, store := newTestManager(t, importer, rescan, notifier)
	ctx := context.Background()

	item, _, err := store.Enqueue(ctx, "/downloads/bad/track.mp3")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	mgr.processItem(ctx, item)

	loaded, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != ledger.StatusFailed {
		t.Fatalf("status = %q, want failed", loaded.Status)
	}
	if loaded.ErrorMessage == "" {
		t.Error("error message not recorded")
	}
	if rescan.calls != 0 {
		t.Errorf("rescan calls = %d, want 0 after failure", rescan.calls)
	}
	if len(notifier.failed) != 1 {
		t.Errorf("failed notifications = %v", notifier.failed)
	}
}

func TestProcessItemSkipsRescanWhenUnconfigured(t *testing.T) {
	importer := &fakeImporter{}
	rescan := &fakeRescanner{configured: false}
	notifier := &fakeNotifier{}
	mgr, store := newTestManager(t, importer, rescan, notifier)
	ctx := context.Background()

	item, _, err := store.Enqueue(ctx, "/downloads/x/track.opus")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	mgr.processItem(ctx, item)

	if rescan.calls != 0 {
		t.Errorf("rescan calls = %d, want 0", rescan.calls)
	}
	if notifier.rescans != 0 {
		t.Errorf("rescan notifications = %d, want 0", notifier.rescans)
	}
}

func TestRunResetsStuckImports(t *testing.T) {
	mgr, store := newTestManager(t, &fakeImporter{}, nil, &fakeNotifier{})
	ctx := context.Background()

	item, _, err := store.Enqueue(ctx, "/downloads/stuck/track.wav")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	item.Status = ledger.StatusImporting
	item.RunID = "run-old"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}

	events := make(chan string)
	close(events)
	if err := mgr.Run(ctx, events); err != nil {
		t.Fatalf("run: %v", err)
	}

	loaded, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != ledger.StatusPending {
		t.Fatalf("status = %q, want pending after restart", loaded.Status)
	}
}
