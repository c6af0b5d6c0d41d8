package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dbvoir/internal/config"
	"dbvoir/internal/ledger"
	"dbvoir/internal/notifications"
	"dbvoir/internal/services"
	"dbvoir/internal/services/beets"
)

// Rescanner triggers a media server library refresh after imports.
type Rescanner interface {
	Configured() bool
	Refresh(ctx context.Context) error
}

// Manager drives files from the download directory through beets into the
// library, recording every step in the ledger.
//
// Candidate paths arrive on a channel fed by the watcher. A path is held
// until it settles (no new events and an old enough mtime), then enqueued.
// A poll loop works pending ledger items one at a time, oldest first.
type Manager struct {
	cfg      *config.Config
	store    *ledger.Store
	importer beets.Importer
	rescan   Rescanner
	notifier notifications.Service
	logger   *slog.Logger

	pending map[string]time.Time
}

// NewManager wires the pipeline components together.
func NewManager(cfg *config.Config, store *ledger.Store, importer beets.Importer, rescan Rescanner, notifier notifications.Service, logger *slog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration required")
	}
	if store == nil {
		return nil, fmt.Errorf("ledger store required")
	}
	if importer == nil {
		return nil, fmt.Errorf("importer required")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:      cfg,
		store:    store,
		importer: importer,
		rescan:   rescan,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "pipeline")),
		pending:  make(map[string]time.Time),
	}, nil
}

// Run consumes candidate paths until the context is cancelled or the events
// channel closes. Items left in importing state by a previous crash are reset
// to pending before any new work starts.
func (m *Manager) Run(ctx context.Context, events <-chan string) error {
	reset, err := m.store.ResetStuckImporting(ctx)
	if err != nil {
		return fmt.Errorf("reset stuck items: %w", err)
	}
	if reset > 0 {
		m.logger.Info("requeued interrupted imports", slog.Int64("count", reset))
	}

	interval := m.cfg.PollInterval()
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-events:
			if !ok {
				return nil
			}
			m.observe(path)
		case <-ticker.C:
			m.flushSettled(ctx)
			m.drainPending(ctx)
		}
	}
}

// observe records the latest event time for a candidate path. Repeated write
// events keep pushing the settle deadline out, which is what holds back files
// still being downloaded.
func (m *Manager) observe(path string) {
	if _, seen := m.pending[path]; !seen {
		m.logger.Info("new download detected", slog.String("path", path))
	}
	m.pending[path] = time.Now()
}

// flushSettled promotes settled candidates into the ledger.
func (m *Manager) flushSettled(ctx context.Context) {
	delay := m.cfg.WatchDelay()
	now := time.Now()

	for path, lastEvent := range m.pending {
		if now.Sub(lastEvent) < delay {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			// Gone before it settled; partial downloads get renamed or removed.
			m.logger.Debug("candidate disappeared", slog.String("path", path))
			delete(m.pending, path)
			continue
		}
		if info.Size() == 0 || now.Sub(info.ModTime()) < delay {
			continue
		}

		delete(m.pending, path)
		item, created, err := m.store.Enqueue(ctx, path)
		if err != nil {
			m.logger.Error("enqueue failed", slog.String("path", path), slog.Any("error", err))
			continue
		}
		if created {
			m.logger.Info("queued for import",
				slog.Int64("item_id", item.ID),
				slog.String("title", item.Title))
		}
	}
}

// drainPending imports pending ledger items until none remain.
func (m *Manager) drainPending(ctx context.Context) {
	for ctx.Err() == nil {
		item, err := m.store.NextPending(ctx)
		if err != nil {
			m.logger.Error("fetch pending item", slog.Any("error", err))
			return
		}
		if item == nil {
			return
		}
		m.processItem(ctx, item)
	}
}

// processItem runs one ledger item through beets and, on success, triggers a
// library rescan. Failures are recorded on the item rather than returned so
// one bad download cannot stall the loop.
func (m *Manager) processItem(ctx context.Context, item *ledger.Item) {
	runID := uuid.NewString()
	runCtx := services.WithRunID(services.WithItemID(ctx, item.ID), runID)
	logger := m.logger.With(
		slog.Int64("item_id", item.ID),
		slog.String("run_id", runID),
		slog.String("title", item.Title))

	item.Status = ledger.StatusImporting
	item.RunID = runID
	item.ErrorMessage = ""
	if err := m.store.Update(runCtx, item); err != nil {
		logger.Error("mark importing", slog.Any("error", err))
		return
	}

	dir := filepath.Dir(item.SourcePath)
	logger.Info("importing", slog.String("dir", dir))

	if err := m.importer.Import(runCtx, dir); err != nil {
		logger.Error("import failed", slog.Any("error", err))
		item.Status = ledger.StatusFailed
		item.ErrorMessage = err.Error()
		if updateErr := m.store.Update(runCtx, item); updateErr != nil {
			logger.Error("record failure", slog.Any("error", updateErr))
		}
		if notifyErr := m.notifier.NotifyImportFailed(runCtx, item.Title, err); notifyErr != nil {
			logger.Warn("failure notification", slog.Any("error", notifyErr))
		}
		return
	}

	now := time.Now().UTC()
	item.Status = ledger.StatusImported
	item.ImportedAt = &now
	if err := m.store.Update(runCtx, item); err != nil {
		logger.Error("record success", slog.Any("error", err))
		return
	}
	logger.Info("imported")

	if err := m.notifier.NotifyImportCompleted(runCtx, item.Title); err != nil {
		logger.Warn("import notification", slog.Any("error", err))
	}

	m.triggerRescan(runCtx, logger)
}

// triggerRescan asks the media server to pick up the new material. Rescan
// problems are logged and notified but never fail the import itself.
func (m *Manager) triggerRescan(ctx context.Context, logger *slog.Logger) {
	if m.rescan == nil || !m.rescan.Configured() {
		logger.Debug("rescan skipped, jellyfin not configured")
		return
	}
	if err := m.rescan.Refresh(ctx); err != nil {
		logger.Warn("rescan failed", slog.Any("error", err))
		if notifyErr := m.notifier.NotifyError(ctx, err, "jellyfin rescan"); notifyErr != nil {
			logger.Warn("rescan notification", slog.Any("error", notifyErr))
		}
		return
	}
	logger.Info("jellyfin rescan triggered")
	if err := m.notifier.NotifyRescanTriggered(ctx); err != nil {
		logger.Warn("rescan notification", slog.Any("error", err))
	}
}
