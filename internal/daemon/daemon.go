package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"dbvoir/internal/config"
	"dbvoir/internal/ledger"
	"dbvoir/internal/pipeline"
	"dbvoir/internal/watcher"
)

// Daemon coordinates the watch loop and import pipeline and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *ledger.Store
	watch   *watcher.Watcher
	manager *pipeline.Manager
	logPath string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	LedgerDBPath string
	LockFilePath string
	LogFilePath  string
	Health       ledger.HealthSummary
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *ledger.Store, logger *slog.Logger, watch *watcher.Watcher, manager *pipeline.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || watch == nil || manager == nil {
		return nil, errors.New("daemon requires config, store, logger, watcher, and pipeline manager")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "dbvoir.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "daemon")),
		store:    store,
		watch:    watch,
		manager:  manager,
		logPath:  filepath.Join(cfg.Paths.LogDir, "dbvoir.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the watcher and pipeline.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another dbvoir instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.watch.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start watcher: %w", err)
	}

	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		if err := d.manager.Run(d.ctx, d.watch.Events()); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("pipeline stopped", slog.Any("error", err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("dbvoir daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.Any("error", err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("dbvoir daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// LedgerHealth returns aggregate ledger diagnostics.
func (d *Daemon) LedgerHealth(ctx context.Context) (ledger.HealthSummary, error) {
	if d.store == nil {
		return ledger.HealthSummary{}, errors.New("ledger store unavailable")
	}
	return d.store.Health(ctx)
}

// Status reports current daemon state and ledger health.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	status := Status{
		Running:      d.running.Load(),
		LockFilePath: d.lockPath,
		LogFilePath:  d.logPath,
	}
	if d.store != nil {
		status.LedgerDBPath = d.store.Path()
		health, err := d.store.Health(ctx)
		if err != nil {
			return status, err
		}
		status.Health = health
	}
	return status, nil
}
