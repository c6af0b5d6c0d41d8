package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a download directory tree for new music files.
//
// fsnotify watches are not recursive, so the watcher registers the root and
// every subdirectory, and adds watches for directories created later. Every
// created or written music file is reported on Events; callers decide when a
// file has settled.
type Watcher struct {
	root       string
	extensions map[string]struct{}
	logger     *slog.Logger

	fsw    *fsnotify.Watcher
	events chan string
}

// New constructs a watcher for the given root directory.
func New(root string, extensions map[string]struct{}, logger *slog.Logger) (*Watcher, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("watch root required")
	}
	if len(extensions) == 0 {
		return nil, errors.New("at least one extension required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %q is not a directory", root)
	}

	return &Watcher{
		root:       root,
		extensions: extensions,
		logger:     logger.With(slog.String("component", "watcher")),
		events:     make(chan string, 256),
	}, nil
}

// Events returns the channel of candidate music file paths. The channel is
// closed when the watch loop exits.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Start registers watches for the existing directory tree, emits any files
// already present, and launches the watch loop. The loop runs until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addTree(w.root); err != nil {
		_ = fsw.Close()
		return err
	}

	go w.loop(ctx)

	w.logger.Info("watching download directory", slog.String("dir", w.root))
	return nil
}

// addTree registers watches for dir and all subdirectories, emitting any
// music files found so a backlog left from downtime is picked up.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; Nicotine+ may hold locks.
			w.logger.Debug("skipping unreadable path", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if entry.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			return nil
		}
		if w.isMusicFile(path) {
			w.emit(path)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", slog.Any("error", err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// The file may already be gone (partial download renamed away).
		return
	}

	if info.IsDir() {
		if event.Op.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch new directory", slog.String("dir", event.Name), slog.Any("error", err))
			}
		}
		return
	}

	if w.isMusicFile(event.Name) {
		w.emit(event.Name)
	}
}

func (w *Watcher) isMusicFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := w.extensions[ext]
	return ok
}

func (w *Watcher) emit(path string) {
	select {
	case w.events <- path:
	default:
		// Channel full: the pipeline is behind. The poll loop re-walks
		// nothing, but the ledger dedupe makes a dropped duplicate harmless
		// and a genuinely new file will produce further write events.
		w.logger.Debug("event channel full, dropping", slog.String("path", path))
	}
}
