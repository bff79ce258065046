// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	xglog "github.com/ManuGH/projfile/internal/log"
	"github.com/ManuGH/projfile/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Holder gives an application synchronized access to one project file and
// can reload it when the file changes on disk. A reload decodes into a fresh
// File and swaps it in only on success, so readers never observe the reset
// state that File.Read passes through.
type Holder struct {
	mu      sync.RWMutex
	current *File
	stopped bool
	opts    []ReadOption

	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   zerolog.Logger
	wg       sync.WaitGroup

	listenersMu sync.RWMutex
	listeners   []chan<- *File
}

// NewHolder wraps initial, which must not be used by the caller afterwards.
// Reloads read the filename of the held project at the time of the reload.
func NewHolder(initial *File, opts ...ReadOption) *Holder {
	if initial == nil {
		initial = New()
	}
	return &Holder{
		current:  initial,
		opts:     opts,
		debounce: DefaultDebounce,
		logger:   xglog.WithComponent("project"),
	}
}

// SetDebounce overrides DefaultDebounce. It must be called before StartWatcher.
func (h *Holder) SetDebounce(d time.Duration) {
	if d > 0 {
		h.debounce = d
	}
}

// Get returns a copy of the current project.
func (h *Holder) Get() *File {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Clone()
}

// Update mutates the held project under the write lock.
func (h *Holder) Update(fn func(*File)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.current)
}

// Save writes the held project to its filename.
func (h *Holder) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current.Write("")
}

// Filename returns the filename of the held project.
func (h *Holder) Filename() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Filename()
}

// Reload re-reads the project file. If it cannot be read the current project
// is kept and the error is returned. After Stop, Reload returns ErrHolderStopped
// and never replaces the held project.
func (h *Holder) Reload(_ context.Context) error {
	path := h.Filename()
	h.logger.Debug().Str(xglog.FieldEvent, "project.reload_start").Str(xglog.FieldPath, path).Msg("reloading project file")

	next := NewWithFilename(path)
	if err := next.Read("", h.opts...); err != nil {
		metrics.RecordReload(metrics.ReloadError)
		h.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "project.reload_failed").
			Str(xglog.FieldPath, path).
			Msg("failed to reload project file")
		return fmt.Errorf("reload project: %w", err)
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		h.logger.Debug().Str(xglog.FieldEvent, "project.reload_discarded").Str(xglog.FieldPath, path).Msg("holder stopped, reload discarded")
		return ErrHolderStopped
	}
	old := h.current
	h.current = next
	h.mu.Unlock()

	metrics.RecordReload(metrics.ReloadOK)
	h.logChanges(old, next)
	h.notifyListeners(next)

	h.logger.Info().
		Str(xglog.FieldEvent, "project.reload_success").
		Str(xglog.FieldPath, path).
		Msg("project file reloaded")
	return nil
}

// StartWatcher reloads the project whenever its file is written or replaced.
// The directory is watched rather than the file so that atomic replacements
// (rename over the old file) keep being observed. The watched file is the
// filename held when StartWatcher is called; renaming the held project later
// does not move the watch. The watcher stops when ctx is done or Stop is
// called.
func (h *Holder) StartWatcher(ctx context.Context) error {
	path := h.Filename()
	if path == "" {
		return errors.New("watch project: no filename")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch project directory: %w", err)
	}
	h.watcher = watcher

	h.logger.Info().
		Str(xglog.FieldEvent, "project.watcher_started").
		Str(xglog.FieldPath, path).
		Msg("watching project file for changes")

	h.wg.Add(1)
	go h.watchLoop(ctx, watcher, filepath.Clean(path))
	return nil
}

func (h *Holder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string) {
	defer h.wg.Done()

	// Every scheduled reload holds a wg slot until it runs or is cancelled,
	// so Stop also waits for a reload that is already in flight.
	var debounceTimer *time.Timer
	cancelPending := func() {
		if debounceTimer != nil && debounceTimer.Stop() {
			h.wg.Done()
		}
	}
	defer cancelPending()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "project.watcher_stopped").Msg("project watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h.logger.Debug().
				Str(xglog.FieldEvent, "project.file_changed").
				Str(xglog.FieldOp, event.Op.String()).
				Msg("project file changed")

			cancelPending()
			h.wg.Add(1)
			debounceTimer = time.AfterFunc(h.debounce, func() {
				defer h.wg.Done()
				if ctx.Err() != nil {
					return
				}
				_ = h.Reload(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "project.watcher_error").
				Msg("project watcher error")
		}
	}
}

// Stop closes the watcher, if any, and waits for the watch loop and any reload
// it started to finish. The held project does not change after Stop returns.
func (h *Holder) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()

	if h.watcher != nil {
		_ = h.watcher.Close()
	}
	h.wg.Wait()
}

// RegisterListener registers a channel that receives a copy of the project
// after every successful reload. Sends never block; a full channel misses
// the notification.
func (h *Holder) RegisterListener(ch chan<- *File) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notifyListeners(next *File) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- next.Clone():
		default:
			h.logger.Warn().
				Str(xglog.FieldEvent, "project.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

// logChanges logs which top-level settings differ between two projects.
func (h *Holder) logChanges(old, next *File) {
	a, b := old.Snapshot(), next.Snapshot()
	changed := func(name string, differs bool) {
		if differs {
			h.logger.Info().Str("setting", name).Msg("project setting changed")
		}
	}
	changed("root", a.RootPath != b.RootPath)
	changed("builddir", a.BuildDir != b.BuildDir)
	changed("platform", a.Platform != b.Platform)
	changed("importproject", a.ImportProject != b.ImportProject)
	changed("analyze-all-vs-configs", a.AnalyzeAllVsConfigs != b.AnalyzeAllVsConfigs)
	changed("includedir", !slices.Equal(a.IncludeDirs, b.IncludeDirs))
	changed("defines", !slices.Equal(a.Defines, b.Defines))
	changed("undefines", !slices.Equal(a.Undefines, b.Undefines))
	changed("paths", !slices.Equal(a.CheckPaths, b.CheckPaths))
	changed("exclude", !slices.Equal(a.ExcludedPaths, b.ExcludedPaths))
	changed("libraries", !slices.Equal(a.Libraries, b.Libraries))
	changed("suppressions", !slices.Equal(a.Suppressions, b.Suppressions))
	changed("addons", !slices.Equal(a.Addons, b.Addons))
	changed("tools", !slices.Equal(a.Tools, b.Tools))
	changed("tags", !slices.Equal(a.Tags, b.Tags))
}
