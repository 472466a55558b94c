// Package watch re-runs the pipeline whenever its inputs change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one full regeneration.
type RunFunc func(ctx context.Context) error

// Watcher watches a fixed set of files and calls a RunFunc after they
// settle. Runs happen on the watcher's own loop, so they never overlap.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger

	hashes map[string]string
	runs   atomic.Int64
}

// New creates a watcher for files. Empty paths are ignored.
func New(files []string, debounce time.Duration, run RunFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		files:    make(map[string]bool),
		debounce: debounce,
		run:      run,
		logger:   logger,
		hashes:   make(map[string]string),
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	return w, nil
}

// Runs returns the number of completed re-runs.
func (w *Watcher) Runs() int64 {
	return w.runs.Load()
}

// Run watches until ctx is done. Run errors are logged, not returned; the
// next change triggers another attempt.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Watch parent directories: editors and exporters often replace files
	// by rename, which drops a watch on the file itself.
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
		w.hashes[f] = hashFile(f)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("Watching directory", "path", dir)
	}

	w.logger.Info("Watching for changes", "files", len(w.files), "debounce", w.debounce)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			w.logger.Debug("Change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-timerC:
			timerC = nil
			if !w.changed() {
				continue
			}
			if err := w.run(ctx); err != nil {
				w.logger.Error("Re-run failed", "error", err)
			}
			w.runs.Add(1)
		}
	}
}

// changed refreshes content hashes and reports whether any watched file
// now holds different, readable content.
func (w *Watcher) changed() bool {
	changed := false
	for f := range w.files {
		h := hashFile(f)
		if h == "" || h == w.hashes[f] {
			continue
		}
		w.hashes[f] = h
		changed = true
		w.logger.Info("Input changed", "file", f)
	}
	return changed
}

func hashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
