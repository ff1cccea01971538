package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces editor save bursts into one regeneration.
const debounce = 250 * time.Millisecond

// watch runs a generation pass, then reruns it whenever a Go source file
// under the source directory changes. Generated files are ignored so a
// write pass does not retrigger itself.
func watch(ctx context.Context, cfg *config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addRecursive(w, cfg.Dir); err != nil {
		return err
	}

	// Failures in watch mode are reported and waited out, not fatal.
	if err := run(ctx, cfg); err != nil {
		slog.Warn("Initial generation failed, watching for changes", "error", err)
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := addRecursive(w, ev.Name); err != nil {
						slog.Warn("Failed to watch new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			if !relevant(ev.Name) {
				continue
			}
			slog.Debug("Source changed", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			if err := run(ctx, cfg); err != nil {
				slog.Warn("Generation failed, watching for changes", "error", err)
			}
		}
	}
}

// relevant reports whether a changed path should trigger regeneration.
func relevant(path string) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".go") {
		return false
	}
	if strings.HasSuffix(base, "_matter.go") || strings.HasSuffix(base, "_test.go") {
		return false
	}
	return !strings.HasPrefix(base, ".")
}

// addRecursive watches a directory tree, skipping hidden and testdata
// directories.
func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
