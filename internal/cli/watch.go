package cli

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/turing"
	"github.com/fsnotify/fsnotify"
)

// Debounce is how long RunWatch waits for writes to settle before reloading.
var Debounce = 200 * time.Millisecond

// RunWatch re-runs the description every time its content changes, until
// ctx is cancelled. A run still in progress when the file changes is
// cancelled and restarted.
func RunWatch(ctx context.Context, eng *turing.Engine, opts RunOptions, w io.Writer, logger *slog.Logger) error {
	changes, err := Watch(ctx, opts.Path, Debounce, logger)
	if err != nil {
		return err
	}
	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- Run(runCtx, eng, opts, w)
		}()

		var restart bool
		select {
		case <-ctx.Done():
			cancel()
			<-done
			return nil
		case <-changes:
			cancel()
			<-done
			restart = true
		case err := <-done:
			cancel()
			var exit *ExitError
			if err != nil && !errors.As(err, &exit) {
				logger.Error("Run failed", "err", err)
				printSystemMessage(w, "Error: %v", err)
			}
		}

		if !restart {
			printSystemMessage(w, "Waiting for changes in '%s'...", opts.Path)
			select {
			case <-ctx.Done():
				return nil
			case <-changes:
			}
		}
		printSystemMessage(w, "Change detected in '%s'.", opts.Path)
	}
}

// Watch signals each time the content of path changes. It watches the parent
// directory so editors that save through rename are still seen, and waits for
// debounce of quiet before comparing content hashes.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	last := fingerprint(path)
	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		timer := time.NewTimer(debounce)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error", "path", path, "err", err)
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				timer.Reset(debounce)
			case <-timer.C:
				current := fingerprint(path)
				if current == last {
					continue
				}
				last = current
				logger.Info("Change detected, triggering reload", "path", path)
				select {
				case ch <- path:
				default:
					// A reload is already pending.
				}
			}
		}
	}()
	return ch, nil
}

func fingerprint(path string) [md5.Size]byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return [md5.Size]byte{}
	}
	return md5.Sum(data)
}
