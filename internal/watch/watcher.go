// Package watch reports changes to portfolio data files, whether they come
// from the dashboard or from someone editing the JSON by hand.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/storage"
)

// Debounce is how long a file must be quiet before it is re-read. An atomic
// replace produces several events in quick succession.
const Debounce = 150 * time.Millisecond

// Locator maps data file names to locales. *portfolio.Catalog implements it.
type Locator interface {
	LocaleForFile(name string) (string, bool)
}

// ChangeCallback is called with the locale whose document changed and the
// checksum of its new content. An empty sum means the file was removed.
type ChangeCallback func(locale, sum string)

// Watch watches the data directory of files until ctx is cancelled and calls
// cb once per distinct content change of a file known to loc. Other files,
// including temp and lock files, are ignored.
func Watch(ctx context.Context, files storage.Provider, loc Locator, logger *slog.Logger, cb ChangeCallback) error {
	root := files.Root()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	// Prime with what is on disk so the first event is a real change.
	sums := make(map[string]string)
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		if _, ok := loc.LocaleForFile(e.Name()); !ok || e.IsDir() {
			continue
		}
		if data, readErr := files.Read(e.Name()); readErr == nil {
			sums[e.Name()] = checksum.Sum(data)
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(name string) {
		pending[name] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	flush := func() {
		for name := range pending {
			delete(pending, name)
			locale, _ := loc.LocaleForFile(name)

			sum := ""
			data, readErr := files.Read(name)
			switch {
			case readErr == nil:
				sum = checksum.Sum(data)
			case errors.Is(readErr, fs.ErrNotExist):
			default:
				logger.Warn("watcher: read failed", slog.String("file", name), slog.String("error", readErr.Error()))
				continue
			}

			if prev, seen := sums[name]; (seen && prev == sum) || (!seen && sum == "") {
				continue
			}
			if sum == "" {
				delete(sums, name)
			} else {
				sums[name] = sum
			}
			logger.Debug("watcher: changed", slog.String("file", name), slog.String("locale", locale))
			if cb != nil {
				cb(locale, sum)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			flush()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if _, known := loc.LocaleForFile(name); !known {
				continue
			}
			schedule(name)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
