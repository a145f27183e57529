package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chronos/internal/core/model"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce absorbs the burst of events an editor save produces.
const DefaultReloadDebounce = 250 * time.Millisecond

// Watch reloads the settings file whenever it changes on disk and calls
// onChange with each new value. It blocks until ctx is done.
func (store *SettingsStore) Watch(ctx context.Context, debounce time.Duration, onChange func(model.Settings)) error {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	dir := filepath.Dir(store.path)
	file := filepath.Base(store.path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}
	store.logger.Debug().Str("dir", dir).Str("file", file).Msg("settings watcher started")

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			if ctx.Err() != nil {
				return
			}
			store.reload(onChange)
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Base(event.Name), file) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			store.logger.Warn().Err(err).Msg("settings watcher error")
		}
	}
}

func (store *SettingsStore) reload(onChange func(model.Settings)) {
	settings, err := store.read()
	if err != nil {
		store.logger.Warn().Err(err).Str("path", store.path).Msg("settings reload failed")
		return
	}

	store.mu.Lock()
	unchanged := settings == store.current
	store.current = settings
	store.mu.Unlock()
	if unchanged {
		store.logger.Debug().Msg("settings unchanged, skipping reload")
		return
	}

	store.logger.Info().Str("path", store.path).Msg("settings reloaded")
	if onChange != nil {
		onChange(settings)
	}
}
