// Package watcher reloads the findedupe config when its file changes.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/findedupe/internal/config"
	"github.com/Nomadcxx/findedupe/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const (
	component       = "watcher"
	defaultDebounce = 500 * time.Millisecond
)

// ReloadFunc receives each successfully loaded and validated config.
type ReloadFunc func(cfg *config.Config)

// ConfigWatcher watches the directory holding the config file, so editors
// that replace the file by rename are still seen.
type ConfigWatcher struct {
	path      string
	debounce  time.Duration
	onReload  ReloadFunc
	logger    *logging.Logger
	fsWatcher *fsnotify.Watcher
}

type Option func(*ConfigWatcher)

func WithDebounce(d time.Duration) Option {
	return func(w *ConfigWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func NewConfigWatcher(path string, onReload ReloadFunc, logger *logging.Logger, opts ...Option) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("unable to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &ConfigWatcher{
		path:      abs,
		debounce:  defaultDebounce,
		onReload:  onReload,
		logger:    logger,
		fsWatcher: fsWatcher,
	}
	for _, opt := range opts {
		opt(w)
	}

	logger.Info(component, "Watching config file", logging.F("path", abs))
	return w, nil
}

// Run processes file events until ctx is done. Bursts of events within the
// debounce window produce a single reload.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug(component, "Config watcher stopped")
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug(component, "Config file changed", logging.F("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(component, "Watcher error", err)
		}
	}
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// reload keeps the previous config when the new file fails to load or validate.
func (w *ConfigWatcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		w.logger.Error(component, "Config reload failed", err, logging.F("path", w.path))
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Error(component, "Reloaded config is invalid, keeping previous", err)
		return
	}

	w.logger.Info(component, "Config reloaded",
		logging.F("glob_patterns", len(cfg.Exclusions.GlobPatterns)),
		logging.F("path_prefixes", len(cfg.Exclusions.PathPrefixes)))
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
