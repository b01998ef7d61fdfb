package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits after the last change to
// the policy file before reloading it.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps a policy configuration in sync with its file. A reload
// that fails validation is logged and the previous configuration is kept.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   zerolog.Logger
	onChange func(policy.Config)

	mu  sync.RWMutex
	cfg policy.Config
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the reload delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(logger zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// OnChange registers a function called with each successfully reloaded
// configuration.
func OnChange(fn func(policy.Config)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// NewWatcher loads the policy file at path and returns a Watcher for it.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	cfg, err := LoadPolicyFile(abs)
	if err != nil {
		return nil, err
	}
	w.cfg = cfg
	return w, nil
}

// Config returns the most recently loaded configuration.
func (w *Watcher) Config() policy.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Run watches the policy file until ctx is cancelled. The containing
// directory is watched so that editors replacing the file by rename are
// noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}
	w.logger.Info().Str("path", w.path).Msg("watching policy file")

	var timer *time.Timer
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
				return fmt.Errorf("file watcher closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("policy file event")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.Reload)
		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}

// Reload reads the policy file again. It is called by Run after a change
// and may also be called directly.
func (w *Watcher) Reload() {
	cfg, err := LoadPolicyFile(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("policy reload failed")
		return
	}
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	w.logger.Info().Str("path", w.path).Msg("policy reloaded")
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
