package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc receives the result of reloading a changed file. On error
// the previous configuration should stay in effect.
type ReloadFunc func(cfg Config, err error)

type watchOptions struct {
	debounce time.Duration
	logger   *zap.Logger
}

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

// WithDebounce sets how long the file must stay quiet before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *zap.Logger) WatchOption {
	return func(o *watchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Watch reloads the file at path whenever it changes and passes the result
// to fn. It blocks until ctx is done. The parent directory is watched so
// that editors replacing the file by rename are seen.
func Watch(ctx context.Context, path string, fn ReloadFunc, opts ...WatchOption) error {
	o := watchOptions{debounce: 100 * time.Millisecond, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&relevant == 0 {
				continue
			}
			o.logger.Debug("config file changed",
				zap.String("path", abs),
				zap.Stringer("op", ev.Op))
			timer.Reset(o.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("config watch error", zap.Error(err))

		case <-timer.C:
			cfg, err := Load(abs)
			if err != nil {
				o.logger.Warn("config reload failed", zap.String("path", abs), zap.Error(err))
			} else {
				o.logger.Info("config reloaded", zap.String("path", abs))
			}
			fn(cfg, err)
		}
	}
}
