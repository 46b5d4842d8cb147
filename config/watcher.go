package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Logger is the structural logging interface the watcher reports through.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Watcher reloads the config file on change and hands each successfully
// parsed result to onChange. The callback runs on the watcher goroutine;
// hosts that need the new config on the owning goroutine push it through
// the inbound queue from there.
type Watcher struct {
	path     string
	onChange func(*EngineConfig)
	logger   Logger
	fw       *fsnotify.Watcher
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}

// NewWatcher creates a watcher for path. Start must be called to begin
// watching.
func NewWatcher(path string, onChange func(*EngineConfig), logger Logger) *Watcher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Watcher{path: path, onChange: onChange, logger: logger}
}

// Start begins watching until ctx is done or Close is called. The parent
// directory is watched rather than the file itself so editors that
// rename-and-replace keep triggering reloads.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}
	w.fw = fw
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Warn("config reload failed", "path", w.path, "error", err)
				continue
			}
			w.logger.Debug("config reloaded", "path", w.path)
			w.onChange(cfg)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w.fw == nil {
		return nil
	}
	return w.fw.Close()
}
