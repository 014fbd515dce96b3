package config

import (
	"path/filepath"
	"sync"
	"time"

	"sdwan-mcp/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval collapses the burst of events editors produce on save.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher reloads the config file when it changes and hands the result to OnChange.
// The directory is watched rather than the file so atomic rename-on-save is seen.
type Watcher struct {
	path     string
	onChange func(*Config)
	debounce time.Duration

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	timer     *time.Timer
	running   bool
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onChange func(*Config)) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: DefaultDebounceInterval,
	}
}

// Start begins watching. It is a no-op when already running.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	w.fsWatcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(watcher.Events, watcher.Errors, w.stopCh)

	logging.Info("Config", "Watching %s for changes", w.path)
	return nil
}

// Stop stops watching and cancels any pending reload.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	if err := w.fsWatcher.Close(); err != nil {
		logging.Warn("Config", "Error closing config watcher: %v", err)
	}
}

func (w *Watcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("Config", err, "Config watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	cfg, err := LoadConfig(w.path)
	if err != nil {
		logging.Error("Config", err, "Ignoring invalid configuration change in %s", w.path)
		return
	}
	logging.Info("Config", "Configuration file %s changed", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
