package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/KirkDiggler/cryptea/internal/errors"
)

// DefaultDebounce batches bursts of file events into one rebuild
const DefaultDebounce = 250 * time.Millisecond

// WatcherConfig configures a Watcher
type WatcherConfig struct {
	Input    *GenerateInput
	Debounce time.Duration
	// OnGenerate is called after each rebuild with its result
	OnGenerate func(*GenerateOutput, error)
}

// Validate ensures the watcher has a collection to watch
func (c *WatcherConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Input == nil {
		vb.RequiredField("Input")
	} else if err := c.Input.Validate(); err != nil {
		return err
	}
	if c.Debounce < 0 {
		vb.Field("Debounce", "must not be negative")
	}
	return vb.Build()
}

// Watcher regenerates a collection's catalog whenever its category
// directories change.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	input    *GenerateInput
	debounce time.Duration
	onGen    func(*GenerateOutput, error)
	ignored  map[string]bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the configured collection
func NewWatcher(cfg *WatcherConfig) (*Watcher, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create file watcher")
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	jsonPath, tsPath := OutputPaths(cfg.Input.CollectionPath(), cfg.Input.CollectionName)

	return &Watcher{
		watcher:  fw,
		input:    cfg.Input,
		debounce: debounce,
		onGen:    cfg.OnGenerate,
		ignored: map[string]bool{
			filepath.Clean(jsonPath): true,
			filepath.Clean(tsPath):   true,
		},
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Start watches the collection directory and every category directory in it.
// It returns once the watches are registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	root := w.input.CollectionPath()
	if err := w.watcher.Add(root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return errors.ScanFailure(root, err)
	}
	for _, category := range ScanCategories(ctx, root) {
		w.addDir(ctx, filepath.Join(root, string(category)))
	}

	slog.InfoContext(ctx, "Watching collection", "path", root)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		slog.Error("Failed to close file watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handleEvent(ctx, event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.WarnContext(ctx, "File watcher error", "error", err)

		case <-timer.C:
			out, err := Generate(ctx, w.input)
			if err != nil {
				slog.ErrorContext(ctx, "Catalog rebuild failed", "error", err)
			}
			if w.onGen != nil {
				w.onGen(out, err)
			}
		}
	}
}

// handleEvent reports whether the event should trigger a rebuild.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	if w.ignored[name] || hidden(filepath.Base(name)) {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	// New category directories need their own watch
	if event.Has(fsnotify.Create) && filepath.Dir(name) == filepath.Clean(w.input.CollectionPath()) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			w.addDir(ctx, name)
		}
	}
	return true
}

func (w *Watcher) addDir(ctx context.Context, path string) {
	if err := w.watcher.Add(path); err != nil {
		slog.WarnContext(ctx, "Failed to watch directory", "path", path, "error", err)
	}
}
