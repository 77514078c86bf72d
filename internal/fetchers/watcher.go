package fetchers

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"energydash/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a reload function when a watched file changes. Bursts of
// events inside the debounce window produce one reload.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	reload   func(ctx context.Context) error
	log      *logger.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher watches paths. The parent directories are watched rather than
// the files themselves so that editors replacing a file by rename are seen.
func NewWatcher(paths []string, debounce time.Duration, reload func(ctx context.Context) error, log *logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	w := &Watcher{
		files:    make(map[string]bool),
		debounce: debounce,
		reload:   reload,
		log:      log.WithComponent("watcher"),
		watcher:  fw,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed resolving %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run dispatches reloads until ctx is done. Reload errors are logged and
// the previous data stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		mu       sync.Mutex
		timer    *time.Timer
		wg       sync.WaitGroup
		reloadMu sync.Mutex
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	fire := func() {
		defer wg.Done()
		reloadMu.Lock()
		defer reloadMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := w.reload(ctx); err != nil {
			w.log.Error("reload failed, keeping previous data", err)
			return
		}
		w.log.Info("reloaded after file change", logger.Fields{"duration_ms": time.Since(start).Milliseconds()})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("file event", logger.Fields{"name": ev.Name, "op": ev.Op.String()})
			mu.Lock()
			if timer != nil && timer.Stop() {
				timer.Reset(w.debounce)
			} else {
				wg.Add(1)
				timer = time.AfterFunc(w.debounce, fire)
			}
			mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", logger.Fields{"error": err.Error()})
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
