package notation

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/opd-ai/notation-canvas/internal/config"
	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// fileWatcher reports changes to a set of files after a quiet period.
type fileWatcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]bool
	debounce  time.Duration
	onChange  func(changed []string) error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// newFileWatcher watches the directories holding paths, so editors that
// save by renaming are still seen.
func newFileWatcher(paths []string, debounce time.Duration, onChange func([]string) error, onError func(error)) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = config.DefaultDebounce
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
		dirs[dir] = true
	}

	return &fileWatcher{
		watcher:   watcher,
		files:     files,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine.
func (fw *fileWatcher) Start() {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = true
	fw.mu.Unlock()

	go fw.watchLoop()
}

// Stop stops the watcher and waits for its goroutine to exit.
func (fw *fileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return
	}
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.stoppedCh
}

func (fw *fileWatcher) watchLoop() {
	defer close(fw.stoppedCh)
	defer fw.watcher.Close()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	pending := make(map[string]bool)

	for {
		select {
		case <-fw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fw.mu.Lock()
			fw.running = false
			fw.mu.Unlock()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !fw.files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending[abs] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(fw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			if fw.onChange != nil {
				if err := fw.onChange(changed); err != nil && fw.onError != nil {
					fw.onError(err)
				}
			}
			debounceTimer = nil
			debounceCh = nil

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.onError != nil {
				fw.onError(err)
			}
		}
	}
}

// Watch renders, then renders again whenever the script or the
// configuration file changes, until ctx is cancelled. Render failures are
// logged and do not stop watching. With the screen backend the window
// stays open and shows the latest successful frame.
func (r *Renderer) Watch(ctx context.Context) error {
	cfg := r.Config()
	paths := []string{cfg.Script.Path}
	if r.opts.ConfigPath != "" {
		paths = append(paths, r.opts.ConfigPath)
	}

	fw, err := newFileWatcher(paths, cfg.Watch.Debounce,
		func(changed []string) error { return r.reload(ctx, changed) },
		func(err error) { r.logger.Error("watch failed", "error", err) })
	if err != nil {
		return err
	}
	fw.Start()
	defer fw.Stop()

	if cfg.Output.Backend == config.BackendScreen {
		if err := r.recordFrame(ctx); err != nil {
			r.logger.Warn("initial render failed, waiting for changes", "error", err)
		}
		return r.runScreen(ctx, cfg)
	}

	if err := r.Render(ctx); err != nil {
		r.logger.Warn("initial render failed, waiting for changes", "error", err)
	}
	<-ctx.Done()
	return nil
}

// reload re-reads the configuration when it changed, then renders again.
func (r *Renderer) reload(ctx context.Context, changed []string) error {
	r.metrics.IncrementReloads()
	if r.opts.ConfigPath != "" {
		cfgAbs, _ := filepath.Abs(r.opts.ConfigPath)
		for _, p := range changed {
			if p != cfgAbs {
				continue
			}
			cfg, err := config.ParseFile(r.opts.ConfigPath)
			if err != nil {
				return err
			}
			old := r.Config()
			cfg.Output = old.Output
			cfg.Watch = old.Watch
			if err := r.apply(cfg, r.cacheFor(old, cfg)); err != nil {
				return err
			}
			r.logger.Info("configuration reloaded", "path", r.opts.ConfigPath)
		}
	}
	r.logger.Info("re-rendering", "changed", changed)
	if r.Config().Output.Backend == config.BackendScreen {
		return r.recordFrame(ctx)
	}
	return r.Render(ctx)
}

// cacheFor keeps the font cache unless the glyph font file changed, since
// glyph handles are cached by family and size only.
func (r *Renderer) cacheFor(old, next config.Config) *fonts.Cache {
	if old.Fonts.Glyph != next.Fonts.Glyph {
		return fonts.NewCache()
	}
	return r.Resolver().Cache()
}
