package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/webpack4r/webpack4r/internal/config"
	"github.com/webpack4r/webpack4r/internal/utils"
)

// OnChange is invoked, debounced, after watched files change
type OnChange func(ctx context.Context)

// Options contains watcher settings
type Options struct {
	// Debounce collapses bursts of file events into one callback
	Debounce time.Duration
	Logger   *utils.Logger
}

// Watcher monitors the watched paths of a configuration tree's leaves
// and triggers a debounced callback on changes.
type Watcher struct {
	root     *config.Configuration
	onChange OnChange
	watcher  *fsnotify.Watcher
	log      *utils.Logger

	mu           sync.Mutex
	stopOnce     sync.Once
	stopChan     chan struct{}
	changeChan   chan struct{}
	debounceTime time.Duration
}

// New creates a watcher over the tree rooted at root
func New(root *config.Configuration, onChange OnChange, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	log := opts.Logger
	if log == nil {
		log = utils.NewNopLogger()
	}

	return &Watcher{
		root:         root,
		onChange:     onChange,
		watcher:      fsw,
		log:          log.WithComponent("watcher"),
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
		debounceTime: debounce,
	}, nil
}

// Start registers the leaves' watched paths and begins monitoring
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make(map[string]bool)
	for _, leaf := range w.root.Leaves().All() {
		for _, p := range utils.ExpandGlobs(leaf.ResolvedWatchedPaths()) {
			dir := p
			if !utils.IsDir(p) {
				// fsnotify is more reliable watching the containing
				// directory than the file itself
				dir = filepath.Dir(p)
			}
			dirs[dir] = true
		}
	}

	added := 0
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn().Str("path", dir).Err(err).Msg("Cannot watch path")
			continue
		}
		added++
	}
	if added == 0 {
		return fmt.Errorf("no watchable paths resolved")
	}

	w.log.Info().Int("paths", added).Msg("Watching for changes")

	go w.watchLoop(ctx)
	go w.rebuildLoop(ctx)
	return nil
}

// Stop stops monitoring and releases the underlying watcher.
// Calling Stop more than once is safe.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Change detected")
				w.triggerChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) rebuildLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.changeChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, func() {
				w.onChange(ctx)
			})
		}
	}
}

func (w *Watcher) triggerChange() {
	select {
	case w.changeChan <- struct{}{}:
	default:
		// Change already pending
	}
}
