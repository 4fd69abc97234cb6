package content

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/homekey-labs/homekey/internal/logger"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a content file when it changes on disk. It watches the
// parent directory so editors that save by rename are picked up.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	updates chan *Content
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &Watcher{
		watcher: w,
		path:    abs,
		updates: make(chan *Content, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go cw.eventLoop()
	logger.Info("Watching content file %s", abs)
	return cw, nil
}

// Updates delivers freshly loaded content. Only the newest pending value is
// kept. Files that fail to load are logged and skipped.
func (cw *Watcher) Updates() <-chan *Content {
	return cw.updates
}

// Stop shuts down the watcher and event loop.
func (cw *Watcher) Stop() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		<-cw.stopped
		err = cw.watcher.Close()
	})
	return err
}

func (cw *Watcher) eventLoop() {
	defer close(cw.stopped)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Content watcher error: %v", err)
		}
	}
}

func (cw *Watcher) reload() {
	c, err := Load(cw.path)
	if err != nil {
		logger.Warn("Ignoring content change: %v", err)
		return
	}
	// Replace any update the UI has not consumed yet.
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- c
	logger.Info("Reloaded content from %s", cw.path)
}
