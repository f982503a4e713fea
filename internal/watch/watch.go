// Package watch reports changes to local files, such as a mesh document being edited while the
// demo runs.
package watch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"meshworld/internal/logger"
)

// Watcher sends a file's path on Changes whenever it is written, created or renamed into place.
// Parent directories are watched so editors that replace the file are seen too.
type Watcher struct {
	fsw     *fsnotify.Watcher
	files   map[string]string // absolute path -> path as given
	changes chan string
	done    chan struct{}
	log     *logger.Logger
}

// New starts watching paths. log may be nil.
func New(log *logger.Logger, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]string),
		changes: make(chan string, 8),
		done:    make(chan struct{}),
		log:     log,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		w.files[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
	}
	go w.run()
	return w, nil
}

// Changes delivers changed paths as they were passed to New. Bursts are coalesced: a change
// is dropped while the buffer is full.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching. Changes is closed once the watcher has shut down.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, ok := w.files[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			select {
			case w.changes <- name:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Logf("watch: %v", err)
			}
		}
	}
}
