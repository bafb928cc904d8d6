package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce drops repeated events for one file inside this window.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports edits to rig, scene and script prefabs. Events carries the
// changed path; the frame loop drains it without blocking.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		debounce: DefaultDebounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// WatchPrefabs watches the prefab directory and its scripts.
func WatchPrefabs() (*Watcher, error) {
	return NewWatcher(Dir, filepath.Join(Dir, "scripts"))
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll returns the paths changed since the last call.
func (w *Watcher) Poll() []string {
	if w == nil {
		return nil
	}
	var out []string
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return out
			}
			out = append(out, name)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isSpecFile(event.Name) && !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
