// Package watch reruns code generation when declaration sources change.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before a
// rebuild starts. Editors often write a file several times per save.
const DefaultDebounce = 300 * time.Millisecond

// generatedSuffixes are the file name suffixes of generated files. Changes
// to them never trigger a rebuild, or every run would trigger the next.
var generatedSuffixes = []string{"_params.go", "_exec.go"}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger of the watcher.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher watches package directories for changes to Go source files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	mu   sync.Mutex
	dirs map[string]bool
}

// New returns a Watcher with no directories.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
		dirs:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add starts watching dirs. Directories already watched are skipped.
func (w *Watcher) Add(dirs ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
		w.log.Debug("watching directory", zap.String("dir", dir))
	}
	return nil
}

// Dirs returns the number of watched directories.
func (w *Watcher) Dirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls rebuild after each burst of source changes until ctx is done.
// Rebuild errors are logged and do not stop the loop. Run returns nil when
// ctx is canceled.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed = make(map[string]bool)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !Relevant(ev) {
				continue
			}
			changed[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-fire:
			timer, fire = nil, nil
			w.log.Info("sources changed", zap.Int("files", len(changed)))
			clear(changed)
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.log.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}

// Relevant reports whether an event can change declarations: a write,
// creation, removal or rename of a hand-written Go file.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, ".") {
		return false
	}
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}
