// Package watch reports debounced changes to the slot files of a data directory.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"folio/internal/model"
	"folio/internal/store"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Change names a slot file that settled after one or more writes.
type Change struct {
	File string         `json:"file"`
	Role store.FileRole `json:"role"`
	Kind model.Kind     `json:"kind,omitempty"`
}

type Options struct {
	Logger *zap.Logger
	// Debounce is how long a file must stay quiet before it is reported. Default 200ms.
	Debounce time.Duration
}

type Watcher struct {
	dir      string
	log      *zap.Logger
	debounce time.Duration
	fs       *fsnotify.Watcher
	out      chan Change

	mu      sync.Mutex
	pending map[string]time.Time

	closeOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func New(dir string, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	d := opts.Debounce
	if d <= 0 {
		d = 200 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		log:      log,
		debounce: d,
		fs:       fw,
		out:      make(chan Change, 16),
		pending:  map[string]time.Time{},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes is closed when Run returns.
func (w *Watcher) Changes() <-chan Change { return w.out }

// Run delivers changes until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.doneCh)
	defer close(w.out)

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-tick.C:
			for _, c := range w.settled() {
				select {
				case w.out <- c:
				case <-ctx.Done():
					return nil
				case <-w.stopCh:
					return nil
				}
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	name := filepath.Base(ev.Name)
	if _, _, ok := store.ClassifyFile(name); !ok {
		return
	}
	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) settled() []Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	names := []string{}
	for name, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			names = append(names, name)
			delete(w.pending, name)
		}
	}
	sort.Strings(names)

	out := make([]Change, 0, len(names))
	for _, name := range names {
		role, kind, _ := store.ClassifyFile(name)
		w.log.Debug("data file changed", zap.String("file", name))
		out = append(out, Change{File: name, Role: role, Kind: kind})
	}
	return out
}

// Close stops Run, if it is running, and releases the fsnotify watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		err = w.fs.Close()
	})
	return err
}

// Done is closed once Run has returned.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }
