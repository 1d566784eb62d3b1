// Package watch reports changes to input files so a scanner can re-open
// its stream when the file it is reading is rewritten.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op indicates a change operation on a watched path.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a single change notification.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Changed reports whether the event alters file content.
func (e Event) Changed() bool {
	return e.Op&(OpCreate|OpWrite) != 0
}

// Watcher wraps fsnotify with typed events.
type Watcher struct {
	w   *fsnotify.Watcher
	evC chan Event
	erC chan error

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a Watcher.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{
		w:       w,
		evC:     make(chan Event, 128),
		erC:     make(chan error, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.stopped)
	defer close(fw.evC)
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			var op Op
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if ev.Op&fsnotify.Chmod != 0 {
				op |= OpChmod
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op, Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func (fw *Watcher) Events() <-chan Event     { return fw.evC }
func (fw *Watcher) Errors() <-chan error     { return fw.erC }
func (fw *Watcher) Add(name string) error    { return fw.w.Add(name) }
func (fw *Watcher) Remove(name string) error { return fw.w.Remove(name) }

// Close stops the watcher. Events not yet received are dropped.
func (fw *Watcher) Close() error {
	fw.stopOnce.Do(func() { close(fw.done) })
	return fw.w.Close()
}

// Follow calls fn once, then again every time path is created or written,
// until ctx is done or fn fails. Events arriving within settle of each other
// are coalesced into one call. The parent directory is watched so editors
// that replace the file by rename are still seen.
func Follow(ctx context.Context, path string, settle time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}

	fw, err := New()
	if err != nil {
		return err
	}
	defer fw.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := fw.Add(dir); err != nil {
		return err
	}
	defer fw.Remove(dir)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-fw.Errors():
			return err
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			if evAbs, _ := filepath.Abs(ev.Path); evAbs != abs || !ev.Changed() {
				continue
			}
			timer = time.After(settle)
		case <-timer:
			timer = nil
			if err := fn(); err != nil {
				return err
			}
		}
	}
}
