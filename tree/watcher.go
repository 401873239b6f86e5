package tree

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a source of state documents and emits raw bytes on a
// channel. Implementations emit the current document first so a Feed can
// seed the tree, then one document per change. The channel is closed when
// ctx is canceled or the source fails for good.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelWatcher adapts an existing byte channel. It is mostly used in tests.
type ChannelWatcher struct {
	ch     <-chan []byte
	direct bool
}

// NewChannelWatcher forwards values from ch through a goroutine that stops
// with the Watch context.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher hands ch out as is. Pair it with Feed.SyncMode for
// deterministic tests.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, direct: true}
}

// Watch returns the channel of documents.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.direct {
		return w.ch, nil
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case doc, ok := <-w.ch:
				if !ok {
					return
				}
				select {
				case out <- doc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// FileWatcher emits a file's contents on start and after every write.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a FileWatcher for path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch starts an fsnotify watcher on the file.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(w.path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.path, err)
	}

	out := make(chan []byte)
	emit := func() bool {
		data, err := os.ReadFile(w.path)
		if err != nil {
			return true
		}
		select {
		case out <- data:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)
		defer fw.Close()

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if !emit() {
					return
				}
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
