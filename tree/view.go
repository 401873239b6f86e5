package tree

import (
	"context"
	"sort"

	"github.com/zoobzio/treehouse"
)

// View is the TreeView an App hands out from Pick.
type View struct {
	app      *App
	fields   map[string]treehouse.Branch
	channels map[string]struct{}

	// guarded by app.mu
	fn    func(context.Context)
	dirty bool
}

// Ensure View implements treehouse.TreeView.
var _ treehouse.TreeView = (*View)(nil)

// Watch registers the change callback.
func (v *View) Watch(fn func(ctx context.Context)) error {
	if fn == nil {
		return ErrNilCallback
	}
	v.app.mu.Lock()
	defer v.app.mu.Unlock()
	if v.fn != nil {
		return treehouse.ErrAlreadyWatching
	}
	v.fn = fn
	v.app.watch(v)
	return nil
}

// Unwatch removes the callback. Notifications already in flight for this
// view are dropped.
func (v *View) Unwatch() {
	v.app.mu.Lock()
	defer v.app.mu.Unlock()
	if v.fn == nil {
		return
	}
	v.fn = nil
	v.app.unwatch(v)
}

// Get reads every selected branch against the same version of the tree.
func (v *View) Get() treehouse.Props {
	out := make(treehouse.Props, len(v.fields))
	var foreign []string

	v.app.mu.Lock()
	data := v.app.data
	for name, b := range v.fields {
		r, ok := b.(resolver)
		if !ok {
			foreign = append(foreign, name)
			continue
		}
		out[name] = r.resolve(data)
	}
	v.app.mu.Unlock()

	for _, name := range foreign {
		if b := v.fields[name]; b != nil {
			out[name] = b.Value()
		} else {
			out[name] = nil
		}
	}
	return out
}

// MarkClean clears the dirty flag set by the last intersecting commit. A
// view marked clean during a commit's fan-out is not notified for it.
func (v *View) MarkClean() {
	v.app.mu.Lock()
	v.dirty = false
	v.app.mu.Unlock()
}

// Dirty reports whether a commit touched this view since the last MarkClean.
func (v *View) Dirty() bool {
	v.app.mu.Lock()
	defer v.app.mu.Unlock()
	return v.dirty
}

// Watched reports whether the view has a callback.
func (v *View) Watched() bool {
	v.app.mu.Lock()
	defer v.app.mu.Unlock()
	return v.fn != nil
}

// Channels returns the channels this view listens on, sorted.
func (v *View) Channels() []string {
	out := make([]string, 0, len(v.channels))
	for ch := range v.channels {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

func (v *View) listensOn(committed map[string]struct{}) bool {
	if len(v.channels) == 0 {
		return false
	}
	if _, ok := committed[AllChannels]; ok {
		return true
	}
	if _, ok := v.channels[AllChannels]; ok {
		return true
	}
	for ch := range v.channels {
		if _, ok := committed[ch]; ok {
			return true
		}
	}
	return false
}

// notify delivers a commit to the view. A view marked clean earlier in the
// same fan-out, for example a child re-rendered by its parent, is skipped.
func (v *View) notify(ctx context.Context) {
	v.app.mu.Lock()
	fn, dirty := v.fn, v.dirty
	v.app.mu.Unlock()
	if fn == nil || !dirty {
		return
	}
	fn(ctx)
}
