package tree

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/treehouse"
)

// AllChannels is the wildcard channel. It intersects every other channel.
const AllChannels = "*"

// Change is a single pending mutation of the tree.
type Change struct {
	// Path addresses the value to set. An empty path replaces the whole
	// tree and requires a map value.
	Path []string

	// Value is the new value at Path. Ignored when Delete is set.
	Value any

	// Delete removes the value at Path instead of setting it.
	Delete bool

	// Channels lists the channels this change touches. When empty the
	// first path segment is used, or AllChannels for the root.
	Channels []string
}

func (c Change) channels() []string {
	if len(c.Channels) > 0 {
		return c.Channels
	}
	if len(c.Path) == 0 {
		return []string{AllChannels}
	}
	return []string{c.Path[0]}
}

func (c Change) validate() error {
	if len(c.Path) > 0 {
		return nil
	}
	if c.Delete {
		return fmt.Errorf("%w: cannot delete the root", ErrInvalidChange)
	}
	if _, ok := c.Value.(map[string]any); !ok {
		return fmt.Errorf("%w: root value must be map[string]any, got %T", ErrInvalidChange, c.Value)
	}
	return nil
}

// App is an in-memory tree store. It is safe for concurrent use; commit
// notifications run on the committing goroutine with no lock held.
type App struct {
	mu      sync.Mutex
	data    map[string]any
	pending []Change
	watched []*View
	actions map[string]*action
}

// New creates an empty App.
func New() *App {
	return &App{
		data:    map[string]any{},
		actions: map[string]*action{},
	}
}

// Ensure App implements treehouse.Store.
var _ treehouse.Store = (*App)(nil)

// Init replaces the tree without notifying anyone. The App takes ownership
// of data.
func (a *App) Init(data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	a.mu.Lock()
	a.data = data
	a.pending = nil
	a.mu.Unlock()
}

// Data returns the current root. Callers must not mutate it.
func (a *App) Data() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data
}

// Get returns the value at path, or nil if absent.
func (a *App) Get(path ...string) any {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, _ := getIn(a.data, path)
	return v
}

// Push queues changes for the next Commit.
func (a *App) Push(changes ...Change) error {
	for _, c := range changes {
		if err := c.validate(); err != nil {
			return err
		}
	}
	a.mu.Lock()
	a.pending = append(a.pending, changes...)
	a.mu.Unlock()
	return nil
}

// Commit applies every pending change, then notifies each watched view whose
// channels intersect the committed channels exactly once. It returns the
// committed channels in the order they first appeared.
func (a *App) Commit(ctx context.Context) []string {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	if len(pending) == 0 {
		a.mu.Unlock()
		return nil
	}

	committed := make(map[string]struct{})
	var channels []string
	for _, c := range pending {
		a.data = apply(a.data, c)
		for _, ch := range c.channels() {
			if _, ok := committed[ch]; !ok {
				committed[ch] = struct{}{}
				channels = append(channels, ch)
			}
		}
	}

	var notify []*View
	for _, v := range a.watched {
		if v.listensOn(committed) {
			v.dirty = true
			notify = append(notify, v)
		}
	}
	a.mu.Unlock()

	capitan.Emit(ctx, TreeCommitted,
		KeyChannels.Field(strings.Join(channels, ",")),
		KeyChanges.Field(len(pending)),
		KeyNotified.Field(len(notify)),
	)

	for _, v := range notify {
		v.notify(ctx)
	}
	return channels
}

// Pick creates a View from a selector. The selector runs once; the values
// behind its branches are read on every Get.
func (a *App) Pick(sel treehouse.Selector) treehouse.TreeView {
	v := &View{
		app:      a,
		channels: map[string]struct{}{},
	}
	if sel != nil {
		v.fields = sel(cursor{app: a})
	}
	for _, b := range v.fields {
		if b == nil {
			continue
		}
		for _, ch := range b.Channels() {
			v.channels[ch] = struct{}{}
		}
	}
	return v
}

func (a *App) watch(v *View) {
	a.watched = append(a.watched, v)
}

func (a *App) unwatch(v *View) {
	for i, w := range a.watched {
		if w == v {
			a.watched = append(a.watched[:i], a.watched[i+1:]...)
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Copy-on-write helpers
// -----------------------------------------------------------------------------

func apply(data map[string]any, c Change) map[string]any {
	if len(c.Path) == 0 {
		root, _ := c.Value.(map[string]any)
		return root
	}
	if c.Delete {
		return deleteIn(data, c.Path)
	}
	return setIn(data, c.Path, c.Value)
}

func getIn(data map[string]any, path []string) (any, bool) {
	var cur any = data
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setIn returns a copy of data with value stored at path. Every map along
// the path is copied; siblings are shared.
func setIn(data map[string]any, path []string, value any) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	if len(path) == 1 {
		out[path[0]] = value
		return out
	}
	child, _ := data[path[0]].(map[string]any)
	out[path[0]] = setIn(child, path[1:], value)
	return out
}

func deleteIn(data map[string]any, path []string) map[string]any {
	if _, ok := getIn(data, path); !ok {
		return data
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	if len(path) == 1 {
		delete(out, path[0])
		return out
	}
	child, _ := data[path[0]].(map[string]any)
	out[path[0]] = deleteIn(child, path[1:])
	return out
}
