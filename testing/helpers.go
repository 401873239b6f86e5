// Package testing provides test utilities for components bound with
// treehouse: a fixture pairing a tree store with a mounted renderer, state
// feeds driven from a channel, and assertions on rendered output.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/treehouse"
	"github.com/zoobzio/treehouse/host"
	"github.com/zoobzio/treehouse/tree"
)

// Fixture is a tree store and a mounted renderer for one component tree.
type Fixture struct {
	App      *tree.App
	Renderer *host.Renderer
	Root     *host.Component
}

// NewFixture seeds a store with data, builds the root component against it
// and mounts the renderer with props. The renderer is unmounted when the
// test ends.
func NewFixture(t *testing.T, data map[string]any, props treehouse.Props, build func(app *tree.App) *host.Component) *Fixture {
	t.Helper()
	app := tree.New()
	if data != nil {
		app.Init(data)
	}
	root := build(app)
	r := host.New(root, props)
	if err := r.Mount(context.Background()); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	t.Cleanup(func() {
		r.Unmount(context.Background())
	})
	return &Fixture{App: app, Renderer: r, Root: root}
}

// Commit pushes changes and commits them inside a render batch.
func (f *Fixture) Commit(t *testing.T, changes ...tree.Change) {
	t.Helper()
	ctx := context.Background()
	var pushErr error
	err := f.Renderer.Batch(ctx, func() {
		if pushErr = f.App.Push(changes...); pushErr != nil {
			return
		}
		f.App.Commit(ctx)
	})
	if pushErr != nil {
		t.Fatalf("push failed: %v", pushErr)
	}
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
}

// Set commits value at path.
func (f *Fixture) Set(t *testing.T, value any, path ...string) {
	t.Helper()
	f.Commit(t, tree.Change{Path: path, Value: value})
}

// Dispatch runs an action inside a render batch and returns its error.
func (f *Fixture) Dispatch(t *testing.T, action string, args ...any) error {
	t.Helper()
	ctx := context.Background()
	var dispatchErr error
	if err := f.Renderer.Batch(ctx, func() {
		dispatchErr = f.App.Dispatch(ctx, action, args...)
	}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return dispatchErr
}

// RequireOutput fails the test if the rendered markup differs from want.
func RequireOutput(t *testing.T, r *host.Renderer, want string) {
	t.Helper()
	if got := r.HTML(); got != want {
		t.Fatalf("expected output %q, got %q", want, got)
	}
}

// RequireInner fails the test if the element with id is missing or its
// inner markup differs from want.
func RequireInner(t *testing.T, r *host.Renderer, id, want string) {
	t.Helper()
	got, ok := r.Inner(id)
	if !ok {
		t.Fatalf("no element with id %q", id)
	}
	if got != want {
		t.Fatalf("expected #%s to be %q, got %q", id, want, got)
	}
}

// RequireRenders fails the test if c has not rendered exactly want times
// since the last ResetCounts.
func RequireRenders(t *testing.T, r *host.Renderer, c *host.Component, want int) {
	t.Helper()
	if got := r.RenderCount(c); got != want {
		t.Fatalf("expected %d renders of %s, got %d", want, name(c), got)
	}
}

func name(c *host.Component) string {
	if c.Connector != nil {
		return c.Connector.Name()
	}
	if c.Name != "" {
		return c.Name
	}
	return "component"
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForFeedState waits until the feed reaches the expected state or
// timeout occurs.
func WaitForFeedState(t *testing.T, f *tree.Feed, expected tree.FeedState, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return f.State() == expected
	})
}

// RequireFeedState fails the test immediately if the feed is not in the
// expected state.
func RequireFeedState(t *testing.T, f *tree.Feed, expected tree.FeedState) {
	t.Helper()
	if got := f.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// NewTestFeed creates a sync mode feed that commits documents sent on the
// returned channel into app at the root.
func NewTestFeed(t *testing.T, app *tree.App) (*tree.Feed, chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	f := tree.NewFeed(tree.NewSyncChannelWatcher(ch), tree.CommitTo(app)).SyncMode()
	return f, ch
}
