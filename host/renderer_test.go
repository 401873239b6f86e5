package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/zoobzio/treehouse"
	"github.com/zoobzio/treehouse/tree"
)

func commit(t *testing.T, app *tree.App, value any, path ...string) {
	t.Helper()
	if err := app.Push(tree.Change{Path: path, Value: value}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	app.Commit(context.Background())
}

func scopeString(s treehouse.Scope) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, s[k]))
	}
	return strings.Join(parts, " ")
}

func pickFruit(t treehouse.Tree) map[string]treehouse.Branch {
	return map[string]treehouse.Branch{"theFruit": t.At("fruit")}
}

func TestRenderer_RendersFromTree(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"fruit": "orange", "animal": "sheep"})

	widget := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "widget", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return El("p", Text(p["theFruit"].(string)))
		},
	}

	r := New(widget, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	if got := r.HTML(); got != "<p>orange</p>" {
		t.Errorf("expected <p>orange</p>, got %q", got)
	}
	if n := r.RenderCount(widget); n != 1 {
		t.Errorf("expected 1 render, got %d", n)
	}

	commit(t, app, "apple", "fruit")
	if got := r.HTML(); got != "<p>apple</p>" {
		t.Errorf("expected <p>apple</p>, got %q", got)
	}
	if n := r.RenderCount(widget); n != 2 {
		t.Errorf("expected 2 renders after fruit commit, got %d", n)
	}

	commit(t, app, "sloth", "animal")
	if n := r.RenderCount(widget); n != 2 {
		t.Errorf("expected no render for unrelated commit, got %d", n)
	}

	commit(t, app, "apple", "fruit")
	if n := r.RenderCount(widget); n != 2 {
		t.Errorf("expected no render for unchanged value, got %d", n)
	}
}

func TestRenderer_PropsOverrideSnapshot(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"a": "alpha", "b": "beta", "c": "gamma"})

	c := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{
			Name: "letters",
			Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
				return map[string]treehouse.Branch{
					"a": t.At("a"),
					"b": t.At("b"),
					"c": t.At("c"),
				}
			},
		}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return Text(fmt.Sprintf("%v,%v,%v", p["a"], p["b"], p["c"]))
		},
	}

	r := New(c, treehouse.Props{"a": "AYE"})
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	if got := r.PlainText(); got != "AYE,beta,gamma" {
		t.Errorf("expected AYE,beta,gamma, got %q", got)
	}

	commit(t, app, "ALPHA", "a")
	if got := r.PlainText(); got != "AYE,beta,gamma" {
		t.Errorf("expected props to keep precedence, got %q", got)
	}
}

func TestRenderer_BatchRendersParentAndChildOnce(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"fruit": "orange"})

	child := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "child", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return El("span", Text(p["theFruit"].(string)))
		},
		ShouldUpdate: func(_, _ treehouse.Props) bool { return true },
	}
	parent := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "parent", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return El("div", Text(p["theFruit"].(string)), Use(child, nil))
		},
	}

	r := New(parent, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	err := r.Batch(ctx, func() {
		commit(t, app, "apple", "fruit")
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}

	if n := r.RenderCount(parent); n != 2 {
		t.Errorf("expected parent to render twice, got %d", n)
	}
	if n := r.RenderCount(child); n != 2 {
		t.Errorf("expected child to render twice, got %d", n)
	}
	if got := r.HTML(); got != "<div>apple<span>apple</span></div>" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRenderer_CommitRendersChildOnceWithoutBatch(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"fruit": "orange"})

	child := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "child", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return El("span", Text(p["theFruit"].(string)))
		},
		ShouldUpdate: func(_, _ treehouse.Props) bool { return true },
	}
	parent := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "parent", Pick: pickFruit}),
		Render: func(_ treehouse.Props, _ treehouse.Scope) *Node {
			return El("div", Use(child, nil))
		},
	}

	r := New(parent, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)
	r.ResetCounts()

	commit(t, app, "apple", "fruit")

	if n := r.RenderCount(parent); n != 1 {
		t.Errorf("expected parent to render once, got %d", n)
	}
	if n := r.RenderCount(child); n != 1 {
		t.Errorf("expected child re-rendered by its parent to render once, got %d", n)
	}
	if got := r.HTML(); got != "<div><span>apple</span></div>" {
		t.Errorf("unexpected output %q", got)
	}
	if err := r.Err(); err != nil {
		t.Errorf("unexpected render error: %v", err)
	}
}

func TestRenderer_BatchNested(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"fruit": "orange"})

	c := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "widget", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return Text(p["theFruit"].(string))
		},
	}
	r := New(c, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	_ = r.Batch(ctx, func() {
		_ = r.Batch(ctx, func() {
			commit(t, app, "apple", "fruit")
		})
		if got := r.PlainText(); got != "orange" {
			t.Errorf("expected inner batch not to flush, got %q", got)
		}
		commit(t, app, "pear", "fruit")
	})

	if got := r.PlainText(); got != "pear" {
		t.Errorf("expected pear, got %q", got)
	}
	if n := r.RenderCount(c); n != 2 {
		t.Errorf("expected a single render for the batch, got %d", n)
	}
}

func TestRenderer_ScopeChain(t *testing.T) {
	ctx := context.Background()

	leaf := &Component{
		Name: "leaf",
		Render: func(p treehouse.Props, s treehouse.Scope) *Node {
			return El("p", Text(scopeString(s))).WithID(p["id"].(string))
		},
	}
	tab := &Component{
		Connector: treehouse.Connect(nil, treehouse.Config{
			Name: "tab",
			AddToScope: func(treehouse.Props) treehouse.Scope {
				return treehouse.Scope{"tab": 6}
			},
		}),
		Render: func(_ treehouse.Props, _ treehouse.Scope) *Node {
			return El("div", Use(leaf, treehouse.Props{"id": "scoped"}))
		},
	}
	plain := &Component{
		Name: "plain",
		Render: func(_ treehouse.Props, _ treehouse.Scope) *Node {
			return El("div", Use(leaf, treehouse.Props{"id": "sibling"}))
		},
	}
	page := &Component{
		Connector: treehouse.Connect(nil, treehouse.Config{
			Name: "page",
			AddToScope: func(treehouse.Props) treehouse.Scope {
				return treehouse.Scope{"page": 2}
			},
		}),
		Render: func(_ treehouse.Props, s treehouse.Scope) *Node {
			return El("section",
				El("h1", Text(scopeString(s))).WithID("page"),
				Use(tab, nil),
				Use(plain, nil),
			)
		},
	}

	r := New(page, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	tests := []struct {
		id   string
		want string
	}{
		{"page", "page=2"},
		{"scoped", "page=2 tab=6"},
		{"sibling", "page=2"},
	}
	for _, tt := range tests {
		got, ok := r.Inner(tt.id)
		if !ok {
			t.Errorf("element %q not found", tt.id)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected scope %q, got %q", tt.id, tt.want, got)
		}
	}
}

func TestRenderer_ChildScopeOverridesParent(t *testing.T) {
	ctx := context.Background()

	leaf := &Component{
		Name: "leaf",
		Render: func(_ treehouse.Props, s treehouse.Scope) *Node {
			return Text(scopeString(s))
		},
	}
	inner := &Component{
		Connector: treehouse.Connect(nil, treehouse.Config{
			Name:       "inner",
			AddToScope: func(p treehouse.Props) treehouse.Scope { return treehouse.Scope{"page": p["page"]} },
		}),
		Render: func(_ treehouse.Props, _ treehouse.Scope) *Node { return Use(leaf, nil) },
	}
	outer := &Component{
		Connector: treehouse.Connect(nil, treehouse.Config{
			Name:       "outer",
			AddToScope: func(treehouse.Props) treehouse.Scope { return treehouse.Scope{"page": 1, "user": "ada"} },
		}),
		Render: func(_ treehouse.Props, _ treehouse.Scope) *Node {
			return Use(inner, treehouse.Props{"page": 3})
		},
	}

	r := New(outer, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	if got := r.PlainText(); got != "page=3 user=ada" {
		t.Errorf("expected closer scope to win, got %q", got)
	}
}

func TestRenderer_Events(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"stuff": 7})

	var resetArgs []any
	app.RegisterAction("increaseStuff", func(_ context.Context, tx *tree.Tx, args ...any) error {
		n, _ := tx.Get("stuff").(int)
		by, _ := args[0].(int)
		return tx.Set(n+by, "stuff")
	})
	app.RegisterAction("resetStuff", func(_ context.Context, tx *tree.Tx, args ...any) error {
		resetArgs = args
		return tx.Set(0, "stuff")
	})

	var props treehouse.Props
	c := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{
			Name: "stuff",
			Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
				return map[string]treehouse.Branch{"stuff": t.At("stuff")}
			},
			Events: treehouse.EventFunc(func(dispatch treehouse.Dispatch, _ treehouse.Scope) treehouse.EventMap {
				return treehouse.EventMap{
					"onIncrease": func(args ...any) error {
						return dispatch("increaseStuff", args...)
					},
					"onReset": "resetStuff",
				}
			}),
		}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			props = p
			return Text(fmt.Sprint(p["stuff"]))
		},
	}

	r := New(c, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	increase, ok := props["onIncrease"].(treehouse.Handler)
	if !ok {
		t.Fatalf("expected onIncrease handler, got %T", props["onIncrease"])
	}
	if err := increase(7); err != nil {
		t.Fatalf("onIncrease failed: %v", err)
	}
	if got := r.PlainText(); got != "14" {
		t.Errorf("expected 14, got %q", got)
	}

	reset, ok := props["onReset"].(treehouse.Handler)
	if !ok {
		t.Fatalf("expected onReset handler, got %T", props["onReset"])
	}
	if err := reset(99, "ignored"); err != nil {
		t.Fatalf("onReset failed: %v", err)
	}
	if len(resetArgs) != 0 {
		t.Errorf("expected no payload for action name entry, got %v", resetArgs)
	}
	if got := r.PlainText(); got != "0" {
		t.Errorf("expected 0, got %q", got)
	}
}

func TestRenderer_InvalidEventsFailMount(t *testing.T) {
	ctx := context.Background()
	c := &Component{
		Connector: treehouse.Connect(tree.New(), treehouse.Config{
			Name:   "broken",
			Events: treehouse.EventMap{"onClick": 42},
		}),
	}

	r := New(c, nil)
	err := r.Mount(ctx)
	if !errors.Is(err, treehouse.ErrInvalidEventHandler) {
		t.Errorf("expected ErrInvalidEventHandler, got %v", err)
	}
}

func TestRenderer_UnmountStopsRenders(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"fruit": "orange"})

	c := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "widget", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return Text(p["theFruit"].(string))
		},
	}
	r := New(c, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	r.Unmount(ctx)

	commit(t, app, "apple", "fruit")
	if n := r.RenderCount(c); n != 1 {
		t.Errorf("expected no render after unmount, got %d", n)
	}
	if got := r.HTML(); got != "" {
		t.Errorf("expected empty output after unmount, got %q", got)
	}

	// Unmounting twice is harmless.
	r.Unmount(ctx)
}

func TestRenderer_RemovedChildIsUnmounted(t *testing.T) {
	ctx := context.Background()
	app := tree.New()
	app.Init(map[string]any{"show": true, "fruit": "orange"})

	child := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{Name: "child", Pick: pickFruit}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return Text(p["theFruit"].(string))
		},
	}
	parent := &Component{
		Connector: treehouse.Connect(app, treehouse.Config{
			Name: "parent",
			Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
				return map[string]treehouse.Branch{"show": t.At("show")}
			},
		}),
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			if show, _ := p["show"].(bool); show {
				return El("div", Use(child, nil))
			}
			return El("div")
		},
	}

	r := New(parent, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	commit(t, app, false, "show")
	if got := r.HTML(); got != "<div></div>" {
		t.Errorf("expected child removed, got %q", got)
	}

	commit(t, app, "apple", "fruit")
	if n := r.RenderCount(child); n != 1 {
		t.Errorf("expected removed child not to render, got %d", n)
	}

	commit(t, app, true, "show")
	if got := r.HTML(); got != "<div>apple</div>" {
		t.Errorf("expected remounted child with fresh snapshot, got %q", got)
	}
}

func TestRenderer_SetPropsUsesGate(t *testing.T) {
	ctx := context.Background()
	c := &Component{
		Name: "label",
		Render: func(p treehouse.Props, _ treehouse.Scope) *Node {
			return Text(fmt.Sprint(p["label"]))
		},
	}

	r := New(c, treehouse.Props{"label": "one"})
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)

	if err := r.SetProps(ctx, treehouse.Props{"label": "one"}); err != nil {
		t.Fatalf("SetProps failed: %v", err)
	}
	if n := r.RenderCount(c); n != 1 {
		t.Errorf("expected equal props to skip render, got %d renders", n)
	}

	if err := r.SetProps(ctx, treehouse.Props{"label": "two"}); err != nil {
		t.Fatalf("SetProps failed: %v", err)
	}
	if got := r.PlainText(); got != "two" {
		t.Errorf("expected two, got %q", got)
	}
	if n := r.RenderCount(c); n != 2 {
		t.Errorf("expected 2 renders, got %d", n)
	}
}

func TestRenderer_MountTwice(t *testing.T) {
	ctx := context.Background()
	r := New(&Component{Name: "empty"}, nil)
	if err := r.Mount(ctx); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	defer r.Unmount(ctx)
	if err := r.Mount(ctx); err == nil {
		t.Error("expected error mounting twice")
	}
}
