/*
Package treehouse binds UI components to slices of a shared, observable state
tree and wires UI events to named actions that mutate that tree.

treehouse is an adapter layer. It does not own the tree store or the rendering
engine; it speaks to both through small interfaces (Store, TreeView) and four
lifecycle transitions a host engine calls on a Binding.

# Connecting a Component

A component declares what it reads from the tree, which events it raises, and
what it adds to the scope seen by its descendants:

	counter := treehouse.Connect(app, treehouse.Config{
	    Name: "counter",
	    Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
	        return map[string]treehouse.Branch{
	            "count": t.At("counter", "value"),
	        }
	    },
	    Events: treehouse.EventFunc(func(dispatch treehouse.Dispatch, _ treehouse.Scope) treehouse.EventMap {
	        return treehouse.EventMap{
	            "onIncrement": "increment",
	            "onAdd": func(args ...any) error {
	                return dispatch("add", args...)
	            },
	        }
	    }),
	    AddToScope: func(props treehouse.Props) treehouse.Scope {
	        return treehouse.Scope{"section": props["section"]}
	    },
	})

# Lifecycle

Each component instance owns one Binding. The host engine drives it through:

	b, err := counter.New(ctx, parentScope, props) // Unbound
	b.Mount(ctx)                                   // watch + seed snapshot
	b.Update(ctx, nextProps)                       // resync on new props
	b.Rendered(ctx)                                // acknowledge (MarkClean)
	b.Unmount(ctx)                                 // unwatch, terminal

Tree commits that touch a watched channel resync the Binding and invoke the
callback registered with OnResync, which is where a host schedules a render.
ShouldRender is the shallow-equality gate: it reports false when neither the
snapshot nor the props changed since the last render.

# Scope

Scope is threaded explicitly. A child Binding is constructed with its parent
Binding's Scope, and a component's own AddToScope keys override inherited
ones. Siblings never see each other's additions.

# Observability

Every transition emits a capitan signal (see signals.go). Hook them for
logging or auditing:

	capitan.Hook(treehouse.BindingRendered, func(_ context.Context, e *capitan.Event) {
	    name, _ := treehouse.KeyComponent.From(e)
	    log.Printf("rendered %s", name)
	})

Subpackages:
  - tree: a reference tree store with channels, actions and feeds
  - host: a reference rendering engine that drives Bindings
*/
package treehouse
