// Package host is a minimal component engine that drives treehouse bindings.
//
// A Renderer mounts a tree of Components, renders each to a Node tree and
// keeps the output in sync with the store. It calls the four binding
// transitions at the points a real UI framework would: construction,
// before the first render, on prop changes, and on teardown. After every
// committed render it acknowledges the binding so the TreeView is marked
// clean.
//
// Child components receive their parent's scope when they are constructed,
// so scope flows down the component tree explicitly.
//
//	page := &host.Component{
//	    Connector: treehouse.Connect(app, treehouse.Config{
//	        Name:       "page",
//	        AddToScope: func(treehouse.Props) treehouse.Scope { return treehouse.Scope{"page": 2} },
//	    }),
//	    Render: func(_ treehouse.Props, _ treehouse.Scope) *host.Node {
//	        return host.El("div", host.Use(counter, nil))
//	    },
//	}
//	r := host.New(page, nil)
//	if err := r.Mount(ctx); err != nil {
//	    return err
//	}
//	defer r.Unmount(ctx)
//
// Store commits made inside Batch are flushed parents first, so a component
// renders at most once per batch.
package host
