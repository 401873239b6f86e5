package treehouse

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Config declares how a component binds to the store.
type Config struct {
	// Name identifies the component in signals and errors.
	Name string

	// Pick selects the tree-derived fields. Optional.
	Pick Selector

	// Events is the event spec: an EventMap, map[string]any, EventFunc, or
	// a function of the dispatcher returning an EventMap. Optional.
	Events any

	// AddToScope computes the scope additions published to descendants.
	// Optional.
	AddToScope ScopeFunc
}

// Connector binds a component declaration to a store. It is shared by every
// instance of the component; each instance gets its own Binding from New.
type Connector struct {
	store Store
	cfg   Config
}

// Connect creates a Connector for cfg against store.
//
// Example:
//
//	widget := treehouse.Connect(app, treehouse.Config{
//	    Name: "widget",
//	    Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
//	        return map[string]treehouse.Branch{"theFruit": t.At("fruit")}
//	    },
//	})
func Connect(store Store, cfg Config) *Connector {
	return &Connector{store: store, cfg: cfg}
}

// Name returns the component name, or "anonymous".
func (c *Connector) Name() string {
	if c.cfg.Name == "" {
		return "anonymous"
	}
	return c.cfg.Name
}

// New constructs the Binding for one component instance.
//
// The TreeView is created from Pick and the event spec is resolved once,
// using the instance's scope. parent is the scope published by the nearest
// bound ancestor (nil at the root). The returned Binding is unbound.
func (c *Connector) New(ctx context.Context, parent Scope, props Props) (*Binding, error) {
	b := &Binding{
		connector: c,
		parent:    parent,
		props:     props,
		metrics:   NoOpMetricsProvider{},
	}
	b.view = Bind(c.store, c.cfg.Pick)

	if c.cfg.Events != nil {
		handlers, err := ResolveEvents(c.cfg.Events, c.dispatcher(ctx), b.Scope())
		if err != nil {
			capitan.Emit(ctx, BindingEventsFailed,
				KeyComponent.Field(c.Name()),
				KeyError.Field(err.Error()),
			)
			return nil, fmt.Errorf("resolve events for %s: %w", c.Name(), err)
		}
		b.handlers = handlers
	}

	return b, nil
}

// dispatcher binds the store's Dispatch to the construction context.
// Cancellation is dropped: handlers outlive the call that built them.
func (c *Connector) dispatcher(ctx context.Context) Dispatch {
	ctx = context.WithoutCancel(ctx)
	return func(action string, args ...any) error {
		if c.store == nil {
			return fmt.Errorf("dispatch %s: no store", action)
		}
		return c.store.Dispatch(ctx, action, args...)
	}
}

// Binding is the lifecycle controller of one component instance.
//
// A Binding is driven from a single goroutine: the host engine's lifecycle
// calls and the store's notifications must not run concurrently.
type Binding struct {
	connector *Connector
	view      TreeView
	handlers  Handlers
	parent    Scope
	scope     Scope
	scoped    bool

	props    Props
	snapshot Props
	state    State

	rendered         bool
	renderedSnapshot Props
	renderedProps    Props

	onResync func(context.Context, *Binding)
	metrics  MetricsProvider
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// OnResync sets the callback invoked after a tree commit resynced the
// snapshot. Hosts use it to schedule a render. Must be called before Mount().
func (b *Binding) OnResync(fn func(ctx context.Context, b *Binding)) *Binding {
	b.onResync = fn
	return b
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Mount().
func (b *Binding) Metrics(provider MetricsProvider) *Binding {
	if provider == nil {
		provider = NoOpMetricsProvider{}
	}
	b.metrics = provider
	return b
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Name returns the component name.
func (b *Binding) Name() string {
	return b.connector.Name()
}

// State returns the lifecycle state.
func (b *Binding) State() State {
	return b.state
}

// Scope returns the instance's scope, computed on first use and cached.
func (b *Binding) Scope() Scope {
	if !b.scoped {
		b.scope = ComputeScope(b.parent, b.connector.cfg.AddToScope, b.props)
		b.scoped = true
	}
	return b.scope
}

// Snapshot returns the tree-derived render state.
func (b *Binding) Snapshot() Props {
	return b.snapshot
}

// Handlers returns the resolved event handlers.
func (b *Binding) Handlers() Handlers {
	return b.handlers
}

// Props returns the props to render with: snapshot, then incoming props,
// then event handlers. The result is built fresh on every call.
func (b *Binding) Props() Props {
	out := Merge(b.snapshot, b.props)
	for name, h := range b.handlers {
		out[name] = h
	}
	return out
}

// -----------------------------------------------------------------------------
// Lifecycle Transitions
// -----------------------------------------------------------------------------

// Mount watches the TreeView and seeds the snapshot before the first render.
// Without a TreeView only incoming props drive rendering.
func (b *Binding) Mount(ctx context.Context) error {
	switch b.state {
	case StateMounted:
		return ErrAlreadyMounted
	case StateUnmounted:
		return ErrUnmounted
	}

	if b.view != nil {
		if err := b.view.Watch(b.handleChange); err != nil {
			return fmt.Errorf("watch %s: %w", b.Name(), err)
		}
	}
	b.sync(ctx)
	b.transition(ctx, StateMounted)
	capitan.Emit(ctx, BindingMounted,
		KeyComponent.Field(b.Name()),
	)
	return nil
}

// Update replaces the incoming props and resyncs, so prop-driven and
// tree-driven state never diverge. Resyncing an unchanged tree is
// idempotent.
func (b *Binding) Update(ctx context.Context, props Props) {
	if b.state == StateUnmounted {
		return
	}
	b.props = props
	b.sync(ctx)
}

// ShouldRender is the equality gate. It reports false when both the
// snapshot and the incoming props are shallow-equal to what the last
// render consumed.
func (b *Binding) ShouldRender() bool {
	if b.state == StateUnmounted {
		return false
	}
	if !b.rendered {
		return true
	}
	return !ShallowEqual(b.renderedSnapshot, b.snapshot) || !ShallowEqual(b.renderedProps, b.props)
}

// Skipped records that the host suppressed a render. The TreeView is not
// marked clean.
func (b *Binding) Skipped(ctx context.Context) {
	if b.state != StateMounted {
		return
	}
	capitan.Emit(ctx, BindingRenderSkipped,
		KeyComponent.Field(b.Name()),
	)
	b.metrics.OnRenderSkipped()
}

// Rendered acknowledges a committed render. It calls MarkClean exactly once
// per call and does nothing unless mounted.
func (b *Binding) Rendered(ctx context.Context) {
	if b.state != StateMounted {
		return
	}
	b.rendered = true
	b.renderedSnapshot = b.snapshot
	b.renderedProps = b.props
	if b.view != nil {
		b.view.MarkClean()
	}
	capitan.Emit(ctx, BindingRendered,
		KeyComponent.Field(b.Name()),
	)
	b.metrics.OnRender()
}

// Unmount unwatches the TreeView and makes the Binding terminal.
// Calling it more than once is harmless.
func (b *Binding) Unmount(ctx context.Context) {
	if b.state == StateUnmounted {
		return
	}
	if b.state == StateMounted && b.view != nil {
		b.view.Unwatch()
	}
	b.transition(ctx, StateUnmounted)
	capitan.Emit(ctx, BindingUnmounted,
		KeyComponent.Field(b.Name()),
	)
}

// handleChange is the TreeView callback. A notification that arrives after
// teardown is dropped.
func (b *Binding) handleChange(ctx context.Context) {
	if b.state != StateMounted {
		return
	}
	b.sync(ctx)
	if b.onResync != nil {
		b.onResync(ctx, b)
	}
}

// sync overwrites the snapshot with the TreeView's current value. The
// snapshot is replaced wholesale, never merged.
func (b *Binding) sync(ctx context.Context) {
	if b.view == nil {
		return
	}
	b.snapshot = b.view.Get()
	capitan.Emit(ctx, BindingResynced,
		KeyComponent.Field(b.Name()),
		KeyFields.Field(len(b.snapshot)),
	)
	b.metrics.OnResync(len(b.snapshot))
}

// transition updates the state and emits a state change event if changed.
func (b *Binding) transition(ctx context.Context, to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	capitan.Emit(ctx, BindingStateChanged,
		KeyComponent.Field(b.Name()),
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
	b.metrics.OnStateChange(from, to)
}
