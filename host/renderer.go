package host

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/zoobzio/treehouse"
)

// instance is one mounted component.
type instance struct {
	comp      *Component
	binding   *treehouse.Binding
	depth     int
	tree      *Node
	children  []*instance
	lastProps treehouse.Props
	dirty     bool
	queued    bool
	mounted   bool
}

// Renderer mounts a component hierarchy and keeps it in sync with the store.
//
// Tree commits resync the affected bindings. Outside Batch each resynced
// instance is re-rendered at once; inside Batch resynced instances are
// queued and flushed parents first, so a child already re-rendered by its
// parent is not rendered again. A Renderer is not safe for concurrent use.
type Renderer struct {
	root      *instance
	rootComp  *Component
	rootProps treehouse.Props

	batching int
	queue    []*instance
	errs     []error

	renders map[*Component]int
}

// New creates a Renderer for root with the given props.
func New(root *Component, props treehouse.Props) *Renderer {
	return &Renderer{
		rootComp:  root,
		rootProps: props,
		renders:   map[*Component]int{},
	}
}

// Mount constructs, mounts and renders the whole hierarchy.
func (r *Renderer) Mount(ctx context.Context) error {
	if r.root != nil {
		return errors.New("renderer already mounted")
	}
	root, err := r.mount(ctx, r.rootComp, r.rootProps, nil, 0)
	if err != nil {
		return err
	}
	r.root = root
	return nil
}

// Unmount tears the hierarchy down.
func (r *Renderer) Unmount(ctx context.Context) {
	if r.root == nil {
		return
	}
	r.unmount(ctx, r.root)
	r.root = nil
}

// Batch runs fn with re-renders deferred, then flushes them. Wrap store
// commits in Batch so each affected component renders at most once.
func (r *Renderer) Batch(ctx context.Context, fn func()) error {
	r.batching++
	func() {
		defer func() { r.batching-- }()
		fn()
	}()
	if r.batching > 0 {
		return nil
	}
	return r.flush(ctx)
}

// SetProps replaces the root props and re-renders the root if the gate
// allows it.
func (r *Renderer) SetProps(ctx context.Context, props treehouse.Props) error {
	r.rootProps = props
	if r.root == nil {
		return nil
	}
	r.root.binding.Update(ctx, props)
	return r.update(ctx, r.root)
}

// HTML returns the rendered hierarchy as markup.
func (r *Renderer) HTML() string {
	if r.root == nil {
		return ""
	}
	return r.root.tree.HTML()
}

// PlainText returns the rendered hierarchy as text.
func (r *Renderer) PlainText() string {
	if r.root == nil {
		return ""
	}
	return r.root.tree.PlainText()
}

// Inner returns the inner markup of the element with the given id, and
// whether it exists.
func (r *Renderer) Inner(id string) (string, bool) {
	if r.root == nil {
		return "", false
	}
	n := r.root.tree.find(id)
	if n == nil {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(html.EscapeString(n.Text))
	n.writeInner(&sb)
	return sb.String(), true
}

// RenderCount returns how many times c has rendered across all instances.
func (r *Renderer) RenderCount(c *Component) int {
	return r.renders[c]
}

// ResetCounts zeroes every render count.
func (r *Renderer) ResetCounts() {
	r.renders = map[*Component]int{}
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

func (r *Renderer) mount(ctx context.Context, comp *Component, props treehouse.Props, scope treehouse.Scope, depth int) (*instance, error) {
	b, err := comp.connector().New(ctx, scope, props)
	if err != nil {
		return nil, err
	}
	inst := &instance{comp: comp, binding: b, depth: depth}
	b.OnResync(func(ctx context.Context, _ *treehouse.Binding) {
		r.invalidate(ctx, inst)
	})
	if err := b.Mount(ctx); err != nil {
		return nil, fmt.Errorf("mount %s: %w", b.Name(), err)
	}
	inst.mounted = true
	if err := r.render(ctx, inst); err != nil {
		r.unmount(ctx, inst)
		return nil, err
	}
	return inst, nil
}

func (r *Renderer) unmount(ctx context.Context, inst *instance) {
	if !inst.mounted {
		return
	}
	inst.mounted = false
	inst.binding.Unmount(ctx)
	for _, child := range inst.children {
		r.unmount(ctx, child)
	}
	inst.children = nil
}

// render calls the component's Render, reconciles child components and
// acknowledges the render.
func (r *Renderer) render(ctx context.Context, inst *instance) error {
	props := inst.binding.Props()
	var out *Node
	if inst.comp.Render != nil {
		out = inst.comp.Render(props, inst.binding.Scope())
	}
	r.renders[inst.comp]++

	children, err := r.reconcile(ctx, inst, out)
	inst.tree = out
	inst.children = children
	inst.lastProps = props
	inst.dirty = false
	inst.binding.Rendered(ctx)
	return err
}

// reconcile matches the component placeholders in out against the
// instance's current children by position and component. Matches are
// updated in place; the rest are mounted or unmounted.
func (r *Renderer) reconcile(ctx context.Context, parent *instance, out *Node) ([]*instance, error) {
	placeholders := out.components(nil)
	old := parent.children
	next := make([]*instance, 0, len(placeholders))
	var errs []error

	for i, ph := range placeholders {
		if i < len(old) && old[i] != nil && old[i].comp == ph.component && old[i].mounted {
			child := old[i]
			old[i] = nil
			child.binding.Update(ctx, ph.props)
			if err := r.update(ctx, child); err != nil {
				errs = append(errs, err)
			}
			ph.instance = child
			next = append(next, child)
			continue
		}
		child, err := r.mount(ctx, ph.component, ph.props, parent.binding.Scope(), parent.depth+1)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ph.instance = child
		next = append(next, child)
	}

	for _, stale := range old {
		if stale != nil {
			r.unmount(ctx, stale)
		}
	}
	return next, errors.Join(errs...)
}

// update renders inst if the gate allows it.
func (r *Renderer) update(ctx context.Context, inst *instance) error {
	if !inst.mounted {
		return nil
	}
	if !r.shouldUpdate(inst) {
		inst.dirty = false
		inst.binding.Skipped(ctx)
		return nil
	}
	return r.render(ctx, inst)
}

func (r *Renderer) shouldUpdate(inst *instance) bool {
	if inst.comp.ShouldUpdate != nil {
		return inst.comp.ShouldUpdate(inst.lastProps, inst.binding.Props())
	}
	return inst.binding.ShouldRender()
}

// -----------------------------------------------------------------------------
// Scheduling
// -----------------------------------------------------------------------------

func (r *Renderer) invalidate(ctx context.Context, inst *instance) {
	if !inst.mounted {
		return
	}
	inst.dirty = true
	if r.batching > 0 {
		if !inst.queued {
			inst.queued = true
			r.queue = append(r.queue, inst)
		}
		return
	}
	if err := r.update(ctx, inst); err != nil {
		r.errs = append(r.errs, err)
	}
}

func (r *Renderer) flush(ctx context.Context) error {
	queue := r.queue
	r.queue = nil
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].depth < queue[j].depth
	})

	errs := r.errs
	r.errs = nil
	for _, inst := range queue {
		inst.queued = false
		if !inst.dirty {
			continue
		}
		if err := r.update(ctx, inst); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Err returns and clears errors raised by renders triggered outside Batch.
func (r *Renderer) Err() error {
	errs := r.errs
	r.errs = nil
	return errors.Join(errs...)
}
