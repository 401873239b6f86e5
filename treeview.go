package treehouse

import "context"

// Tree is the addressing primitive handed to a Selector.
type Tree interface {
	// At addresses the value at a literal path.
	At(path ...string) Branch

	// Query addresses every value matched by a path expression.
	// The expression syntax belongs to the store.
	Query(expr string) Branch
}

// Branch is a derived view of one location in the tree.
type Branch interface {
	// Value reads the current value at this location.
	Value() any

	// Channels lists the commit channels this branch listens on.
	Channels() []string
}

// Selector maps the tree into named branches. It runs once per TreeView;
// only the values behind the branches change afterwards.
type Selector func(t Tree) map[string]Branch

// TreeView is a live, lazily read projection of the tree owned by a single
// Binding. It is supplied by the store.
type TreeView interface {
	// Watch registers the single change callback. Watching a view that is
	// already watched returns ErrAlreadyWatching.
	Watch(fn func(ctx context.Context)) error

	// Unwatch removes the callback. No notification is delivered after
	// Unwatch returns.
	Unwatch()

	// Get computes the current snapshot by reading every selected branch.
	Get() Props

	// MarkClean acknowledges that the latest change has been consumed.
	MarkClean()
}

// Store is the tree store as seen by a Binding.
type Store interface {
	// Pick creates a TreeView from a selector.
	Pick(sel Selector) TreeView

	// Dispatch runs the named action with its arguments.
	Dispatch(ctx context.Context, action string, args ...any) error
}

// Bind creates the TreeView for a selector. It returns nil when sel is nil,
// in which case only incoming props drive rendering.
func Bind(store Store, sel Selector) TreeView {
	if sel == nil || store == nil {
		return nil
	}
	return store.Pick(sel)
}
