// Package tree provides an in-memory, channel-notifying tree store that
// implements treehouse.Store.
//
// # Data and Commits
//
// The tree is a nested map[string]any. Changes are pushed with a path, a value
// and the channels they touch, then committed as a batch:
//
//	app := tree.New()
//	app.Init(map[string]any{"fruit": "orange", "animal": "sheep"})
//	app.Push(tree.Change{Path: []string{"fruit"}, Value: "apple", Channels: []string{"fruit"}})
//	app.Commit(ctx)
//
// A commit notifies every watched view whose channels intersect the committed
// channels, exactly once, after all changes are applied. Writes are
// copy-on-write along the changed path, so a map read before a commit is
// never mutated by it.
//
// # Addressing
//
// Selectors address the tree with At (a literal path, listening on its first
// segment) or Query (a JSONPath expression evaluated with ojg, listening on
// its first child name):
//
//	func(t treehouse.Tree) map[string]treehouse.Branch {
//	    return map[string]treehouse.Branch{
//	        "theFruit": t.At("fruit"),
//	        "names":    t.Query("$.basket[*].name"),
//	    }
//	}
//
// # Actions
//
// Actions mutate the tree through a Tx and are committed when they succeed.
// Each action runs through a pipz pipeline that options can wrap:
//
//	app.RegisterAction("add", func(ctx context.Context, tx *tree.Tx, args ...any) error {
//	    n, _ := tx.Get("count").(int)
//	    tx.Set(n+args[0].(int), "count")
//	    return nil
//	}, tree.WithTimeout(time.Second))
//
// # Feeds
//
// A Feed watches an external source of state documents (file, channel, or a
// remote watcher from pkg/) and hands each decoded document to a callback;
// CommitTo commits documents into a branch of an App.
package tree
