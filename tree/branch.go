package tree

import (
	"github.com/ohler55/ojg/jp"
	"github.com/zoobzio/treehouse"
)

// resolver is implemented by branches that can be read against a pinned
// version of the tree.
type resolver interface {
	resolve(data map[string]any) any
}

// cursor is the treehouse.Tree handed to selectors.
type cursor struct {
	app *App
}

func (c cursor) At(path ...string) treehouse.Branch {
	return &pathBranch{app: c.app, path: append([]string(nil), path...)}
}

func (c cursor) Query(expr string) treehouse.Branch {
	x, err := jp.ParseString(expr)
	return &queryBranch{app: c.app, expr: expr, x: x, err: err}
}

// pathBranch reads a literal path and listens on its first segment.
type pathBranch struct {
	app  *App
	path []string
}

func (b *pathBranch) Value() any {
	b.app.mu.Lock()
	defer b.app.mu.Unlock()
	return b.resolve(b.app.data)
}

func (b *pathBranch) Channels() []string {
	if len(b.path) == 0 {
		return []string{AllChannels}
	}
	return []string{b.path[0]}
}

func (b *pathBranch) resolve(data map[string]any) any {
	v, _ := getIn(data, b.path)
	return v
}

// queryBranch evaluates a JSONPath expression. It returns every match as a
// []any and keeps returning the same slice while the matches are identical,
// so unchanged query results pass the equality gate.
type queryBranch struct {
	app  *App
	expr string
	x    jp.Expr
	err  error
	last []any
}

func (b *queryBranch) Value() any {
	b.app.mu.Lock()
	defer b.app.mu.Unlock()
	return b.resolve(b.app.data)
}

// Err returns the expression parse error, if any. A branch with a bad
// expression reads nil and listens on nothing.
func (b *queryBranch) Err() error {
	return b.err
}

func (b *queryBranch) Channels() []string {
	if b.err != nil {
		return nil
	}
	for _, frag := range b.x {
		switch f := frag.(type) {
		case jp.Root, jp.At:
			continue
		case jp.Child:
			return []string{string(f)}
		default:
			return []string{AllChannels}
		}
	}
	return []string{AllChannels}
}

func (b *queryBranch) resolve(data map[string]any) any {
	if b.err != nil {
		return nil
	}
	matches := b.x.Get(data)
	if sameMatches(b.last, matches) {
		return b.last
	}
	b.last = matches
	return matches
}

func sameMatches(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !treehouse.Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}
