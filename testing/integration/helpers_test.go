package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/zoobzio/treehouse"
	"github.com/zoobzio/treehouse/host"
	"github.com/zoobzio/treehouse/tree"
)

// processUntil applies pending documents from a sync mode feed until
// condition holds or timeout is reached. Writes may surface as several
// file events, so intermediate documents are tolerated.
func processUntil(t *testing.T, f *tree.Feed, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		f.Process(ctx)
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// board is a page with a header bound to title and a counter bound to
// count, each rendered into an element with its own id.
type board struct {
	page, header, counter *host.Component
}

func newBoard(app *tree.App) *board {
	field := func(name, key string) *host.Component {
		return &host.Component{
			Connector: treehouse.Connect(app, treehouse.Config{
				Name: name,
				Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
					return map[string]treehouse.Branch{key: t.At(key)}
				},
			}),
			Render: func(props treehouse.Props, _ treehouse.Scope) *host.Node {
				return host.El("p", host.Text(fmt.Sprint(props[key]))).WithID(name)
			},
		}
	}
	b := &board{
		header:  field("header", "title"),
		counter: field("counter", "count"),
	}
	b.page = &host.Component{
		Name: "page",
		Render: func(_ treehouse.Props, _ treehouse.Scope) *host.Node {
			return host.El("div", host.Use(b.header, nil), host.Use(b.counter, nil))
		},
	}
	return b
}
