package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/treehouse"
	"github.com/zoobzio/treehouse/host"
	"github.com/zoobzio/treehouse/tree"
)

// fruits is the cycle addFruit draws from.
var fruits = []string{"apple", "orange", "pear", "plum", "fig"}

// defaultState seeds a state file that does not exist yet.
func defaultState(title string) tree.Document {
	return tree.Document{
		"title":   title,
		"counter": 0,
		"basket":  []any{"apple"},
	}
}

var errBasketFull = errors.New("basket is full")

// registerActions installs the demo actions on app.
func registerActions(app *tree.App) {
	app.RegisterAction("increment", func(_ context.Context, tx *tree.Tx, args ...any) error {
		return tx.Set(toInt(tx.Get("counter"))+step(args), "counter")
	}, tree.WithTimeout(time.Second))

	app.RegisterAction("decrement", func(_ context.Context, tx *tree.Tx, args ...any) error {
		return tx.Set(toInt(tx.Get("counter"))-step(args), "counter")
	}, tree.WithMiddleware(
		tree.UseTransform("floor", func(_ context.Context, req *tree.Request) *tree.Request {
			if toInt(req.Tx.Get("counter")) <= 0 {
				req.Args = []any{0}
			}
			return req
		}),
	))

	app.RegisterAction("reset", func(_ context.Context, tx *tree.Tx, _ ...any) error {
		return tx.Set(0, "counter")
	})

	app.RegisterAction("addFruit", func(_ context.Context, tx *tree.Tx, _ ...any) error {
		basket, _ := tx.Get("basket").([]any)
		if len(basket) >= 2*len(fruits) {
			return errBasketFull
		}
		next := make([]any, len(basket), len(basket)+1)
		copy(next, basket)
		next = append(next, fruits[len(basket)%len(fruits)])
		return tx.Set(next, "basket")
	})

	app.RegisterAction("emptyBasket", func(_ context.Context, tx *tree.Tx, _ ...any) error {
		return tx.Set([]any{}, "basket")
	})
}

// step reads an optional int payload, defaulting to 1.
func step(args []any) int {
	if len(args) == 0 {
		return 1
	}
	if n, ok := args[0].(int); ok {
		return n
	}
	return 1
}

// toInt normalizes numbers decoded from JSON or YAML.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// keymap collects the handlers the current render exposed, by key.
type keymap map[string]treehouse.Handler

func (k keymap) bind(key string, props treehouse.Props, name string) {
	if h, ok := props[name].(treehouse.Handler); ok {
		k[key] = h
	}
}

// newPage builds the demo component tree. Rendering registers each
// component's handlers in keys.
func newPage(app *tree.App, keys keymap) *host.Component {
	counter := &host.Component{
		Connector: treehouse.Connect(app, treehouse.Config{
			Name: "counter",
			Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
				return map[string]treehouse.Branch{"count": t.At("counter")}
			},
			Events: treehouse.EventMap{
				"increment": "increment",
				"decrement": "decrement",
				"reset":     treehouse.DispatchAction("reset"),
			},
		}),
		Render: func(props treehouse.Props, scope treehouse.Scope) *host.Node {
			keys.bind("+", props, "increment")
			keys.bind("-", props, "decrement")
			keys.bind("0", props, "reset")
			source, _ := scope.Get("source")
			return host.El("p",
				host.Text(fmt.Sprintf("count %d", toInt(props["count"]))),
				host.El("span", host.Text(fmt.Sprintf(" (%v)", source))),
			).WithID("counter")
		},
	}

	basket := &host.Component{
		Connector: treehouse.Connect(app, treehouse.Config{
			Name: "basket",
			Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
				return map[string]treehouse.Branch{"items": t.Query("$.basket[*]")}
			},
			Events: treehouse.EventFunc(func(dispatch treehouse.Dispatch, _ treehouse.Scope) treehouse.EventMap {
				return treehouse.EventMap{
					"add":   dispatch.Event("addFruit"),
					"empty": func() error { return dispatch("emptyBasket") },
				}
			}),
		}),
		Render: func(props treehouse.Props, _ treehouse.Scope) *host.Node {
			keys.bind("a", props, "add")
			keys.bind("e", props, "empty")
			items, _ := props["items"].([]any)
			list := host.El("ul").WithID("basket")
			for _, item := range items {
				list.Child(host.El("li", host.Text(fmt.Sprint(item))))
			}
			return list
		},
	}

	return &host.Component{
		Connector: treehouse.Connect(app, treehouse.Config{
			Name: "page",
			Pick: func(t treehouse.Tree) map[string]treehouse.Branch {
				return map[string]treehouse.Branch{"title": t.At("title")}
			},
			AddToScope: func(props treehouse.Props) treehouse.Scope {
				return treehouse.Scope{"source": props["source"]}
			},
		}),
		Render: func(props treehouse.Props, _ treehouse.Scope) *host.Node {
			title, _ := props["title"].(string)
			return host.El("div",
				host.El("h1", host.Text(title)).WithID("title"),
				host.Use(counter, nil),
				host.Use(basket, nil),
			)
		},
	}
}
