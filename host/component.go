package host

import "github.com/zoobzio/treehouse"

// Component is a renderable component bound to the store.
type Component struct {
	// Name labels an unbound component. Bound components take their name
	// from the Connector.
	Name string

	// Connector binds the component. Nil means an unbound component that
	// renders from props alone.
	Connector *treehouse.Connector

	// Render builds the component's output from its merged props and scope.
	Render func(props treehouse.Props, scope treehouse.Scope) *Node

	// ShouldUpdate overrides the equality gate. It receives the props of
	// the last render and the props about to be rendered.
	ShouldUpdate func(prev, next treehouse.Props) bool
}

func (c *Component) connector() *treehouse.Connector {
	if c.Connector == nil {
		return treehouse.Connect(nil, treehouse.Config{Name: c.Name})
	}
	return c.Connector
}
