package host

import (
	"html"
	"strings"

	"github.com/zoobzio/treehouse"
)

// Node is an element of a rendered tree: a tag with children, a text leaf,
// or a placeholder for a child component.
type Node struct {
	Tag      string
	ID       string
	Text     string
	Children []*Node

	component *Component
	props     treehouse.Props
	instance  *instance
}

// El creates a tag node.
func El(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// Text creates a text leaf.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Use places a child component with the given props.
func Use(c *Component, props treehouse.Props) *Node {
	return &Node{component: c, props: props}
}

// WithID sets the node's id and returns it for chaining.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// Child appends children and returns the node for chaining.
func (n *Node) Child(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// HTML renders the node as markup.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.component != nil {
		if n.instance != nil {
			n.instance.tree.writeHTML(sb)
		}
		return
	}
	if n.Tag == "" {
		sb.WriteString(html.EscapeString(n.Text))
		for _, c := range n.Children {
			c.writeHTML(sb)
		}
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	if n.ID != "" {
		sb.WriteString(` id="`)
		sb.WriteString(html.EscapeString(n.ID))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	sb.WriteString(html.EscapeString(n.Text))
	n.writeInner(sb)
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

func (n *Node) writeInner(sb *strings.Builder) {
	for _, c := range n.Children {
		c.writeHTML(sb)
	}
}

// PlainText renders the node as text, one line per block element.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.writeText(&sb)
	return strings.TrimRight(sb.String(), "\n")
}

var blockTags = map[string]bool{
	"div": true, "p": true, "li": true, "section": true, "h1": true, "h2": true, "ul": true,
}

func (n *Node) writeText(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.component != nil {
		if n.instance != nil {
			n.instance.tree.writeText(sb)
		}
		return
	}
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		c.writeText(sb)
	}
	if blockTags[n.Tag] {
		s := sb.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			sb.WriteString("\n")
		}
	}
}

// find returns the first node with the given id, descending into child
// component output.
func (n *Node) find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.component != nil {
		if n.instance != nil {
			return n.instance.tree.find(id)
		}
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// components lists the component placeholders in document order without
// descending into them.
func (n *Node) components(out []*Node) []*Node {
	if n == nil {
		return out
	}
	if n.component != nil {
		return append(out, n)
	}
	for _, c := range n.Children {
		out = c.components(out)
	}
	return out
}
