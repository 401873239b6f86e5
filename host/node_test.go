package host

import "testing"

func TestNode_HTML(t *testing.T) {
	n := El("div",
		El("p", Text("a < b")).WithID("first"),
		El("ul", El("li", Text("one")), El("li", Text("two"))),
	).WithID("root")

	want := `<div id="root"><p id="first">a &lt; b</p><ul><li>one</li><li>two</li></ul></div>`
	if got := n.HTML(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNode_PlainText(t *testing.T) {
	n := El("div",
		El("h1", Text("Title")),
		El("p", Text("body "), El("span", Text("inline"))),
	)

	want := "Title\nbody inline"
	if got := n.PlainText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNode_Find(t *testing.T) {
	target := El("span", Text("x")).WithID("target")
	n := El("div", El("p", target))

	if got := n.find("target"); got != target {
		t.Errorf("expected to find target node, got %v", got)
	}
	if got := n.find("missing"); got != nil {
		t.Errorf("expected nil for missing id, got %v", got)
	}
}

func TestNode_ComponentsDoesNotDescend(t *testing.T) {
	c := &Component{Name: "c"}
	inner := Use(c, nil)
	n := El("div", Use(c, nil), El("p", inner))

	got := n.components(nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 placeholders, got %d", len(got))
	}
	if got[1] != inner {
		t.Error("expected placeholders in document order")
	}
}

func TestNode_Child(t *testing.T) {
	n := El("ul").Child(El("li", Text("a"))).Child(El("li", Text("b")))
	if len(n.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(n.Children))
	}
}

func TestNode_NilIsEmpty(t *testing.T) {
	var n *Node
	if got := n.HTML(); got != "" {
		t.Errorf("expected empty markup, got %q", got)
	}
}
