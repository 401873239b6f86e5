package treehouse

import "testing"

func TestComputeScope_Root(t *testing.T) {
	s := ComputeScope(nil, nil, nil)
	if s == nil {
		t.Fatal("expected empty scope, got nil")
	}
	if len(s) != 0 {
		t.Errorf("expected empty scope, got %v", s)
	}
}

func TestComputeScope_ForwardsParent(t *testing.T) {
	parent := Scope{"page": 2}
	s := ComputeScope(parent, nil, Props{"page": 9})
	if len(s) != 1 || s["page"] != 2 {
		t.Errorf("expected parent scope forwarded, got %v", s)
	}
}

func TestComputeScope_Adds(t *testing.T) {
	parent := Scope{"page": 2, "tab": 1}
	add := func(p Props) Scope { return Scope{"tab": p["tab"]} }

	s := ComputeScope(parent, add, Props{"tab": 6})
	if s["page"] != 2 || s["tab"] != 6 {
		t.Errorf("expected page=2 tab=6, got %v", s)
	}
	if parent["tab"] != 1 {
		t.Error("expected parent scope untouched")
	}
}

func TestComputeScope_AddsWithoutParent(t *testing.T) {
	add := func(Props) Scope { return Scope{"page": 2} }
	s := ComputeScope(nil, add, nil)
	if len(s) != 1 || s["page"] != 2 {
		t.Errorf("expected page=2, got %v", s)
	}
}

func TestComputeScope_NilAdditions(t *testing.T) {
	add := func(Props) Scope { return nil }
	s := ComputeScope(Scope{"page": 2}, add, nil)
	if len(s) != 1 || s["page"] != 2 {
		t.Errorf("expected page=2, got %v", s)
	}
}

func TestScope_Get(t *testing.T) {
	s := Scope{"tab": 6, "empty": nil}

	if v, ok := s.Get("tab"); !ok || v != 6 {
		t.Errorf("expected tab=6, got %v %v", v, ok)
	}
	if _, ok := s.Get("empty"); !ok {
		t.Error("expected key with nil value to be present")
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}

func TestScope_WithDoesNotMutate(t *testing.T) {
	base := Scope{"a": 1}
	next := base.With(Scope{"b": 2})

	if _, ok := base["b"]; ok {
		t.Error("expected base scope unchanged")
	}
	if next["a"] != 1 || next["b"] != 2 {
		t.Errorf("expected a=1 b=2, got %v", next)
	}
}
