package treehouse

// Scope is additive, inherited key-value context passed from a bound
// component to its descendants. A Scope is never mutated once built.
type Scope map[string]any

// ScopeFunc computes a component's scope additions from its props.
type ScopeFunc func(props Props) Scope

// Get returns the value for key and whether it is present.
func (s Scope) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// With returns a new Scope holding s overlaid by add.
func (s Scope) With(add Scope) Scope {
	out := make(Scope, len(s)+len(add))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range add {
		out[k] = v
	}
	return out
}

// ComputeScope composes a component's scope: the parent's scope overlaid by
// add(props). Without add the parent scope is forwarded unchanged. A nil
// parent is the empty scope.
func ComputeScope(parent Scope, add ScopeFunc, props Props) Scope {
	if add == nil {
		if parent == nil {
			return Scope{}
		}
		return parent
	}
	return parent.With(add(props))
}
