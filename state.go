package treehouse

// State represents the lifecycle state of a Binding.
type State int32

const (
	// StateUnbound indicates the Binding has been constructed but not
	// mounted. Its TreeView exists but is not watched.
	StateUnbound State = iota

	// StateMounted indicates the Binding watches its TreeView and follows
	// tree commits.
	StateMounted

	// StateUnmounted indicates the Binding has been torn down. It is unbound
	// for good: no further resync or transition happens.
	StateUnmounted
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateMounted:
		return "mounted"
	case StateUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}
