package tree

import "errors"

var (
	// ErrUnknownAction is returned when dispatching an action that was never
	// registered.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidChange is returned by Push for a change that cannot be applied.
	ErrInvalidChange = errors.New("invalid change")

	// ErrNilCallback is returned by Watch when the callback is nil.
	ErrNilCallback = errors.New("nil watch callback")
)
