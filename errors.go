package treehouse

import "errors"

var (
	// ErrAlreadyWatching is returned when Watch is called on a TreeView that
	// already has a callback.
	ErrAlreadyWatching = errors.New("tree view already watched")

	// ErrInvalidEventSpec is returned when an event spec is neither a mapping
	// nor a function producing one.
	ErrInvalidEventSpec = errors.New("invalid event spec")

	// ErrInvalidEventHandler is returned when an event mapping value is
	// neither an action name nor a function.
	ErrInvalidEventHandler = errors.New("invalid event handler")

	// ErrAlreadyMounted is returned when Mount is called twice.
	ErrAlreadyMounted = errors.New("binding already mounted")

	// ErrUnmounted is returned when Mount is called after Unmount.
	ErrUnmounted = errors.New("binding unmounted")
)
