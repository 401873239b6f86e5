package treehouse

import "github.com/zoobzio/capitan"

// Field keys for Binding events.
var (
	// KeyComponent is the name of the bound component.
	KeyComponent = capitan.NewStringKey("component")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyFields is the number of fields in a pulled snapshot.
	KeyFields = capitan.NewIntKey("fields")
)
