package tree

import "github.com/zoobzio/capitan"

// Field keys for store and feed events.
var (
	// KeyChannels is the comma separated list of committed channels.
	KeyChannels = capitan.NewStringKey("channels")

	// KeyChanges is the number of changes in a commit.
	KeyChanges = capitan.NewIntKey("changes")

	// KeyNotified is the number of views notified by a commit.
	KeyNotified = capitan.NewIntKey("notified")

	// KeyAction is the dispatched action name.
	KeyAction = capitan.NewStringKey("action")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyState is the current state of a Feed.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyContentType is the MIME type of the feed codec.
	KeyContentType = capitan.NewStringKey("content_type")
)
