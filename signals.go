package treehouse

import "github.com/zoobzio/capitan"

// Binding lifecycle signals.
var (
	// BindingMounted is emitted when a Binding starts watching its TreeView.
	BindingMounted = capitan.NewSignal(
		"treehouse.binding.mounted",
		"Binding mounted",
	)

	// BindingUnmounted is emitted when a Binding is torn down.
	BindingUnmounted = capitan.NewSignal(
		"treehouse.binding.unmounted",
		"Binding unmounted",
	)

	// BindingStateChanged is emitted when a Binding transitions between states.
	BindingStateChanged = capitan.NewSignal(
		"treehouse.binding.state.changed",
		"Binding state transition",
	)
)

// Sync and render signals.
var (
	// BindingResynced is emitted when a Binding re-pulls its tree snapshot.
	BindingResynced = capitan.NewSignal(
		"treehouse.binding.resynced",
		"Snapshot pulled from tree view",
	)

	// BindingRendered is emitted when a render has been acknowledged.
	BindingRendered = capitan.NewSignal(
		"treehouse.binding.rendered",
		"Render acknowledged",
	)

	// BindingRenderSkipped is emitted when the equality gate suppressed a render.
	BindingRenderSkipped = capitan.NewSignal(
		"treehouse.binding.render.skipped",
		"Render suppressed by equality gate",
	)

	// BindingEventsFailed is emitted when an event spec fails to resolve.
	BindingEventsFailed = capitan.NewSignal(
		"treehouse.binding.events.failed",
		"Event spec resolution failed",
	)
)
