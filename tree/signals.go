package tree

import "github.com/zoobzio/capitan"

// Store signals.
var (
	// TreeCommitted is emitted after a commit is applied, before watchers
	// are notified.
	TreeCommitted = capitan.NewSignal(
		"treehouse.tree.committed",
		"Pending changes committed",
	)

	// ActionDispatched is emitted when an action starts.
	ActionDispatched = capitan.NewSignal(
		"treehouse.tree.action.dispatched",
		"Action dispatched",
	)

	// ActionFailed is emitted when an action is unknown or fails.
	ActionFailed = capitan.NewSignal(
		"treehouse.tree.action.failed",
		"Action failed",
	)
)

// Feed signals.
var (
	// FeedStarted is emitted when a Feed begins watching.
	FeedStarted = capitan.NewSignal(
		"treehouse.feed.started",
		"Feed watching started",
	)

	// FeedStopped is emitted when a Feed stops watching.
	FeedStopped = capitan.NewSignal(
		"treehouse.feed.stopped",
		"Feed watching stopped",
	)

	// FeedStateChanged is emitted when a Feed transitions between states.
	FeedStateChanged = capitan.NewSignal(
		"treehouse.feed.state.changed",
		"Feed state transition",
	)

	// FeedChangeReceived is emitted when a raw document arrives.
	FeedChangeReceived = capitan.NewSignal(
		"treehouse.feed.change.received",
		"Raw document received from watcher",
	)

	// FeedDecodeFailed is emitted when a document cannot be decoded.
	FeedDecodeFailed = capitan.NewSignal(
		"treehouse.feed.decode.failed",
		"Document decode failed",
	)

	// FeedApplyFailed is emitted when the feed callback rejects a document.
	FeedApplyFailed = capitan.NewSignal(
		"treehouse.feed.apply.failed",
		"Document apply failed",
	)

	// FeedApplied is emitted when a document is applied.
	FeedApplied = capitan.NewSignal(
		"treehouse.feed.applied",
		"Document applied",
	)
)
