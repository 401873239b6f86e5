package tree

// FeedState represents the current state of a Feed.
type FeedState int32

const (
	// FeedLoading indicates the Feed has not processed a document yet.
	FeedLoading FeedState = iota

	// FeedHealthy indicates the last document was applied.
	FeedHealthy

	// FeedDegraded indicates the last document failed; the previously
	// applied document is still current.
	FeedDegraded

	// FeedEmpty indicates no document has ever been applied.
	FeedEmpty
)

// String returns the string representation of the state.
func (s FeedState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedHealthy:
		return "healthy"
	case FeedDegraded:
		return "degraded"
	case FeedEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
