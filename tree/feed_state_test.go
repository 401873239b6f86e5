package tree

import "testing"

func TestFeedState_String(t *testing.T) {
	tests := []struct {
		state FeedState
		want  string
	}{
		{FeedLoading, "loading"},
		{FeedHealthy, "healthy"},
		{FeedDegraded, "degraded"},
		{FeedEmpty, "empty"},
		{FeedState(999), "unknown"},
	}
	for _, tt := range tests {
		if s := tt.state.String(); s != tt.want {
			t.Errorf("expected %q, got %q", tt.want, s)
		}
	}
}
