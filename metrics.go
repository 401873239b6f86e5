package treehouse

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key binding events.
type MetricsProvider interface {
	// OnStateChange is called when a binding transitions between states.
	OnStateChange(from, to State)

	// OnResync is called after a snapshot is pulled from the tree view.
	// Fields is the number of fields in the snapshot.
	OnResync(fields int)

	// OnRender is called when a render is acknowledged.
	OnRender()

	// OnRenderSkipped is called when the equality gate suppresses a render.
	OnRenderSkipped()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State) {}
func (NoOpMetricsProvider) OnResync(_ int)           {}
func (NoOpMetricsProvider) OnRender()                {}
func (NoOpMetricsProvider) OnRenderSkipped()         {}
