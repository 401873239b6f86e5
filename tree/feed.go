package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/treehouse"
)

// DefaultDebounce is the default debounce duration for document processing.
const DefaultDebounce = 100 * time.Millisecond

// Document is a decoded state document.
type Document = map[string]any

// ApplyFunc receives the previously applied document (nil the first time)
// and the new one. Returning an error keeps the previous document current.
type ApplyFunc func(ctx context.Context, prev, curr Document) error

// Feed watches a source of state documents, decodes each one and hands it to
// an ApplyFunc. A document that fails to decode or apply leaves the previous
// one in place and moves the Feed to a degraded state.
type Feed struct {
	watcher        Watcher
	apply          ApplyFunc
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	onStop         func(FeedState)

	state        atomic.Int32
	current      atomic.Pointer[Document]
	lastError    atomic.Pointer[error]
	errorHistory *errorRing

	mu      sync.Mutex
	started bool
	changes <-chan []byte
}

// NewFeed creates a Feed that applies documents from watcher with apply.
//
// Example:
//
//	feed := tree.NewFeed(tree.NewFileWatcher("state.yaml"), tree.CommitTo(app)).
//	    Codec(tree.YAMLCodec{}).
//	    Debounce(50 * time.Millisecond)
func NewFeed(watcher Watcher, apply ApplyFunc) *Feed {
	f := &Feed{
		watcher:  watcher,
		apply:    apply,
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		codec:    JSONCodec{},
	}
	f.state.Store(int32(FeedLoading))
	return f
}

// CommitTo returns an ApplyFunc that commits each document into app under
// path. An empty path replaces the whole tree and only touches the
// top-level channels whose values changed.
func CommitTo(app *App, path ...string) ApplyFunc {
	return func(ctx context.Context, _, curr Document) error {
		c := Change{Path: path, Value: curr}
		if len(path) == 0 {
			if curr == nil {
				curr = Document{}
			}
			c.Value = curr
			c.Channels = changedKeys(app.Data(), curr)
			if len(c.Channels) == 0 {
				return nil
			}
		}
		if err := app.Push(c); err != nil {
			return err
		}
		app.Commit(ctx)
		return nil
	}
}

// changedKeys lists the top-level keys whose values differ between a and b.
func changedKeys(a, b map[string]any) []string {
	var keys []string
	for k, av := range a {
		if bv, ok := b[k]; !ok || !treehouse.Identical(av, bv) {
			keys = append(keys, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets how long to wait for further documents before applying the
// latest one. Must be called before Start().
func (f *Feed) Debounce(d time.Duration) *Feed {
	f.debounce = d
	return f
}

// SyncMode processes documents only through Process, without goroutines or
// debouncing. Must be called before Start().
func (f *Feed) SyncMode() *Feed {
	f.syncMode = true
	return f
}

// Clock sets the clock used for debouncing and the startup timeout.
// Must be called before Start().
func (f *Feed) Clock(clock clockz.Clock) *Feed {
	f.clock = clock
	return f
}

// Codec sets the document codec. Default: JSONCodec. Must be called before
// Start().
func (f *Feed) Codec(codec Codec) *Feed {
	f.codec = codec
	return f
}

// StartupTimeout bounds the wait for the first document. Default: no
// timeout. Must be called before Start().
func (f *Feed) StartupTimeout(d time.Duration) *Feed {
	f.startupTimeout = d
	return f
}

// OnStop sets a callback invoked with the final state when watching stops.
// Must be called before Start().
func (f *Feed) OnStop(fn func(FeedState)) *Feed {
	f.onStop = fn
	return f
}

// ErrorHistorySize keeps the last n errors for ErrorHistory. Must be called
// before Start().
func (f *Feed) ErrorHistorySize(n int) *Feed {
	f.errorHistory = newErrorRing(n)
	return f
}

// State returns the current state.
func (f *Feed) State() FeedState {
	return FeedState(f.state.Load())
}

// Current returns the last applied document and true, or nil and false.
func (f *Feed) Current() (Document, bool) {
	ptr := f.current.Load()
	if ptr == nil {
		return nil, false
	}
	return *ptr, true
}

// LastError returns the last error, or nil after a successful apply.
func (f *Feed) LastError() error {
	ptr := f.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent errors, oldest first, or nil when history is
// disabled.
func (f *Feed) ErrorHistory() []error {
	return f.errorHistory.all()
}

// Start begins watching. It blocks until the first document has been
// processed and returns that document's error, if any; watching continues
// in the background either way. In sync mode only the first document is
// processed; use Process for the rest. Start can only be called once.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return errors.New("feed already started")
	}
	f.started = true
	f.mu.Unlock()

	capitan.Emit(ctx, FeedStarted,
		KeyDebounce.Field(f.debounce),
		KeyContentType.Field(f.codec.ContentType()),
	)

	changes, err := f.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	startCtx := ctx
	if f.startupTimeout > 0 {
		var cancel context.CancelFunc
		startCtx, cancel = f.clock.WithTimeout(ctx, f.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startCtx.Done():
		if f.startupTimeout > 0 && errors.Is(startCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("startup timeout: no document within %v", f.startupTimeout)
		}
		return startCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting a document")
		}
		capitan.Emit(ctx, FeedChangeReceived)
		initialErr = f.process(ctx, raw)
	}

	if f.syncMode {
		f.changes = changes
		return initialErr
	}

	go f.watch(ctx, changes)
	return initialErr
}

// Process applies the next pending document in sync mode. It reports false
// when no document is waiting or the watcher has closed.
func (f *Feed) Process(ctx context.Context) bool {
	if !f.syncMode {
		return false
	}
	select {
	case raw, ok := <-f.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, FeedChangeReceived)
		_ = f.process(ctx, raw) //nolint:errcheck // recorded via fail
		return true
	default:
		return false
	}
}

func (f *Feed) process(ctx context.Context, raw []byte) error {
	from := f.State()

	var doc Document
	if err := f.codec.Unmarshal(raw, &doc); err != nil {
		f.fail(ctx, from, FeedDecodeFailed, err)
		return fmt.Errorf("decode failed: %w", err)
	}
	if doc == nil {
		err := errors.New("document is empty")
		f.fail(ctx, from, FeedDecodeFailed, err)
		return fmt.Errorf("decode failed: %w", err)
	}

	var prev Document
	if ptr := f.current.Load(); ptr != nil {
		prev = *ptr
	}
	if err := f.apply(ctx, prev, doc); err != nil {
		f.fail(ctx, from, FeedApplyFailed, err)
		return fmt.Errorf("apply failed: %w", err)
	}

	f.current.Store(&doc)
	f.lastError.Store(nil)
	f.errorHistory.clear()
	f.transition(ctx, from, FeedHealthy)
	capitan.Emit(ctx, FeedApplied)
	return nil
}

func (f *Feed) fail(ctx context.Context, from FeedState, sig capitan.Signal, err error) {
	e := err
	f.lastError.Store(&e)
	f.errorHistory.push(err)

	to := FeedDegraded
	if f.current.Load() == nil {
		to = FeedEmpty
	}
	f.transition(ctx, from, to)
	capitan.Emit(ctx, sig,
		KeyError.Field(err.Error()),
	)
}

func (f *Feed) transition(ctx context.Context, from, to FeedState) {
	if from == to {
		return
	}
	f.state.Store(int32(to))
	capitan.Emit(ctx, FeedStateChanged,
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
}

// watch applies documents with debouncing until ctx ends or the watcher
// closes. A document still pending when the watcher closes is applied.
func (f *Feed) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		final := f.State()
		capitan.Emit(ctx, FeedStopped,
			KeyState.Field(final.String()),
		)
		if f.onStop != nil {
			f.onStop(final)
		}
	}()

	var (
		timer   clockz.Timer
		pending []byte
	)

	for {
		var fire <-chan time.Time
		if timer != nil {
			fire = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if pending != nil {
					_ = f.process(ctx, pending) //nolint:errcheck // recorded via fail
				}
				return
			}
			capitan.Emit(ctx, FeedChangeReceived)
			pending = raw

			if timer == nil {
				timer = f.clock.NewTimer(f.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C():
				default:
				}
			}
			timer.Reset(f.debounce)

		case <-fire:
			if pending != nil {
				_ = f.process(ctx, pending) //nolint:errcheck // recorded via fail
				pending = nil
			}
		}
	}
}
