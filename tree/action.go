package tree

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
	"github.com/zoobzio/treehouse"
)

// ActionFunc mutates the tree through tx. Returning an error discards every
// change the action made.
type ActionFunc func(ctx context.Context, tx *Tx, args ...any) error

// Request carries one dispatch through an action's pipeline.
type Request struct {
	// Action is the dispatched action name.
	Action string

	// Args is the dispatch payload.
	Args []any

	// Tx collects the action's changes. Middleware may inspect or extend it.
	Tx *Tx
}

// Option configures the pipeline an action runs through.
type Option func(pipz.Chainable[*Request]) pipz.Chainable[*Request]

type action struct {
	name     string
	pipeline pipz.Chainable[*Request]
}

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[*Request], opts []Option) pipz.Chainable[*Request] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// RegisterAction registers fn under name, replacing any previous action with
// the same name.
func (a *App) RegisterAction(name string, fn ActionFunc, opts ...Option) {
	a.mu.Lock()
	a.actions[name] = &action{name: name, pipeline: buildPipeline(terminal(name, fn), opts)}
	a.mu.Unlock()
}

// terminal adapts fn into the last stage of a pipeline. A failed attempt
// rolls back its own writes, so retries and fallbacks start clean.
func terminal(name string, fn ActionFunc) pipz.Chainable[*Request] {
	return pipz.Effect(pipz.Name(name), func(ctx context.Context, req *Request) error {
		sp := req.Tx.save()
		if err := fn(ctx, req.Tx, req.Args...); err != nil {
			req.Tx.restore(sp)
			return err
		}
		return nil
	})
}

// Dispatch runs the named action and commits its changes on success.
func (a *App) Dispatch(ctx context.Context, name string, args ...any) error {
	a.mu.Lock()
	act, ok := a.actions[name]
	data := a.data
	a.mu.Unlock()

	if !ok {
		capitan.Emit(ctx, ActionFailed,
			KeyAction.Field(name),
			KeyError.Field(ErrUnknownAction.Error()),
		)
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	capitan.Emit(ctx, ActionDispatched,
		KeyAction.Field(name),
	)

	req := &Request{Action: name, Args: args, Tx: &Tx{data: data}}
	processed, err := act.pipeline.Process(ctx, req)
	if err != nil {
		capitan.Emit(ctx, ActionFailed,
			KeyAction.Field(name),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("action %s: %w", name, err)
	}
	if processed != nil {
		req = processed
	}

	if err := a.Push(req.Tx.Changes()...); err != nil {
		return fmt.Errorf("action %s: %w", name, err)
	}
	a.Commit(ctx)
	return nil
}

// Event returns a handler that dispatches name with the handler's arguments
// as the payload. Dispatches run under ctx.
func (a *App) Event(ctx context.Context, name string) treehouse.Handler {
	return func(args ...any) error {
		return a.Dispatch(ctx, name, args...)
	}
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------

// WithTimeout fails the action if it runs longer than d. Changes made by a
// timed out action are discarded.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithRetry retries a failed action immediately, up to maxAttempts runs in
// total.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff retries a failed action with exponentially growing delays:
// baseDelay, 2*baseDelay, 4*baseDelay and so on.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithFallback runs fallback when the action fails. The fallback sees the
// Tx as it was before the failed attempt.
func WithFallback(fallback ActionFunc) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewFallback("fallback", p, terminal("fallback", fallback))
	}
}

// WithCircuitBreaker rejects dispatches immediately after failures
// consecutive failures, until recovery has passed.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewCircuitBreaker("circuit-breaker", p, failures, recovery)
	}
}

// WithErrorHandler passes failures to handler for logging or alerting.
// The error still propagates to the dispatcher.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Request]]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// WithMiddleware runs processors in order before the action itself.
//
// Example:
//
//	app.RegisterAction("add", add,
//	    tree.WithMiddleware(
//	        tree.UseEffect("audit", auditFn),
//	        tree.UseApply("require-int", checkFn),
//	    ),
//	)
func WithMiddleware(processors ...pipz.Chainable[*Request]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		all := make([]pipz.Chainable[*Request], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors (Use*)
// -----------------------------------------------------------------------------

// UseEffect creates a processor that observes the request without changing it.
func UseEffect(name string, fn func(context.Context, *Request) error) pipz.Chainable[*Request] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseApply creates a processor that may rewrite the request or reject it.
func UseApply(name string, fn func(context.Context, *Request) (*Request, error)) pipz.Chainable[*Request] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseTransform creates a processor that rewrites the request and cannot fail.
func UseTransform(name string, fn func(context.Context, *Request) *Request) pipz.Chainable[*Request] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseMutate creates a processor that rewrites the request only when
// condition holds.
func UseMutate(name string, fn func(context.Context, *Request) *Request, condition func(context.Context, *Request) bool) pipz.Chainable[*Request] {
	return pipz.Mutate(pipz.Name(name), fn, condition)
}

// UseEnrich creates a processor whose failure is ignored: the request
// continues unchanged.
func UseEnrich(name string, fn func(context.Context, *Request) (*Request, error)) pipz.Chainable[*Request] {
	return pipz.Enrich(pipz.Name(name), fn)
}

// UseFilter runs processor only for requests matching condition; others
// pass through unchanged.
func UseFilter(name string, condition func(context.Context, *Request) bool, processor pipz.Chainable[*Request]) pipz.Chainable[*Request] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}

// UseRateLimit creates a token bucket limiter. Dispatches wait for a token
// when the bucket is empty.
func UseRateLimit(rate float64, burst int) pipz.Chainable[*Request] {
	return pipz.NewRateLimiter[*Request]("rate-limiter", rate, burst)
}
