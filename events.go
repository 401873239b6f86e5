package treehouse

import "fmt"

// Dispatch runs a named action against the store.
type Dispatch func(action string, args ...any) error

// Event returns a Handler that dispatches action with the handler's call
// arguments as the payload.
func (d Dispatch) Event(action string) Handler {
	return func(args ...any) error {
		return d(action, args...)
	}
}

// Handler is a resolved event handler. It receives whatever arguments the
// UI event supplies.
type Handler func(args ...any) error

// Handlers maps handler names to resolved handlers.
type Handlers map[string]Handler

// EventMap is the raw form of an event spec. Values may be an action name
// (string), a Handler, func(...any) error, func(...any), func() error,
// func(), or an EventHandler.
type EventMap map[string]any

// EventFunc produces an EventMap from the dispatcher and the component's
// scope. It runs once per component instance.
type EventFunc func(dispatch Dispatch, scope Scope) EventMap

// EventHandler is one entry of an event spec: either a named action
// dispatched without payload, or a callback invoked with the event's
// arguments.
type EventHandler struct {
	action   string
	callback Handler
}

// DispatchAction creates an EventHandler that dispatches the named action
// with no payload, ignoring any call arguments.
func DispatchAction(action string) EventHandler {
	return EventHandler{action: action}
}

// Callback creates an EventHandler that calls fn with the event's arguments.
// fn is responsible for dispatching.
func Callback(fn Handler) EventHandler {
	return EventHandler{callback: fn}
}

// Action returns the action name and true for a DispatchAction handler.
func (h EventHandler) Action() (string, bool) {
	return h.action, h.callback == nil
}

// bind turns the variant into a callable handler.
func (h EventHandler) bind(dispatch Dispatch) Handler {
	if h.callback != nil {
		return h.callback
	}
	action := h.action
	return func(...any) error {
		return dispatch(action)
	}
}

// ResolveEvents turns an event spec into concrete handlers.
//
// spec is an EventMap, a map[string]any, an EventFunc, or a function of the
// dispatcher (optionally with the scope) returning an EventMap. A nil spec
// resolves to no handlers. Any other spec, or an entry that is neither an
// action name nor a function, is a configuration error.
func ResolveEvents(spec any, dispatch Dispatch, scope Scope) (Handlers, error) {
	raw, err := rawEvents(spec, dispatch, scope)
	if err != nil {
		return nil, err
	}
	handlers := make(Handlers, len(raw))
	for name, value := range raw {
		h, err := toEventHandler(value)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", name, err)
		}
		handlers[name] = h.bind(dispatch)
	}
	return handlers, nil
}

func rawEvents(spec any, dispatch Dispatch, scope Scope) (map[string]any, error) {
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case EventMap:
		return s, nil
	case map[string]any:
		return s, nil
	case EventFunc:
		if s == nil {
			return nil, nil
		}
		return s(dispatch, scope), nil
	case func(Dispatch, Scope) EventMap:
		if s == nil {
			return nil, nil
		}
		return s(dispatch, scope), nil
	case func(Dispatch) EventMap:
		if s == nil {
			return nil, nil
		}
		return s(dispatch), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidEventSpec, spec)
	}
}

func toEventHandler(value any) (EventHandler, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return EventHandler{}, fmt.Errorf("%w: empty action name", ErrInvalidEventHandler)
		}
		return DispatchAction(v), nil
	case EventHandler:
		if v.callback == nil && v.action == "" {
			return EventHandler{}, fmt.Errorf("%w: zero EventHandler", ErrInvalidEventHandler)
		}
		return v, nil
	case Handler:
		if v != nil {
			return Callback(v), nil
		}
	case func(...any) error:
		if v != nil {
			return Callback(v), nil
		}
	case func(...any):
		if v != nil {
			return Callback(func(args ...any) error {
				v(args...)
				return nil
			}), nil
		}
	case func() error:
		if v != nil {
			return Callback(func(...any) error { return v() }), nil
		}
	case func():
		if v != nil {
			return Callback(func(...any) error {
				v()
				return nil
			}), nil
		}
	}
	return EventHandler{}, fmt.Errorf("%w: %T", ErrInvalidEventHandler, value)
}
