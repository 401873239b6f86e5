package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/treehouse/tree"
)

// statusLog keeps the most recent store and feed events for the status
// line. Hooks may run on any goroutine.
type statusLog struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newStatusLog(max int) *statusLog {
	return &statusLog{max: max}
}

func (s *statusLog) add(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
	if len(s.lines) > s.max {
		s.lines = s.lines[len(s.lines)-s.max:]
	}
}

func (s *statusLog) recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// hook subscribes the log to the store and feed signals.
func (s *statusLog) hook() {
	capitan.Hook(tree.FeedStateChanged, func(_ context.Context, e *capitan.Event) {
		oldState, _ := tree.KeyOldState.From(e)
		newState, _ := tree.KeyNewState.From(e)
		s.add("feed %s -> %s", oldState, newState)
	})
	capitan.Hook(tree.FeedDecodeFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := tree.KeyError.From(e)
		s.add("rejected: %s", errMsg)
	})
	capitan.Hook(tree.FeedApplied, func(_ context.Context, _ *capitan.Event) {
		s.add("state file applied")
	})
	capitan.Hook(tree.ActionDispatched, func(_ context.Context, e *capitan.Event) {
		action, _ := tree.KeyAction.From(e)
		s.add("dispatch %s", action)
	})
	capitan.Hook(tree.ActionFailed, func(_ context.Context, e *capitan.Event) {
		action, _ := tree.KeyAction.From(e)
		errMsg, _ := tree.KeyError.From(e)
		s.add("%s failed: %s", action, errMsg)
	})
}
