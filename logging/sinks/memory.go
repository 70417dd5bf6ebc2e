package sinks

import (
	"context"
	"sync"

	"castlerush/logging"
)

// MemorySink buffers events in process memory. Tests wire it in place of
// the console/JSON sinks to assert a room emitted the right sequence of
// join/spawn/damage/countdown events without parsing log lines.
type MemorySink struct {
	mu     sync.RWMutex
	events []logging.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make([]logging.Event, 0)}
}

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, cloneForMemory(event))
	return nil
}

func (s *MemorySink) Events() []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]logging.Event, len(s.events))
	copy(copied, s.events)
	return copied
}

// EventsByActor returns, in order, every recorded event whose Actor
// matches kind — e.g. every event a test records with a castle actor,
// without also matching unit events. Only the Actor is compared: the
// room's castle-damage events name the attacking unit as actor and the
// castle as target, so they match EntityKindUnit, not EntityKindCastle.
func (s *MemorySink) EventsByActor(kind logging.EntityKind) []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []logging.Event
	for _, event := range s.events {
		if event.Actor.Kind == kind {
			out = append(out, cloneForMemory(event))
		}
	}
	return out
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}

func cloneForMemory(event logging.Event) logging.Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]logging.EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}
