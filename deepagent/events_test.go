package deepagent

import "testing"

func TestEmitterDeliversEvents(t *testing.T) {
	e := NewEventEmitter("sess-1", 4)
	e.Emit(EventSessionStart, map[string]interface{}{"depth": 0})
	e.Close()

	var events []SessionEvent
	for event := range e.Events() {
		events = append(events, event)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Kind != EventSessionStart {
		t.Errorf("expected session_start, got %q", events[0].Kind)
	}
	if events[0].SessionID != "sess-1" {
		t.Errorf("expected sess-1, got %q", events[0].SessionID)
	}
}

func TestEmitterDropsWhenFull(t *testing.T) {
	e := NewEventEmitter("sess-1", 2)
	for i := 0; i < 10; i++ {
		e.Emit(EventActionStart, nil) // must not block
	}
	e.Close()

	count := 0
	for range e.Events() {
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 buffered events, got %d", count)
	}
}

func TestEmitterEmitAfterClose(t *testing.T) {
	e := NewEventEmitter("sess-1", 2)
	e.Close()
	e.Emit(EventSessionEnd, nil) // must not panic
	e.Close()                    // idempotent
}
