package deepagent

import (
	"sync"
	"time"
)

// EventKind identifies the type of session event.
type EventKind string

const (
	EventSessionStart     EventKind = "session_start"
	EventSessionEnd       EventKind = "session_end"
	EventOracleCall       EventKind = "oracle_call"
	EventAgentTurn        EventKind = "agent_turn"
	EventActionStart      EventKind = "action_start"
	EventActionEnd        EventKind = "action_end"
	EventInterruptRaised  EventKind = "interrupt_raised"
	EventInterruptResumed EventKind = "interrupt_resumed"
	EventSubAgentSpawn    EventKind = "subagent_spawn"
	EventSubAgentDone     EventKind = "subagent_done"
	EventError            EventKind = "error"
)

// SessionEvent is a typed event emitted by a session tree. Events from
// sub-agents carry the child's session ID in Data.
type SessionEvent struct {
	Kind      EventKind              `json:"kind"`
	Timestamp time.Time              `json:"timestamp"`
	SessionID string                 `json:"session_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventEmitter delivers typed events to the host application via a channel.
// One emitter serves a whole recursion tree.
type EventEmitter struct {
	sessionID string
	ch        chan SessionEvent
	closed    bool
	mu        sync.Mutex
}

// NewEventEmitter creates a new EventEmitter with a buffered channel.
func NewEventEmitter(sessionID string, bufferSize int) *EventEmitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &EventEmitter{
		sessionID: sessionID,
		ch:        make(chan SessionEvent, bufferSize),
	}
}

// Emit sends an event to the channel. Events are dropped rather than
// blocking the orchestration loop: if the emitter is closed or the channel
// is full, the event is discarded.
func (e *EventEmitter) Emit(kind EventKind, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	event := SessionEvent{
		Kind:      kind,
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Data:      data,
	}
	select {
	case e.ch <- event:
	default:
	}
}

// Events returns the read-only event channel.
func (e *EventEmitter) Events() <-chan SessionEvent {
	return e.ch
}

// Close closes the event channel. Safe to call multiple times.
func (e *EventEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
