package deepagent

import (
	"encoding/json"
	"time"
)

// TurnKind discriminates between transcript entry types.
type TurnKind string

const (
	TurnUser         TurnKind = "user"
	TurnAgent        TurnKind = "agent"
	TurnActionResult TurnKind = "action_result"
)

// ActionRequest is one operation requested by the oracle: a unique
// identifier, a target name (native primitive, delegated tool, or the spawn
// primitive), and an opaque argument bundle.
type ActionRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ActionStatus tags the outcome of an ActionRequest.
type ActionStatus string

const (
	ActionOK      ActionStatus = "ok"
	ActionFailed  ActionStatus = "error"
	ActionSkipped ActionStatus = "skipped" // respond decision: skipped by human
)

// ActionResult is the single outcome of an executed or skipped ActionRequest.
type ActionResult struct {
	RequestID string       `json:"request_id"`
	Status    ActionStatus `json:"status"`
	Content   string       `json:"content"`
}

// Failed reports whether the result carries an execution failure.
func (r ActionResult) Failed() bool { return r.Status == ActionFailed }

// Turn is a single entry in a session transcript. Turns are immutable once
// appended.
type Turn struct {
	Kind      TurnKind        `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Content   string          `json:"content,omitempty"`
	Actions   []ActionRequest `json:"actions,omitempty"` // agent turns only
	Result    *ActionResult   `json:"result,omitempty"`  // action-result turns only
}

// NewUserTurn creates a Turn wrapping user input.
func NewUserTurn(content string) Turn {
	return Turn{
		Kind:      TurnUser,
		Timestamp: time.Now(),
		Content:   content,
	}
}

// NewAgentTurn creates a Turn produced by the oracle, carrying its text and
// any requested actions.
func NewAgentTurn(content string, actions []ActionRequest) Turn {
	return Turn{
		Kind:      TurnAgent,
		Timestamp: time.Now(),
		Content:   content,
		Actions:   actions,
	}
}

// NewActionResultTurn creates a Turn wrapping one action result.
func NewActionResultTurn(result ActionResult) Turn {
	return Turn{
		Kind:      TurnActionResult,
		Timestamp: time.Now(),
		Result:    &result,
	}
}

// IsTerminal reports whether an agent turn ends the loop: no requested
// actions means the oracle produced a final answer.
func (t Turn) IsTerminal() bool {
	return t.Kind == TurnAgent && len(t.Actions) == 0
}
