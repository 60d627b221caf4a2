package deepagent

import "encoding/json"

// InterruptPolicy declares which resume decisions are permitted for an
// action name. "Ignore/skip without a response" is deliberately not a flag:
// a gated action always produces a result, human-authored if not executed.
type InterruptPolicy struct {
	AllowApprove bool `yaml:"approve"`
	AllowEdit    bool `yaml:"edit"`
	AllowRespond bool `yaml:"respond"`
}

// AllowAll is the boolean shorthand policy: approve, edit, and respond all
// permitted.
func AllowAll() InterruptPolicy {
	return InterruptPolicy{AllowApprove: true, AllowEdit: true, AllowRespond: true}
}

// PolicyTable maps action names to interrupt policies. Absence of an entry
// means unconditional approval.
type PolicyTable map[string]InterruptPolicy

// DecisionKind identifies a resume decision.
type DecisionKind string

const (
	DecisionApprove DecisionKind = "approve"
	DecisionEdit    DecisionKind = "edit"
	DecisionRespond DecisionKind = "respond"
)

// Decision is a caller-supplied resolution for a pending interrupt.
// Exactly one kind applies: approve dispatches the original request
// unchanged; edit dispatches a replacement target/arguments (the result
// stays correlated to the original request ID); respond skips execution and
// uses Response as the result content.
type Decision struct {
	Kind      DecisionKind    `json:"kind"`
	Name      string          `json:"name,omitempty"`      // edit: replacement target; empty keeps the original
	Arguments json.RawMessage `json:"arguments,omitempty"` // edit: replacement argument bundle
	Response  string          `json:"response,omitempty"`  // respond: human-authored result content
}

// PendingInterrupt snapshots one ActionRequest awaiting a resume decision.
// A recursion tree holds at most one.
type PendingInterrupt struct {
	SessionID string         `json:"session_id"`
	Request   ActionRequest  `json:"request"`
	Allowed   []DecisionKind `json:"allowed"`
}

// Allows reports whether a decision kind is in the allowed set.
func (p *PendingInterrupt) Allows(kind DecisionKind) bool {
	for _, k := range p.Allowed {
		if k == kind {
			return true
		}
	}
	return false
}

func (p InterruptPolicy) allowedKinds() []DecisionKind {
	var kinds []DecisionKind
	if p.AllowApprove {
		kinds = append(kinds, DecisionApprove)
	}
	if p.AllowEdit {
		kinds = append(kinds, DecisionEdit)
	}
	if p.AllowRespond {
		kinds = append(kinds, DecisionRespond)
	}
	return kinds
}

// interruptGate decides per action whether execution may proceed unattended.
type interruptGate struct {
	table PolicyTable
}

// evaluate returns nil when the action may proceed, or a PendingInterrupt
// describing the required approval.
func (g interruptGate) evaluate(sessionID string, req ActionRequest) *PendingInterrupt {
	policy, ok := g.table[req.Name]
	if !ok {
		return nil
	}
	return &PendingInterrupt{
		SessionID: sessionID,
		Request:   req,
		Allowed:   policy.allowedKinds(),
	}
}

// validateDecision checks a resume decision against the pending interrupt's
// allowed set. Rejection happens before any mutation, leaving the pending
// interrupt intact.
func validateDecision(p *PendingInterrupt, d Decision) error {
	switch d.Kind {
	case DecisionApprove, DecisionEdit, DecisionRespond:
	default:
		return validationErrorf("unknown decision kind %q", d.Kind)
	}
	if !p.Allows(d.Kind) {
		return validationErrorf("decision kind %q not permitted for action %q (allowed: %v)", d.Kind, p.Request.Name, p.Allowed)
	}
	if d.Kind == DecisionEdit && len(d.Arguments) == 0 {
		return validationErrorf("edit decision requires a replacement argument bundle")
	}
	return nil
}
