package deepagent

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/youssef-mostafa25/deepagents/oracle"
)

// RunStatus describes how a Run or Resume call returned.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunSuspended RunStatus = "suspended"
	RunCancelled RunStatus = "cancelled"
)

// RunResult is the outcome of driving a session until it completes, suspends
// on an interrupt, or observes context cancellation.
type RunResult struct {
	Status      RunStatus
	FinalAnswer string            // completed: the oracle's terminal message
	Interrupt   *PendingInterrupt // suspended: the action awaiting a decision
}

// batchState tracks progress through one agent turn's requested actions, so
// a suspended batch resumes exactly where it stopped.
type batchState struct {
	requests []ActionRequest
	next     int
}

// Session is one running agent conversation: a transcript, a workspace
// shared with its recursion tree, and the loop that drives the oracle and
// dispatches its requested actions. Sessions are created through Agent and
// are safe for use from one goroutine at a time; Run and Resume serialize
// on an internal lock.
type Session struct {
	id           string
	cfg          Config
	oracle       Oracle
	tools        *ToolRegistry
	subagents    map[string]*SubAgentSpec
	instructions string
	workspace    *Workspace
	emitter      *EventEmitter
	gate         interruptGate
	depth        int

	mu             sync.Mutex
	iterations     int
	transcript     []Turn
	pending        *PendingInterrupt
	batch          *batchState
	suspendedChild *Session
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Depth returns the session's nesting level; the top-level session is 0.
func (s *Session) Depth() int { return s.depth }

// Workspace returns the store shared by this session's recursion tree.
func (s *Session) Workspace() *Workspace { return s.workspace }

// Events returns the event channel for this session's recursion tree.
func (s *Session) Events() <-chan SessionEvent { return s.emitter.Events() }

// Transcript returns a copy of the transcript so far.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Pending returns the interrupt this session is suspended on, or nil. For an
// interrupt raised inside a sub-agent, call Pending on the top-level session;
// it reports the descendant's interrupt.
func (s *Session) Pending() *PendingInterrupt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspendedChild != nil {
		return s.suspendedChild.Pending()
	}
	return s.pending
}

// Run drives the session on the given user input until the oracle produces a
// terminal turn, an interrupt suspends the tree, or ctx is cancelled. A
// returned error is fatal and leaves the session unusable.
func (s *Session) Run(ctx context.Context, input string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil || s.suspendedChild != nil {
		return nil, configErrorf("session %s is suspended; call Resume", s.id)
	}

	s.emitter.Emit(EventSessionStart, map[string]interface{}{
		"session_id": s.id,
		"depth":      s.depth,
	})
	s.transcript = append(s.transcript, NewUserTurn(input))
	return s.loop(ctx)
}

// Resume resolves the tree's pending interrupt with the given decision and
// drives the session onward. An invalid decision returns a ValidationError
// and leaves the interrupt pending, so the caller can try again.
func (s *Session) Resume(ctx context.Context, d Decision) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume(ctx, d)
}

func (s *Session) resume(ctx context.Context, d Decision) (*RunResult, error) {
	if s.suspendedChild != nil {
		return s.resumeChild(ctx, d)
	}
	if s.pending == nil {
		return nil, validationErrorf("session %s has no pending interrupt", s.id)
	}
	if err := validateDecision(s.pending, d); err != nil {
		return nil, err
	}

	req := s.pending.Request
	s.pending = nil
	s.emitter.Emit(EventInterruptResumed, map[string]interface{}{
		"session_id": s.id,
		"request_id": req.ID,
		"decision":   string(d.Kind),
	})

	var result ActionResult
	switch d.Kind {
	case DecisionApprove, DecisionEdit:
		if d.Kind == DecisionEdit {
			// The result stays correlated to the original request ID even
			// when the human redirected the action.
			if d.Name != "" {
				req.Name = d.Name
			}
			req.Arguments = d.Arguments
		}
		var susp *suspension
		var err error
		result, susp, err = s.dispatchAction(ctx, req)
		if err != nil {
			return nil, err
		}
		if susp != nil {
			s.suspendedChild = susp.child
			return &RunResult{Status: RunSuspended, Interrupt: susp.pending}, nil
		}
	case DecisionRespond:
		result = ActionResult{RequestID: req.ID, Status: ActionSkipped, Content: d.Response}
	}

	s.transcript = append(s.transcript, NewActionResultTurn(result))
	s.batch.next++
	return s.continueBatch(ctx)
}

// resumeChild routes a decision down to the suspended descendant and folds
// its eventual final answer back in as this session's task result.
func (s *Session) resumeChild(ctx context.Context, d Decision) (*RunResult, error) {
	child := s.suspendedChild
	res, err := child.Resume(ctx, d)
	if err != nil {
		// A ValidationError here means a bad decision: the child's interrupt
		// is still pending and the caller can retry. Anything else is fatal.
		return nil, err
	}
	switch res.Status {
	case RunSuspended:
		return &RunResult{Status: RunSuspended, Interrupt: res.Interrupt}, nil
	case RunCancelled:
		return res, nil
	}

	s.suspendedChild = nil
	s.emitter.Emit(EventSubAgentDone, map[string]interface{}{
		"session_id": s.id,
		"child_id":   child.id,
	})
	req := s.batch.requests[s.batch.next]
	s.transcript = append(s.transcript, NewActionResultTurn(ActionResult{
		RequestID: req.ID,
		Status:    ActionOK,
		Content:   res.FinalAnswer,
	}))
	s.batch.next++
	return s.continueBatch(ctx)
}

// loop is the core orchestration cycle: ask the oracle, dispatch what it
// requested, repeat until a terminal turn.
func (s *Session) loop(ctx context.Context) (*RunResult, error) {
	for {
		if ctx.Err() != nil {
			return &RunResult{Status: RunCancelled}, nil
		}
		s.iterations++
		if s.iterations > s.cfg.MaxIterations {
			return nil, &RecursionLimitError{
				SessionID: s.id,
				Depth:     s.depth,
				Limit:     s.cfg.MaxIterations,
				Kind:      "iterations",
			}
		}

		s.emitter.Emit(EventOracleCall, map[string]interface{}{
			"session_id": s.id,
			"iteration":  s.iterations,
		})
		turn, err := s.oracle.Decide(ctx, s.oracleInput())
		if err != nil {
			return nil, err
		}
		s.transcript = append(s.transcript, turn)
		s.emitter.Emit(EventAgentTurn, map[string]interface{}{
			"session_id": s.id,
			"actions":    len(turn.Actions),
		})

		if turn.IsTerminal() {
			s.emitter.Emit(EventSessionEnd, map[string]interface{}{
				"session_id": s.id,
			})
			return &RunResult{Status: RunCompleted, FinalAnswer: turn.Content}, nil
		}

		s.batch = &batchState{requests: turn.Actions}
		res, err := s.dispatchBatch(ctx)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
}

// continueBatch finishes the interrupted batch, then re-enters the loop.
func (s *Session) continueBatch(ctx context.Context) (*RunResult, error) {
	res, err := s.dispatchBatch(ctx)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return s.loop(ctx)
}

// dispatchBatch executes the current batch from where it left off. It
// returns a non-nil RunResult when the batch suspended or was cancelled, and
// nil when every result has been appended.
func (s *Session) dispatchBatch(ctx context.Context) (*RunResult, error) {
	b := s.batch
	if b == nil {
		return nil, nil
	}

	if b.next == 0 {
		gated := 0
		for _, req := range b.requests {
			if _, ok := s.gate.table[req.Name]; ok {
				gated++
			}
		}
		if gated > 1 {
			return nil, configErrorf("batch requests %d interrupt-gated actions; at most one is supported", gated)
		}
		if gated == 0 && s.cfg.ParallelActions && len(b.requests) > 1 && !batchSpawns(b.requests) {
			if err := s.dispatchParallel(ctx, b.requests); err != nil {
				return nil, err
			}
			s.batch = nil
			return nil, nil
		}
	}

	for b.next < len(b.requests) {
		if ctx.Err() != nil {
			return &RunResult{Status: RunCancelled}, nil
		}
		req := b.requests[b.next]

		if pending := s.gate.evaluate(s.id, req); pending != nil {
			s.pending = pending
			s.emitter.Emit(EventInterruptRaised, map[string]interface{}{
				"session_id": s.id,
				"request_id": req.ID,
				"action":     req.Name,
			})
			return &RunResult{Status: RunSuspended, Interrupt: pending}, nil
		}

		result, susp, err := s.dispatchAction(ctx, req)
		if err != nil {
			return nil, err
		}
		if susp != nil {
			s.suspendedChild = susp.child
			return &RunResult{Status: RunSuspended, Interrupt: susp.pending}, nil
		}
		s.transcript = append(s.transcript, NewActionResultTurn(result))
		b.next++
	}

	s.batch = nil
	return nil, nil
}

func batchSpawns(requests []ActionRequest) bool {
	for _, req := range requests {
		if req.Name == ToolTask {
			return true
		}
	}
	return false
}

// dispatchParallel runs an ungated, spawn-free batch concurrently. Results
// are appended to the transcript in request order regardless of completion
// order.
func (s *Session) dispatchParallel(ctx context.Context, requests []ActionRequest) error {
	results := make([]ActionResult, len(requests))
	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req ActionRequest) {
			defer wg.Done()
			results[i], _, errs[i] = s.dispatchAction(ctx, req)
		}(i, req)
	}
	wg.Wait()

	for i := range requests {
		if errs[i] != nil {
			return errs[i]
		}
		s.transcript = append(s.transcript, NewActionResultTurn(results[i]))
	}
	return nil
}

// oracleInput assembles what the oracle sees for the next decision.
func (s *Session) oracleInput() OracleInput {
	transcript := make([]Turn, len(s.transcript))
	copy(transcript, s.transcript)
	return OracleInput{
		Instructions: s.instructions,
		Transcript:   transcript,
		Catalog:      s.catalog(),
		Context:      renderWorkspaceContext(s.workspace),
		Model:        s.cfg.Model,
	}
}

// catalog lists every action the oracle may request: the native primitives,
// the delegated tools, and the spawn primitive.
func (s *Session) catalog() []oracle.ToolDefinition {
	defs := nativeDefinitions()
	defs = append(defs, s.tools.Definitions()...)
	defs = append(defs, taskDefinition(s.subagents))
	return defs
}

// spawnChild creates a sub-agent session from a registered spec. The child
// shares this tree's workspace, emitter, gate, and spec table, but starts
// with an empty transcript: it sees only the task description it is run on.
func (s *Session) spawnChild(specName string) (*Session, error) {
	spec, ok := s.subagents[specName]
	if !ok {
		return nil, configErrorf("unknown sub-agent type %q (registered: %v)", specName, sortedSpecNames(s.subagents))
	}

	depth := s.depth + 1
	if depth > s.cfg.MaxDepth {
		return nil, &RecursionLimitError{
			SessionID: s.id,
			Depth:     depth,
			Limit:     s.cfg.MaxDepth,
			Kind:      "depth",
		}
	}

	tools := s.tools
	if spec.Tools != nil {
		sub, err := s.tools.Subset(spec.Tools)
		if err != nil {
			return nil, err
		}
		tools = sub
	}

	cfg := s.cfg
	if spec.Model != "" {
		cfg.Model = spec.Model
	}

	return &Session{
		id:           uuid.New().String(),
		cfg:          cfg,
		oracle:       s.oracle,
		tools:        tools,
		subagents:    s.subagents,
		instructions: spec.Instructions,
		workspace:    s.workspace,
		emitter:      s.emitter,
		gate:         s.gate,
		depth:        depth,
	}, nil
}
