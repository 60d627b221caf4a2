package deepagent

import (
	"sync"

	"github.com/google/uuid"
)

// Options configures an Agent.
type Options struct {
	// Instructions is the system prompt for top-level sessions and the
	// reserved general-purpose sub-agent.
	Instructions string

	// Oracle is the decision-making collaborator. Required.
	Oracle Oracle

	// Tools are the delegated tools available to the oracle, alongside the
	// native workspace and todo primitives.
	Tools []Tool

	// Subagents are the spawnable agent specs, in addition to the reserved
	// general-purpose spec.
	Subagents []SubAgentSpec

	// Config holds the session tunables; nil uses DefaultConfig.
	Config *Config
}

// Agent is a configured agent definition: instructions, tools, sub-agent
// specs, and session tunables. It creates and tracks sessions; the per-run
// state lives in each Session.
type Agent struct {
	instructions string
	oracle       Oracle
	tools        *ToolRegistry
	subagents    map[string]*SubAgentSpec
	cfg          Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New validates the options and builds an Agent.
func New(opts Options) (*Agent, error) {
	if opts.Oracle == nil {
		return nil, configErrorf("an oracle is required")
	}

	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.MaxDepth < 0 {
		return nil, configErrorf("max_depth must not be negative")
	}

	registry := NewToolRegistry()
	for _, tool := range opts.Tools {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	specs, err := buildSpecTable(opts.Instructions, opts.Subagents)
	if err != nil {
		return nil, err
	}
	// Spec tool subsets must name registered tools; catching it here beats a
	// fatal error mid-session at spawn time.
	for _, spec := range specs {
		if spec.Tools != nil {
			if _, err := registry.Subset(spec.Tools); err != nil {
				return nil, configErrorf("sub-agent %q: %v", spec.Name, err)
			}
		}
	}

	return &Agent{
		instructions: opts.Instructions,
		oracle:       opts.Oracle,
		tools:        registry,
		subagents:    specs,
		cfg:          cfg,
		sessions:     make(map[string]*Session),
	}, nil
}

// NewSession creates a top-level session with its own workspace, optionally
// seeded with initial files.
func (a *Agent) NewSession(files map[string]string) (*Session, error) {
	workspace := NewWorkspace()
	if len(files) > 0 {
		if err := workspace.Seed(files); err != nil {
			return nil, err
		}
	}

	id := uuid.New().String()
	session := &Session{
		id:           id,
		cfg:          a.cfg,
		oracle:       a.oracle,
		tools:        a.tools,
		subagents:    a.subagents,
		instructions: a.instructions,
		workspace:    workspace,
		emitter:      NewEventEmitter(id, 0),
		gate:         interruptGate{table: a.cfg.Interrupts},
	}

	a.mu.Lock()
	a.sessions[id] = session
	a.mu.Unlock()
	return session, nil
}

// Session returns a tracked session by ID, or nil.
func (a *Agent) Session(id string) *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessions[id]
}
