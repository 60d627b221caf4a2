package deepagent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestBuildSpecTable(t *testing.T) {
	table, err := buildSpecTable("root instructions", []SubAgentSpec{
		{Name: "researcher", Description: "digs", Instructions: "research things"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(table))
	}

	gp := table[GeneralPurposeAgent]
	if gp == nil {
		t.Fatal("expected reserved general-purpose spec")
	}
	if gp.Instructions != "root instructions" {
		t.Errorf("expected general-purpose to inherit instructions, got %q", gp.Instructions)
	}
}

func TestBuildSpecTableRejections(t *testing.T) {
	tests := []struct {
		name  string
		specs []SubAgentSpec
	}{
		{"empty name", []SubAgentSpec{{Name: ""}}},
		{"reserved name", []SubAgentSpec{{Name: GeneralPurposeAgent}}},
		{"duplicate", []SubAgentSpec{{Name: "a"}, {Name: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildSpecTable("x", tt.specs)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := err.(*ConfigurationError); !ok {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestBuildTaskDescription(t *testing.T) {
	table, _ := buildSpecTable("x", []SubAgentSpec{
		{Name: "researcher", Description: "digs through sources", Tools: []string{"web_search"}},
	})
	desc := buildTaskDescription(table)
	if !strings.Contains(desc, "general-purpose") {
		t.Error("expected general-purpose in task description")
	}
	if !strings.Contains(desc, "researcher: digs through sources (Tools: web_search)") {
		t.Errorf("expected researcher line, got:\n%s", desc)
	}
}

func TestSubAgentQuarantine(t *testing.T) {
	o := &scriptedOracle{turns: []Turn{
		// Parent spawns a child.
		agentTurn("Delegating.", action("call_1", ToolTask, map[string]interface{}{
			"description":   "Summarize the topic and report three bullet points.",
			"subagent_type": GeneralPurposeAgent,
		})),
		// Child answers immediately.
		agentTurn("Here are the three bullet points."),
		// Parent wraps up.
		agentTurn("Done."),
	}}
	session := newTestSession(t, o, nil)

	result, err := session.Run(context.Background(), "research the topic in depth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != RunCompleted {
		t.Fatalf("expected completed, got %q", result.Status)
	}

	// The child saw only the task description, not the parent transcript.
	if len(o.inputs) != 3 {
		t.Fatalf("expected 3 oracle calls, got %d", len(o.inputs))
	}
	childInput := o.inputs[1]
	if len(childInput.Transcript) != 1 {
		t.Fatalf("expected child transcript of 1 turn, got %d", len(childInput.Transcript))
	}
	if childInput.Transcript[0].Kind != TurnUser {
		t.Errorf("expected user turn, got %q", childInput.Transcript[0].Kind)
	}
	if childInput.Transcript[0].Content != "Summarize the topic and report three bullet points." {
		t.Errorf("child saw wrong input: %q", childInput.Transcript[0].Content)
	}

	// Only the child's final answer reached the parent.
	results := resultTurns(session.Transcript())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Content != "Here are the three bullet points." {
		t.Errorf("expected child summary, got %q", results[0].Content)
	}
}

func TestSubAgentSharesWorkspace(t *testing.T) {
	o := &scriptedOracle{turns: []Turn{
		agentTurn("Delegating.", action("call_1", ToolTask, map[string]interface{}{
			"description":   "Write findings to findings.md",
			"subagent_type": GeneralPurposeAgent,
		})),
		agentTurn("Writing findings.", action("call_2", ToolWriteFile, map[string]interface{}{
			"file_path": "findings.md", "content": "shared state",
		})),
		agentTurn("Wrote findings.md."),
		agentTurn("Done."),
	}}
	session := newTestSession(t, o, nil)

	if _, err := session.Run(context.Background(), "delegate the writing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := session.Workspace().Read("findings.md")
	if err != nil {
		t.Fatalf("expected child write visible to parent: %v", err)
	}
	if got != "shared state" {
		t.Errorf("expected %q, got %q", "shared state", got)
	}
}

func TestSubAgentUnknownType(t *testing.T) {
	o := &scriptedOracle{turns: []Turn{
		agentTurn("Delegating.", action("call_1", ToolTask, map[string]interface{}{
			"description":   "anything",
			"subagent_type": "no-such-agent",
		})),
	}}
	session := newTestSession(t, o, nil)

	_, err := session.Run(context.Background(), "go")
	if err == nil {
		t.Fatal("expected error for unknown sub-agent type")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestSubAgentDepthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	o := &scriptedOracle{turns: []Turn{
		agentTurn("Delegating.", action("call_1", ToolTask, map[string]interface{}{
			"description":   "anything",
			"subagent_type": GeneralPurposeAgent,
		})),
	}}
	session := newTestSession(t, o, &cfg)

	_, err := session.Run(context.Background(), "go")
	if err == nil {
		t.Fatal("expected error at depth limit")
	}
	var limitErr *RecursionLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected RecursionLimitError, got %T", err)
	}
	if limitErr.Kind != "depth" {
		t.Errorf("expected kind depth, got %q", limitErr.Kind)
	}
}

func TestSubAgentInterruptPropagates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interrupts = PolicyTable{ToolWriteFile: AllowAll()}
	o := &scriptedOracle{turns: []Turn{
		agentTurn("Delegating.", action("call_1", ToolTask, map[string]interface{}{
			"description":   "write the report",
			"subagent_type": GeneralPurposeAgent,
		})),
		agentTurn("Writing report.", action("call_2", ToolWriteFile, map[string]interface{}{
			"file_path": "report.md", "content": "draft",
		})),
		agentTurn("Report written."),
		agentTurn("All done."),
	}}
	session := newTestSession(t, o, &cfg)

	result, err := session.Run(context.Background(), "delegate the report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != RunSuspended {
		t.Fatalf("expected suspended, got %q", result.Status)
	}
	if result.Interrupt == nil || result.Interrupt.Request.Name != ToolWriteFile {
		t.Fatalf("expected child's write_file interrupt, got %v", result.Interrupt)
	}
	// The interrupt belongs to the child session, not the parent.
	if result.Interrupt.SessionID == session.ID() {
		t.Error("expected interrupt to carry the child session ID")
	}
	if session.Pending() == nil {
		t.Fatal("expected Pending to surface the descendant interrupt")
	}

	// Approving at the top level resolves the child's gate and the whole
	// tree runs to completion.
	result, err = session.Resume(context.Background(), Decision{Kind: DecisionApprove})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != RunCompleted {
		t.Fatalf("expected completed, got %q", result.Status)
	}
	if result.FinalAnswer != "All done." {
		t.Errorf("expected parent final answer, got %q", result.FinalAnswer)
	}

	got, err := session.Workspace().Read("report.md")
	if err != nil || got != "draft" {
		t.Errorf("expected approved child write, got %q, %v", got, err)
	}
	results := resultTurns(session.Transcript())
	if len(results) != 1 {
		t.Fatalf("expected 1 parent result, got %d", len(results))
	}
	if results[0].Content != "Report written." {
		t.Errorf("expected child summary as task result, got %q", results[0].Content)
	}
}

func TestSubAgentToolSubset(t *testing.T) {
	echo := func(name string) Tool {
		return Tool{
			Name:        name,
			Description: "echo",
			Parameters:  map[string]interface{}{"type": "object"},
			Run:         func(ctx context.Context, args json.RawMessage) (string, error) { return name, nil },
		}
	}

	o := &scriptedOracle{turns: []Turn{
		agentTurn("Delegating.", action("call_1", ToolTask, map[string]interface{}{
			"description":   "use your tools",
			"subagent_type": "restricted",
		})),
		agentTurn("Checking my tools.", action("call_2", "allowed_tool", map[string]interface{}{})),
		agentTurn("Done with tools."),
		agentTurn("Done."),
	}}
	session := newTestSession(t, o, nil, func(opts *Options) {
		opts.Tools = []Tool{echo("allowed_tool"), echo("hidden_tool")}
		opts.Subagents = []SubAgentSpec{{
			Name:         "restricted",
			Description:  "limited tool set",
			Instructions: "use only what you have",
			Tools:        []string{"allowed_tool"},
		}}
	})

	if _, err := session.Run(context.Background(), "go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The child's catalog listed only the allowed delegated tool.
	childCatalog := o.inputs[1].Catalog
	var delegated []string
	for _, def := range childCatalog {
		if !isReservedToolName(def.Name) {
			delegated = append(delegated, def.Name)
		}
	}
	if len(delegated) != 1 || delegated[0] != "allowed_tool" {
		t.Errorf("expected child catalog restricted to allowed_tool, got %v", delegated)
	}
}
