// Package deepagent implements a recursive agent-execution runtime.
//
// It drives an external decision-making model (the oracle) in a loop:
// each cycle the oracle sees the transcript and a tool catalog, and either
// requests a batch of actions or produces a final answer. Requested actions
// run against a virtual workspace, delegated tools, or spawned sub-agent
// sessions, and every result is folded back into the transcript for the
// next cycle.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Agent: A configured definition (instructions, tools, sub-agent specs,
//     tunables) that creates sessions.
//   - Session: One running conversation; owns the transcript and drives the
//     orchestration loop. Sub-agent sessions form a recursion tree.
//   - Workspace: The virtual in-memory file store and todo list shared by a
//     whole recursion tree.
//   - Interrupt gate: Per-action policies that suspend the tree before an
//     action runs, until a human approves, edits, or responds.
//   - ToolRegistry: Registration and dispatch of delegated tools.
//   - EventEmitter: Typed event stream for host application integration.
//
// # Quick Start
//
//	client, _ := oracle.NewClientFromEnv()
//	agent, _ := deepagent.New(deepagent.Options{
//	    Instructions: "You are a research assistant.",
//	    Oracle:       deepagent.NewClientOracle(client, "claude-sonnet-4-5"),
//	})
//	session, _ := agent.NewSession(nil)
//
//	result, err := session.Run(ctx, "Summarize the attached notes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for result.Status == deepagent.RunSuspended {
//	    result, err = session.Resume(ctx, deepagent.Decision{Kind: deepagent.DecisionApprove})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	fmt.Println(result.FinalAnswer)
package deepagent
