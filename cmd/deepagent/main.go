// Command deepagent runs an agent session from the terminal.
//
// It loads an optional YAML agent definition, drives the session on the
// given prompt, and resolves interrupts interactively on stdin.
//
//	deepagent -agent agent.yaml -prompt "Summarize notes.md" -file notes.md
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/youssef-mostafa25/deepagents/deepagent"
	"github.com/youssef-mostafa25/deepagents/oracle"
)

type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }
func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	var (
		agentPath = flag.String("agent", "", "path to a YAML agent definition")
		prompt    = flag.String("prompt", "", "the task to run")
		model     = flag.String("model", "", "oracle model override")
		verbose   = flag.Bool("v", false, "print session events")
		files     fileList
	)
	flag.Var(&files, "file", "seed a local file into the workspace (repeatable)")
	flag.Parse()

	if *prompt == "" && flag.NArg() > 0 {
		*prompt = strings.Join(flag.Args(), " ")
	}
	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: deepagent [-agent agent.yaml] [-file path]... -prompt \"task\"")
		os.Exit(2)
	}

	if err := run(*agentPath, *prompt, *model, *verbose, files); err != nil {
		fmt.Fprintf(os.Stderr, "deepagent: %v\n", err)
		os.Exit(1)
	}
}

func run(agentPath, prompt, model string, verbose bool, files fileList) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := oracle.NewClientFromEnv()
	defer client.Close()

	file := &deepagent.AgentFile{}
	if agentPath != "" {
		loaded, err := deepagent.LoadAgentFile(agentPath)
		if err != nil {
			return err
		}
		file = loaded
	}
	if model != "" {
		file.Model = model
	}

	oracleModel := file.Model
	if oracleModel == "" {
		if info := oracle.LatestModel("anthropic"); info != nil {
			oracleModel = info.ID
		}
	}

	cfg := file.Config()
	opts := file.Options(deepagent.NewClientOracle(client, oracleModel,
		deepagent.WithTimeout(cfg.OracleTimeout)), nil)
	agent, err := deepagent.New(opts)
	if err != nil {
		return err
	}

	seed := make(map[string]string, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("seed file: %w", err)
		}
		seed[filepath.Base(path)] = string(data)
	}

	session, err := agent.NewSession(seed)
	if err != nil {
		return err
	}

	if verbose {
		go func() {
			for event := range session.Events() {
				fmt.Fprintf(os.Stderr, "[%s] %v\n", event.Kind, event.Data)
			}
		}()
	}

	result, err := session.Run(ctx, prompt)
	if err != nil {
		return err
	}

	stdin := bufio.NewScanner(os.Stdin)
	for result.Status == deepagent.RunSuspended {
		decision, err := promptDecision(stdin, result.Interrupt)
		if err != nil {
			return err
		}
		result, err = session.Resume(ctx, decision)
		if err != nil {
			if _, ok := err.(*deepagent.ValidationError); ok {
				fmt.Fprintf(os.Stderr, "invalid decision: %v\n", err)
				result = &deepagent.RunResult{Status: deepagent.RunSuspended, Interrupt: session.Pending()}
				continue
			}
			return err
		}
	}

	if result.Status == deepagent.RunCancelled {
		return fmt.Errorf("cancelled")
	}

	fmt.Println(result.FinalAnswer)
	if names := session.Workspace().List(); len(names) > 0 && verbose {
		fmt.Fprintf(os.Stderr, "workspace files: %s\n", strings.Join(names, ", "))
	}
	return nil
}

// promptDecision shows a pending interrupt and reads one decision from
// stdin: "approve", "edit <json args>", or "respond <message>".
func promptDecision(stdin *bufio.Scanner, pending *deepagent.PendingInterrupt) (deepagent.Decision, error) {
	fmt.Fprintf(os.Stderr, "\ninterrupt: %s %s\n", pending.Request.Name, string(pending.Request.Arguments))
	var kinds []string
	for _, kind := range pending.Allowed {
		kinds = append(kinds, string(kind))
	}
	fmt.Fprintf(os.Stderr, "allowed: %s\n> ", strings.Join(kinds, ", "))

	if !stdin.Scan() {
		return deepagent.Decision{}, fmt.Errorf("stdin closed while an interrupt was pending")
	}
	line := strings.TrimSpace(stdin.Text())
	verb, rest, _ := strings.Cut(line, " ")

	switch verb {
	case "approve":
		return deepagent.Decision{Kind: deepagent.DecisionApprove}, nil
	case "edit":
		return deepagent.Decision{Kind: deepagent.DecisionEdit, Arguments: json.RawMessage(rest)}, nil
	case "respond":
		return deepagent.Decision{Kind: deepagent.DecisionRespond, Response: rest}, nil
	default:
		// Let validateDecision report it against the allowed set.
		return deepagent.Decision{Kind: deepagent.DecisionKind(verb)}, nil
	}
}
