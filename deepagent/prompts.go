package deepagent

import (
	"fmt"
	"strings"
)

// basePrompt is appended to the caller's instructions for every session. It
// teaches the model the standard workspace and planning tools.
const basePrompt = `

You have access to a number of standard tools.

## write_todos

Use the write_todos tool very frequently to plan tasks and to give the user
visibility into your progress. Break larger tasks into smaller steps, mark a
todo in_progress when you start it, and mark it completed as soon as it is
done. Do not batch up multiple completions. Every call replaces the whole
list, so always submit the full desired list.

## Workspace files

ls, read_file, write_file, and edit_file operate on a virtual workspace: a
single flat directory of named files shared with any sub-agents you launch.
Use files to hand artifacts between steps and sub-agents.

## task

Use the task tool to launch a sub-agent for scoped, multi-step work. The
sub-agent starts fresh with only your task description and reports back a
single summary message, so describe precisely what it should do and what it
should return.`

// Native tool descriptions, shown to the oracle in the catalog.

const lsDescription = `List all file names in the workspace, in lexical order.`

const readFileDescription = `Read a file from the workspace. Returns the content in cat -n format, with
line numbers starting at 1. Optionally pass offset (1-based starting line)
and limit (number of lines, default 2000) for long files. Lines longer than
2000 characters are truncated. Reading a missing file returns an error.`

const writeFileDescription = `Create or fully overwrite a file in the workspace. Prior content, if any,
is discarded; there is no append mode.`

const editFileDescription = `Replace one exact string occurrence in a workspace file.

Provide file_path, old_string (the text to find), and new_string (the
replacement). old_string must match exactly, including whitespace, and must
be unique in the file: include enough surrounding context to pin down the
one occurrence you mean. The edit fails without changing the file when
old_string is missing or matches more than once.`

const writeTodosDescription = `Replace the session todo list. Submit the full desired list; it atomically
replaces the previous one. Each entry needs non-empty content and a status
of pending, in_progress, or completed. Keep at most one entry in_progress.`

const taskDescriptionHeader = `Launch a sub-agent to handle complex, multi-step tasks autonomously.

Available agent types and the tools they have access to:`

const taskDescriptionFooter = `
Specify the agent type with subagent_type and the work with description.
The sub-agent cannot see this conversation: it starts only from your
description and returns a single final message. Describe the task in detail
and state exactly what information it must report back.`

// buildTaskDescription renders the task tool description from the
// registered sub-agent specs.
func buildTaskDescription(specs map[string]*SubAgentSpec) string {
	var sb strings.Builder
	sb.WriteString(taskDescriptionHeader)
	sb.WriteString("\n")
	names := sortedSpecNames(specs)
	for _, name := range names {
		spec := specs[name]
		tools := "*"
		if len(spec.Tools) > 0 {
			tools = strings.Join(spec.Tools, ", ")
		}
		fmt.Fprintf(&sb, "- %s: %s (Tools: %s)\n", spec.Name, spec.Description, tools)
	}
	sb.WriteString(taskDescriptionFooter)
	return sb.String()
}

// renderWorkspaceContext renders the current file names and todo list as
// read context for the oracle.
func renderWorkspaceContext(ws *Workspace) string {
	var sb strings.Builder

	names := ws.List()
	sb.WriteString("## Workspace files\n")
	if len(names) == 0 {
		sb.WriteString("(none)\n")
	} else {
		for _, name := range names {
			sb.WriteString("- " + name + "\n")
		}
	}

	todos := ws.Todos()
	sb.WriteString("\n## Todos\n")
	if len(todos) == 0 {
		sb.WriteString("(none)\n")
	} else {
		for i, todo := range todos {
			fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, todo.Status, todo.Content)
		}
	}

	return sb.String()
}
