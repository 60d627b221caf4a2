package deepagent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/youssef-mostafa25/deepagents/oracle"
)

// Native primitive and spawn target names. These follow the conventional
// agent tool vocabulary so oracle prompts transfer cleanly.
const (
	ToolLs         = "ls"
	ToolReadFile   = "read_file"
	ToolWriteFile  = "write_file"
	ToolEditFile   = "edit_file"
	ToolWriteTodos = "write_todos"
	ToolTask       = "task"
)

func isReservedToolName(name string) bool {
	switch name {
	case ToolLs, ToolReadFile, ToolWriteFile, ToolEditFile, ToolWriteTodos, ToolTask:
		return true
	}
	return false
}

const (
	readFileDefaultLimit = 2000
	readFileMaxLineChars = 2000
)

// suspension signals that dispatching an action suspended the session tree:
// either this session's own interrupt gate fired, or a spawned child is
// waiting on one.
type suspension struct {
	child   *Session // non-nil when the interrupt belongs to a descendant
	pending *PendingInterrupt
}

// dispatchAction executes one approved ActionRequest and produces exactly
// one ActionResult. Recoverable failures (bad arguments, missing files,
// ambiguous edits, delegated tool errors) come back as failed results; a
// returned error is session-fatal.
func (s *Session) dispatchAction(ctx context.Context, req ActionRequest) (ActionResult, *suspension, error) {
	s.emitter.Emit(EventActionStart, map[string]interface{}{
		"session_id": s.id,
		"action":     req.Name,
		"request_id": req.ID,
	})

	var (
		content string
		susp    *suspension
		err     error
	)
	switch req.Name {
	case ToolLs:
		content = strings.Join(s.workspace.List(), "\n")
	case ToolReadFile:
		content, err = s.execReadFile(req)
	case ToolWriteFile:
		content, err = s.execWriteFile(req)
	case ToolEditFile:
		content, err = s.execEditFile(req)
	case ToolWriteTodos:
		content, err = s.execWriteTodos(req)
	case ToolTask:
		content, susp, err = s.execTask(ctx, req)
	default:
		content, err = s.execDelegated(ctx, req)
	}

	if susp != nil {
		return ActionResult{}, susp, nil
	}
	if err != nil {
		if !recoverable(err) {
			s.emitter.Emit(EventError, map[string]interface{}{
				"session_id": s.id,
				"action":     req.Name,
				"error":      err.Error(),
			})
			return ActionResult{}, nil, err
		}
		result := ActionResult{RequestID: req.ID, Status: ActionFailed, Content: "Error: " + err.Error()}
		s.emitter.Emit(EventActionEnd, map[string]interface{}{
			"session_id": s.id,
			"request_id": req.ID,
			"error":      err.Error(),
		})
		return result, nil, nil
	}

	s.emitter.Emit(EventActionEnd, map[string]interface{}{
		"session_id": s.id,
		"request_id": req.ID,
	})
	return ActionResult{RequestID: req.ID, Status: ActionOK, Content: content}, nil, nil
}

func (s *Session) execReadFile(req ActionRequest) (string, error) {
	args, err := ParseArguments(req.Arguments)
	if err != nil {
		return "", err
	}
	filePath, ok := GetStringArg(args, "file_path")
	if !ok || filePath == "" {
		return "", validationErrorf("file_path is required")
	}
	offset, _ := GetIntArg(args, "offset")
	limit, _ := GetIntArg(args, "limit")
	if limit <= 0 {
		limit = readFileDefaultLimit
	}

	content, err := s.workspace.Read(filePath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "System reminder: file exists but has empty contents", nil
	}

	lines := strings.Split(content, "\n")
	start := 0
	if offset > 1 {
		start = offset - 1
	}
	if start >= len(lines) {
		return "", validationErrorf("line offset %d exceeds file length (%d lines)", offset, len(lines))
	}
	end := len(lines)
	if start+limit < end {
		end = start + limit
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		line := lines[i]
		if len(line) > readFileMaxLineChars {
			line = line[:readFileMaxLineChars]
		}
		fmt.Fprintf(&sb, "%6d\t%s\n", i+1, line)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func (s *Session) execWriteFile(req ActionRequest) (string, error) {
	args, err := ParseArguments(req.Arguments)
	if err != nil {
		return "", err
	}
	filePath, ok := GetStringArg(args, "file_path")
	if !ok || filePath == "" {
		return "", validationErrorf("file_path is required")
	}
	content, ok := GetStringArg(args, "content")
	if !ok {
		return "", validationErrorf("content is required")
	}
	if err := s.workspace.Write(filePath, content); err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated file %s", filePath), nil
}

func (s *Session) execEditFile(req ActionRequest) (string, error) {
	args, err := ParseArguments(req.Arguments)
	if err != nil {
		return "", err
	}
	filePath, ok := GetStringArg(args, "file_path")
	if !ok || filePath == "" {
		return "", validationErrorf("file_path is required")
	}
	oldString, ok := GetStringArg(args, "old_string")
	if !ok {
		return "", validationErrorf("old_string is required")
	}
	newString, _ := GetStringArg(args, "new_string")

	if _, err := s.workspace.Edit(filePath, oldString, newString); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully replaced string in %s", filePath), nil
}

func (s *Session) execWriteTodos(req ActionRequest) (string, error) {
	var params struct {
		Todos []Todo `json:"todos"`
	}
	if len(req.Arguments) > 0 {
		if err := json.Unmarshal(req.Arguments, &params); err != nil {
			return "", validationErrorf("invalid write_todos arguments: %v", err)
		}
	}
	if err := s.workspace.ReplaceTodos(params.Todos); err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated todo list to %d items", len(params.Todos)), nil
}

// execTask spawns a sub-agent and runs it to completion. Only the child's
// final answer returns to the parent; a suspended child propagates up.
func (s *Session) execTask(ctx context.Context, req ActionRequest) (string, *suspension, error) {
	args, err := ParseArguments(req.Arguments)
	if err != nil {
		return "", nil, err
	}
	description, ok := GetStringArg(args, "description")
	if !ok || description == "" {
		return "", nil, validationErrorf("description is required")
	}
	specName, ok := GetStringArg(args, "subagent_type")
	if !ok || specName == "" {
		specName = GeneralPurposeAgent
	}

	child, err := s.spawnChild(specName)
	if err != nil {
		return "", nil, err
	}

	s.emitter.Emit(EventSubAgentSpawn, map[string]interface{}{
		"session_id": s.id,
		"child_id":   child.id,
		"spec":       specName,
	})

	result, err := child.Run(ctx, description)
	if err != nil {
		return "", nil, err
	}

	switch result.Status {
	case RunSuspended:
		return "", &suspension{child: child, pending: result.Interrupt}, nil
	case RunCancelled:
		return "", nil, validationErrorf("sub-agent %s was cancelled", child.id)
	}

	s.emitter.Emit(EventSubAgentDone, map[string]interface{}{
		"session_id": s.id,
		"child_id":   child.id,
	})
	return result.FinalAnswer, nil, nil
}

func (s *Session) execDelegated(ctx context.Context, req ActionRequest) (string, error) {
	tool := s.tools.Get(req.Name)
	if tool == nil {
		return "", configErrorf("unknown tool %q", req.Name)
	}
	out, err := tool.Run(ctx, req.Arguments)
	if err != nil {
		// Delegated tool failures are data for the oracle, not loop-fatal.
		return "", validationErrorf("tool %s failed: %v", req.Name, err)
	}
	return out, nil
}

// nativeDefinitions returns the catalog entries for the workspace and todo
// primitives.
func nativeDefinitions() []oracle.ToolDefinition {
	return []oracle.ToolDefinition{
		{
			Name:        ToolLs,
			Description: lsDescription,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        ToolReadFile,
			Description: readFileDescription,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": map[string]interface{}{
						"type":        "string",
						"description": "Name of the workspace file to read.",
					},
					"offset": map[string]interface{}{
						"type":        "integer",
						"description": "1-based line number to start reading from.",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of lines to read. Default: 2000.",
					},
				},
				"required": []string{"file_path"},
			},
		},
		{
			Name:        ToolWriteFile,
			Description: writeFileDescription,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": map[string]interface{}{
						"type":        "string",
						"description": "Name of the workspace file to write.",
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The full file content.",
					},
				},
				"required": []string{"file_path", "content"},
			},
		},
		{
			Name:        ToolEditFile,
			Description: editFileDescription,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": map[string]interface{}{
						"type":        "string",
						"description": "Name of the workspace file to edit.",
					},
					"old_string": map[string]interface{}{
						"type":        "string",
						"description": "Exact text to find. Must be unique in the file.",
					},
					"new_string": map[string]interface{}{
						"type":        "string",
						"description": "Replacement text.",
					},
				},
				"required": []string{"file_path", "old_string", "new_string"},
			},
		},
		{
			Name:        ToolWriteTodos,
			Description: writeTodosDescription,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"todos": map[string]interface{}{
						"type":        "array",
						"description": "The full desired todo list.",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"content": map[string]interface{}{"type": "string"},
								"status": map[string]interface{}{
									"type": "string",
									"enum": []string{"pending", "in_progress", "completed"},
								},
							},
							"required": []string{"content", "status"},
						},
					},
				},
				"required": []string{"todos"},
			},
		},
	}
}

// taskDefinition returns the spawn primitive's catalog entry, listing the
// registered sub-agent specs.
func taskDefinition(specs map[string]*SubAgentSpec) oracle.ToolDefinition {
	return oracle.ToolDefinition{
		Name:        ToolTask,
		Description: buildTaskDescription(specs),
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Detailed task for the sub-agent, including what to report back.",
				},
				"subagent_type": map[string]interface{}{
					"type":        "string",
					"description": "Which registered agent type to launch.",
				},
			},
			"required": []string{"description", "subagent_type"},
		},
	}
}
