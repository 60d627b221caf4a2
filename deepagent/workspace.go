package deepagent

import (
	"sort"
	"strings"
	"sync"
)

// TodoStatus is the closed set of todo entry states.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

func validTodoStatus(s TodoStatus) bool {
	switch s {
	case TodoPending, TodoInProgress, TodoCompleted:
		return true
	}
	return false
}

// Todo is one ordered entry in the session todo list.
type Todo struct {
	Content string     `json:"content" yaml:"content"`
	Status  TodoStatus `json:"status" yaml:"status"`
}

// Workspace is the virtual mutable store shared by a whole recursion tree:
// a flat map from file name to content plus the ordered todo list. File
// names never contain path separators; there is a single directory level.
//
// All mutation goes through the methods below. Readers may run concurrently;
// writers are serialized by the store lock, which is what makes concurrent
// sub-agents safe.
type Workspace struct {
	mu    sync.RWMutex
	files map[string]string
	todos []Todo
}

// NewWorkspace creates an empty Workspace.
func NewWorkspace() *Workspace {
	return &Workspace{files: make(map[string]string)}
}

func validateFileName(name string) error {
	if name == "" {
		return validationErrorf("file name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return validationErrorf("file name %q must not contain path separators: the workspace is a single flat directory", name)
	}
	return nil
}

// Seed replaces the file map wholesale. Used at session start to hand in an
// initial workspace.
func (w *Workspace) Seed(files map[string]string) error {
	for name := range files {
		if err := validateFileName(name); err != nil {
			return err
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = make(map[string]string, len(files))
	for name, content := range files {
		w.files[name] = content
	}
	return nil
}

// Files returns a copy of the current file map. Used at session end to hand
// the workspace back to the caller.
func (w *Workspace) Files() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]string, len(w.files))
	for name, content := range w.files {
		out[name] = content
	}
	return out
}

// List returns the current file names in lexical order.
func (w *Workspace) List() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.files))
	for name := range w.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Read returns the full content of a file.
func (w *Workspace) Read(name string) (string, error) {
	if err := validateFileName(name); err != nil {
		return "", err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	content, ok := w.files[name]
	if !ok {
		return "", notFoundErrorf("file %q not found", name)
	}
	return content, nil
}

// Write creates or fully overwrites a file. Prior content is discarded;
// there is no append mode.
func (w *Workspace) Write(name, content string) error {
	if err := validateFileName(name); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[name] = content
	return nil
}

// Edit replaces exactly one occurrence of oldStr in the named file and
// returns the new full content. A missing file or a locator with zero
// matches fails with a NotFoundError; a locator matching more than once
// fails with an AmbiguousMatchError. The file is unchanged on failure.
func (w *Workspace) Edit(name, oldStr, newStr string) (string, error) {
	if err := validateFileName(name); err != nil {
		return "", err
	}
	if oldStr == "" {
		return "", validationErrorf("locator must not be empty")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	content, ok := w.files[name]
	if !ok {
		return "", notFoundErrorf("file %q not found", name)
	}
	switch n := strings.Count(content, oldStr); {
	case n == 0:
		return "", notFoundErrorf("string not found in %q: %q", name, oldStr)
	case n > 1:
		return "", ambiguousMatchErrorf("string %q appears %d times in %q; provide more surrounding context to make it unique", oldStr, n, name)
	}
	updated := strings.Replace(content, oldStr, newStr, 1)
	w.files[name] = updated
	return updated, nil
}

// ReplaceTodos atomically replaces the whole todo list. Partial edits are
// expressed by the caller submitting the full desired list, never a delta.
// The prior list is retained if any entry is invalid.
//
// At most one in_progress entry is convention, not validated here.
func (w *Workspace) ReplaceTodos(todos []Todo) error {
	for i, todo := range todos {
		if strings.TrimSpace(todo.Content) == "" {
			return validationErrorf("todo %d has empty content", i)
		}
		if !validTodoStatus(todo.Status) {
			return validationErrorf("todo %d has invalid status %q (want pending, in_progress, or completed)", i, todo.Status)
		}
	}
	replacement := make([]Todo, len(todos))
	copy(replacement, todos)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.todos = replacement
	return nil
}

// Todos returns a copy of the current todo list.
func (w *Workspace) Todos() []Todo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Todo, len(w.todos))
	copy(out, w.todos)
	return out
}
