package deepagent

import (
	"sync"
	"testing"
)

func TestWorkspaceReadAfterWrite(t *testing.T) {
	ws := NewWorkspace()
	if err := ws.Write("notes.md", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := ws.Read("notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestWorkspaceWriteOverwrites(t *testing.T) {
	ws := NewWorkspace()
	ws.Write("a.txt", "first")
	ws.Write("a.txt", "second")
	got, _ := ws.Read("a.txt")
	if got != "second" {
		t.Errorf("expected full overwrite, got %q", got)
	}
}

func TestWorkspaceReadMissing(t *testing.T) {
	ws := NewWorkspace()
	_, err := ws.Read("missing.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestWorkspaceListSorted(t *testing.T) {
	ws := NewWorkspace()
	ws.Write("zebra.txt", "")
	ws.Write("alpha.txt", "")
	ws.Write("mango.txt", "")

	names := ws.List()
	expected := []string{"alpha.txt", "mango.txt", "zebra.txt"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, names[i])
		}
	}
}

func TestWorkspaceFlatNamespace(t *testing.T) {
	ws := NewWorkspace()
	for _, name := range []string{"dir/file.txt", "dir\\file.txt", ""} {
		if err := ws.Write(name, "content"); err == nil {
			t.Errorf("expected error for file name %q", name)
		}
	}
}

func TestWorkspaceEdit(t *testing.T) {
	ws := NewWorkspace()
	ws.Write("code.go", "func main() {\n\tprintln(1)\n}\n")

	updated, err := ws.Edit("code.go", "println(1)", "println(2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != "func main() {\n\tprintln(2)\n}\n" {
		t.Errorf("unexpected content: %q", updated)
	}
}

func TestWorkspaceEditZeroMatches(t *testing.T) {
	ws := NewWorkspace()
	ws.Write("a.txt", "alpha beta")

	_, err := ws.Edit("a.txt", "gamma", "delta")
	if err == nil {
		t.Fatal("expected error for zero matches")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
	// File unchanged on failure.
	got, _ := ws.Read("a.txt")
	if got != "alpha beta" {
		t.Errorf("file mutated on failed edit: %q", got)
	}
}

func TestWorkspaceEditAmbiguous(t *testing.T) {
	ws := NewWorkspace()
	ws.Write("a.txt", "x x x")

	_, err := ws.Edit("a.txt", "x", "y")
	if err == nil {
		t.Fatal("expected error for ambiguous match")
	}
	if _, ok := err.(*AmbiguousMatchError); !ok {
		t.Errorf("expected AmbiguousMatchError, got %T", err)
	}
	got, _ := ws.Read("a.txt")
	if got != "x x x" {
		t.Errorf("file mutated on failed edit: %q", got)
	}
}

func TestWorkspaceEditMissingFile(t *testing.T) {
	ws := NewWorkspace()
	_, err := ws.Edit("nope.txt", "a", "b")
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestWorkspaceSeedAndFiles(t *testing.T) {
	ws := NewWorkspace()
	seed := map[string]string{"in.txt": "input data"}
	if err := ws.Seed(seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := ws.Files()
	if out["in.txt"] != "input data" {
		t.Errorf("expected seeded file, got %v", out)
	}

	// Returned map is a copy.
	out["in.txt"] = "mutated"
	got, _ := ws.Read("in.txt")
	if got != "input data" {
		t.Error("Files() must return a copy")
	}
}

func TestWorkspaceSeedRejectsPaths(t *testing.T) {
	ws := NewWorkspace()
	err := ws.Seed(map[string]string{"sub/file.txt": "x"})
	if err == nil {
		t.Fatal("expected error for path separator in seed")
	}
}

func TestReplaceTodos(t *testing.T) {
	ws := NewWorkspace()
	todos := []Todo{
		{Content: "step one", Status: TodoCompleted},
		{Content: "step two", Status: TodoInProgress},
		{Content: "step three", Status: TodoPending},
	}
	if err := ws.ReplaceTodos(todos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ws.Todos()
	if len(got) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(got))
	}
	if got[1].Content != "step two" || got[1].Status != TodoInProgress {
		t.Errorf("order not preserved: %v", got)
	}

	// Empty list clears.
	if err := ws.ReplaceTodos(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ws.Todos()) != 0 {
		t.Error("expected empty todo list")
	}
}

func TestReplaceTodosValidation(t *testing.T) {
	ws := NewWorkspace()
	ws.ReplaceTodos([]Todo{{Content: "keep me", Status: TodoPending}})

	tests := []struct {
		name  string
		todos []Todo
	}{
		{"empty content", []Todo{{Content: "  ", Status: TodoPending}}},
		{"bad status", []Todo{{Content: "ok", Status: "done"}}},
		{"one bad among good", []Todo{
			{Content: "fine", Status: TodoPending},
			{Content: "broken", Status: "nope"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ws.ReplaceTodos(tt.todos)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Errorf("expected ValidationError, got %T", err)
			}
			// Prior list retained.
			got := ws.Todos()
			if len(got) != 1 || got[0].Content != "keep me" {
				t.Errorf("prior todo list not retained: %v", got)
			}
		})
	}
}

func TestWorkspaceConcurrentWriters(t *testing.T) {
	ws := NewWorkspace()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws.Write("shared.txt", "content")
			ws.Read("shared.txt")
			ws.List()
		}(i)
	}
	wg.Wait()

	got, err := ws.Read("shared.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "content" {
		t.Errorf("unexpected content: %q", got)
	}
}
