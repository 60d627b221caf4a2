package deepagent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/youssef-mostafa25/deepagents/oracle"
)

// ToolFunc is the function signature for a delegated tool. It receives the
// raw argument bundle the oracle produced; a returned error is captured as a
// failed ActionResult, never as a loop-fatal condition.
type ToolFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Tool pairs a delegated tool's catalog metadata with its implementation.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema for the argument bundle
	Run         ToolFunc
}

// ToolRegistry manages delegated tool registration and lookup.
type ToolRegistry struct {
	tools map[string]*Tool
	mu    sync.RWMutex
}

// NewToolRegistry creates an empty ToolRegistry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]*Tool)}
}

// Register adds or replaces a tool in the registry.
func (r *ToolRegistry) Register(tool Tool) error {
	if tool.Name == "" {
		return configErrorf("tool name must not be empty")
	}
	if isReservedToolName(tool.Name) {
		return configErrorf("tool name %q is reserved for a native primitive", tool.Name)
	}
	if tool.Run == nil {
		return configErrorf("tool %q has no implementation", tool.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = &tool
	return nil
}

// Get returns a registered tool by name, or nil if not found.
func (r *ToolRegistry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the registered tool names in lexical order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Definitions returns catalog entries for all registered tools, ordered by
// name so the oracle sees a deterministic catalog.
func (r *ToolRegistry) Definitions() []oracle.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	defs := make([]oracle.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, oracle.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return defs
}

// Subset returns a registry restricted to the named tools. An unknown name
// is a configuration error.
func (r *ToolRegistry) Subset(names []string) (*ToolRegistry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub := NewToolRegistry()
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, configErrorf("unknown tool %q in tool subset", name)
		}
		cloned := *t
		sub.tools[name] = &cloned
	}
	return sub, nil
}

// ParseArguments unmarshals an action's argument bundle into a map.
func ParseArguments(raw json.RawMessage) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, validationErrorf("invalid action arguments: %v", err)
	}
	return args, nil
}

// GetStringArg extracts a string argument from parsed arguments.
func GetStringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetIntArg extracts an integer argument from parsed arguments.
func GetIntArg(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// MustArgs marshals a key/value map into an argument bundle. Test and
// harness helper.
func MustArgs(kv map[string]interface{}) json.RawMessage {
	raw, err := json.Marshal(kv)
	if err != nil {
		panic(fmt.Sprintf("MustArgs: %v", err))
	}
	return raw
}
