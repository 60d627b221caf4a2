package deepagent

import "sort"

// GeneralPurposeAgent is the reserved sub-agent spec name that always
// exists: it inherits the parent's instructions and full tool set.
const GeneralPurposeAgent = "general-purpose"

const generalPurposeDescription = "General-purpose agent for researching complex questions and executing " +
	"multi-step tasks. Inherits the full tool set."

// SubAgentSpec describes a spawnable sub-agent. Specs are immutable once
// registered and are looked up by name at spawn time.
type SubAgentSpec struct {
	// Name identifies the spec in the task tool's subagent_type argument.
	Name string `json:"name" yaml:"name"`

	// Description is shown to the parent oracle as the spawn target's
	// purpose.
	Description string `json:"description" yaml:"description"`

	// Instructions become the child session's system instructions.
	Instructions string `json:"instructions" yaml:"instructions"`

	// Tools restricts the child to a subset of the delegated tools. Nil
	// means the parent's full set. Native primitives and the spawn
	// primitive are always available.
	Tools []string `json:"tools,omitempty" yaml:"tools"`

	// Model optionally overrides the oracle model for the child.
	Model string `json:"model,omitempty" yaml:"model"`
}

// buildSpecTable validates user specs and adds the reserved general-purpose
// entry, which inherits the given instructions.
func buildSpecTable(instructions string, specs []SubAgentSpec) (map[string]*SubAgentSpec, error) {
	table := map[string]*SubAgentSpec{
		GeneralPurposeAgent: {
			Name:         GeneralPurposeAgent,
			Description:  generalPurposeDescription,
			Instructions: instructions,
		},
	}
	for _, spec := range specs {
		spec := spec
		if spec.Name == "" {
			return nil, configErrorf("sub-agent spec has empty name")
		}
		if spec.Name == GeneralPurposeAgent {
			return nil, configErrorf("sub-agent name %q is reserved", GeneralPurposeAgent)
		}
		if _, dup := table[spec.Name]; dup {
			return nil, configErrorf("duplicate sub-agent spec %q", spec.Name)
		}
		table[spec.Name] = &spec
	}
	return table, nil
}

func sortedSpecNames(specs map[string]*SubAgentSpec) []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
