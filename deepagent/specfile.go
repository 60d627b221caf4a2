package deepagent

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AgentFile is the on-disk YAML agent definition. Interrupt entries accept
// either a bool shorthand (true meaning all decision kinds allowed) or an
// explicit policy map:
//
//	interrupts:
//	  write_file: true
//	  deploy:
//	    approve: true
//	    respond: true
type AgentFile struct {
	Instructions    string                      `yaml:"instructions"`
	Model           string                      `yaml:"model"`
	MaxIterations   int                         `yaml:"max_iterations"`
	MaxDepth        *int                        `yaml:"max_depth"`
	ParallelActions *bool                       `yaml:"parallel_actions"`
	OracleTimeout   time.Duration               `yaml:"oracle_timeout"`
	Subagents       []SubAgentSpec              `yaml:"subagents"`
	Interrupts      map[string]interruptSetting `yaml:"interrupts"`
}

// interruptSetting decodes the bool-or-policy form of an interrupt entry.
// A literal false disables the gate, same as omitting the entry.
type interruptSetting struct {
	enabled bool
	policy  InterruptPolicy
}

func (s *interruptSetting) UnmarshalYAML(value *yaml.Node) error {
	var shorthand bool
	if err := value.Decode(&shorthand); err == nil {
		if shorthand {
			s.enabled = true
			s.policy = AllowAll()
		}
		return nil
	}
	var policy InterruptPolicy
	if err := value.Decode(&policy); err != nil {
		return err
	}
	s.enabled = true
	s.policy = policy
	return nil
}

// ParseAgentFile decodes a YAML agent definition.
func ParseAgentFile(data []byte) (*AgentFile, error) {
	var file AgentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, configErrorf("invalid agent file: %v", err)
	}
	return &file, nil
}

// LoadAgentFile reads and decodes a YAML agent definition from disk.
func LoadAgentFile(path string) (*AgentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent file: %w", err)
	}
	return ParseAgentFile(data)
}

// Config translates the file's tunables into a session Config, filling
// defaults for anything unset.
func (f *AgentFile) Config() Config {
	cfg := DefaultConfig()
	if f.MaxIterations > 0 {
		cfg.MaxIterations = f.MaxIterations
	}
	if f.MaxDepth != nil {
		cfg.MaxDepth = *f.MaxDepth
	}
	if f.ParallelActions != nil {
		cfg.ParallelActions = *f.ParallelActions
	}
	cfg.Model = f.Model
	cfg.OracleTimeout = f.OracleTimeout

	if len(f.Interrupts) > 0 {
		cfg.Interrupts = make(PolicyTable, len(f.Interrupts))
		for name, setting := range f.Interrupts {
			if setting.enabled {
				cfg.Interrupts[name] = setting.policy
			}
		}
	}
	return cfg
}

// Options assembles agent Options from the file, the oracle, and any
// delegated tools supplied by the host.
func (f *AgentFile) Options(o Oracle, tools []Tool) Options {
	cfg := f.Config()
	return Options{
		Instructions: f.Instructions,
		Oracle:       o,
		Tools:        tools,
		Subagents:    f.Subagents,
		Config:       &cfg,
	}
}
