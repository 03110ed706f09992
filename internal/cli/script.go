package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step is one API call of a script. Expect and Error are optional assertions on the
// return value and the error register after the call.
type Step struct {
	Call   string   `yaml:"call" json:"call"`
	Args   []string `yaml:"args,omitempty" json:"args,omitempty"`
	Expect *string  `yaml:"expect,omitempty" json:"expect,omitempty"`
	Error  string   `yaml:"error,omitempty" json:"error,omitempty"`
}

// Script is a recorded sequence of API calls against one session.
type Script struct {
	Variant   string         `yaml:"variant,omitempty" json:"variant,omitempty"`
	SessionID string         `yaml:"session_id,omitempty" json:"session_id,omitempty"`
	Data      map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
	Root      string         `yaml:"root,omitempty" json:"root,omitempty"`
	Steps     []Step         `yaml:"steps" json:"steps"`
}

// LoadScript reads a YAML (or JSON) script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if step.Call == "" {
			return nil, fmt.Errorf("step %d has no call", i+1)
		}
	}
	return &s, nil
}
