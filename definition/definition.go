// Package definition loads state machine classes from YAML.
//
// A definition lists methods with their transitions; conditions are small
// expressions evaluated against the call arguments and the document data.
// Build turns a definition into an fsm.Class over Document.
package definition

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/amp-labs/amp-fsm/fsm"
	"gopkg.in/yaml.v3"
)

// Definition is the YAML form of a class.
type Definition struct {
	Name    string         `json:"name"             yaml:"name"`
	Initial string         `json:"initial"          yaml:"initial"`
	States  []string       `json:"states,omitempty" yaml:"states,omitempty"`
	Methods []MethodConfig `json:"methods"          yaml:"methods"`
}

// MethodConfig defines one transition method.
type MethodConfig struct {
	Name        string             `json:"name"          yaml:"name"`
	Doc         string             `json:"doc,omitempty" yaml:"doc,omitempty"`
	Transitions []TransitionConfig `json:"transitions"   yaml:"transitions"`
	// Set is written into the document data when the method runs.
	Set map[string]any `json:"set,omitempty" yaml:"set,omitempty"`
}

// TransitionConfig defines one Source -> Target declaration of a method.
type TransitionConfig struct {
	Source     Sources  `json:"source"               yaml:"source"`
	Target     string   `json:"target"               yaml:"target"`
	Save       bool     `json:"save,omitempty"       yaml:"save,omitempty"`
	Conditions []string `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Load reads and validates a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %q: %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a definition from YAML bytes.
func LoadFromBytes(data []byte) (*Definition, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}

// LoadFromFS loads a definition from an embedded filesystem.
func LoadFromFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition from FS: %w", err)
	}

	return LoadFromBytes(data)
}

// Parse decodes YAML without validating it. The validator package uses it
// to report every problem instead of the first one.
func Parse(data []byte) (*Definition, error) {
	var def Definition

	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &def, nil
}

// ParseFile reads and decodes a definition file without validating it.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %q: %w", path, err)
	}

	return Parse(data)
}

// Validate checks the structure Build relies on. Graph-level problems
// (unreachable states, dead ends) are reported by the validator package.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}

	if d.Initial == "" {
		return ErrInitialRequired
	}

	if len(d.Methods) == 0 {
		return ErrMethodRequired
	}

	names := make(map[string]bool)

	for i, method := range d.Methods {
		if method.Name == "" {
			return fmt.Errorf("method %d: %w", i, ErrMethodNameRequired)
		}

		if names[method.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateMethod, method.Name)
		}

		names[method.Name] = true

		if len(method.Transitions) == 0 {
			return fmt.Errorf("method %s: %w", method.Name, ErrTransitionRequired)
		}

		for j, transition := range method.Transitions {
			if transition.Target == "" {
				return fmt.Errorf("method %s, transition %d: %w", method.Name, j, ErrTargetRequired)
			}

			if fsm.State(transition.Target).IsWildcard() {
				return fmt.Errorf("method %s, transition %d: %w", method.Name, j, ErrWildcardTarget)
			}

			for _, condition := range transition.Conditions {
				if _, err := Compile(condition); err != nil {
					return fmt.Errorf("method %s, transition %d: %w", method.Name, j, err)
				}
			}
		}
	}

	return nil
}

// StateNames returns every state the definition mentions: declared states,
// the initial state, sources and targets. The wildcard is left out.
func (d *Definition) StateNames() []string {
	seen := make(map[string]bool)

	var out []string

	add := func(name string) {
		if name == "" || fsm.State(name).IsWildcard() || seen[name] {
			return
		}

		seen[name] = true

		out = append(out, name)
	}

	add(d.Initial)

	for _, state := range d.States {
		add(state)
	}

	for _, method := range d.Methods {
		for _, transition := range method.Transitions {
			for _, source := range transition.Source {
				add(source)
			}

			add(transition.Target)
		}
	}

	return out
}
