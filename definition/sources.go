package definition

import (
	"fmt"

	"github.com/amp-labs/amp-fsm/fsm"
	"gopkg.in/yaml.v3"
)

// Sources is a list of source states. In YAML it may be written as a single
// scalar or as a sequence; a missing source means the wildcard.
type Sources []string

// UnmarshalYAML accepts both `source: new` and `source: [new, draft]`.
func (s *Sources) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind { //nolint:exhaustive
	case yaml.ScalarNode:
		*s = Sources{node.Value}

		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("failed to decode sources: %w", err)
		}

		*s = list

		return nil
	default:
		return fmt.Errorf("%w (line %d)", ErrInvalidSource, node.Line)
	}
}

// States converts the list for fsm.Transition. An empty list stays empty,
// which the fsm package treats as the wildcard.
func (s Sources) States() []fsm.State {
	if len(s) == 0 {
		return nil
	}

	return fsm.Sources(s...)
}

// IsWildcard reports whether the list matches any state.
func (s Sources) IsWildcard() bool {
	if len(s) == 0 {
		return true
	}

	for _, source := range s {
		if fsm.State(source).IsWildcard() {
			return true
		}
	}

	return false
}
