// Package visualizer generates Mermaid state diagrams from class graphs.
//
//nolint:varnamelen // short names idiomatic
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Visualizer errors.
var (
	ErrNoInitialState = errors.New("graph must have an initial state")
	ErrNoMethods      = errors.New("graph has no methods")
)

const anyStateID = "any_state"

// GenerateMermaid converts a graph to a Mermaid state diagram.
func GenerateMermaid(graph fsm.Graph) (string, error) {
	return GenerateMermaidWithOptions(graph, DefaultOptions())
}

// GenerateMermaidWithOptions generates a Mermaid diagram with custom options.
func GenerateMermaidWithOptions(graph fsm.Graph, opts Options) (string, error) {
	if graph.Initial == "" {
		return "", ErrNoInitialState
	}

	if len(graph.Methods) == 0 {
		return "", ErrNoMethods
	}

	var sb strings.Builder

	// Header
	sb.WriteString("```mermaid\n")
	sb.WriteString("stateDiagram-v2\n")

	if opts.Direction != "" {
		sb.WriteString(fmt.Sprintf("    direction %s\n", opts.Direction))
	}

	states := graph.States()
	title := cases.Title(language.English)

	// State declarations, naturally sorted
	for _, state := range states {
		label := string(state)
		if opts.TitleLabels {
			label = title.String(strings.ReplaceAll(label, "_", " "))
		}

		if id := stateID(state); id != label {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", id, label))
		}
	}

	// Initial state marker
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", stateID(graph.Initial)))

	outgoing := make(map[fsm.State]bool)
	drewAny := false

	for _, method := range graph.Methods {
		exact := make(map[fsm.State]bool)

		for _, rule := range method.Rules {
			if !rule.Source.IsWildcard() {
				exact[rule.Source] = true
			}
		}

		for _, rule := range method.Rules {
			label := edgeLabel(method.Name, rule, opts)

			if !rule.Source.IsWildcard() {
				outgoing[rule.Source] = true
				sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", stateID(rule.Source), stateID(rule.Target), label))

				continue
			}

			if !opts.ExpandWildcards {
				drewAny = true
				sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", anyStateID, stateID(rule.Target), label))

				continue
			}

			// Wildcard rules apply to every state without an exact rule
			for _, state := range states {
				if exact[state] {
					continue
				}

				outgoing[state] = true
				sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", stateID(state), stateID(rule.Target), label))
			}
		}
	}

	if drewAny {
		sb.WriteString(fmt.Sprintf("    %s: any state\n", anyStateID))
	}

	// Dead ends are drawn as final
	for _, state := range states {
		if !outgoing[state] && !drewAny {
			sb.WriteString(fmt.Sprintf("    %s --> [*]\n", stateID(state)))
		}
	}

	// Styling
	highlighted := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlighted[state] = true
	}

	for _, state := range states {
		switch {
		case string(state) == opts.Current:
			sb.WriteString(fmt.Sprintf("    class %s currentState\n", stateID(state)))
		case highlighted[string(state)]:
			sb.WriteString(fmt.Sprintf("    class %s highlighted\n", stateID(state)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef currentState fill:#c8e6c9,stroke:#2e7d32,stroke-width:3px\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	sb.WriteString("```\n")

	return sb.String(), nil
}

func edgeLabel(method string, rule fsm.RuleInfo, opts Options) string {
	if !opts.ShowConditions {
		return method
	}

	switch {
	case len(rule.Labels) > 0:
		return fmt.Sprintf("%s [%s]", method, strings.Join(rule.Labels, " and "))
	case rule.Conditions == 1:
		return method + " [1 guard]"
	case rule.Conditions > 1:
		return fmt.Sprintf("%s [%d guards]", method, rule.Conditions)
	default:
		return method
	}
}

// stateID makes a state token usable as a Mermaid identifier.
func stateID(state fsm.State) string {
	var sb strings.Builder

	for _, r := range string(state) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	if sb.Len() == 0 {
		return "empty"
	}

	return sb.String()
}
