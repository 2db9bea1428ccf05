//nolint:lll // Long validation messages
package validator

import (
	"fmt"
	"slices"

	"github.com/amp-labs/amp-fsm/definition"
	"github.com/amp-labs/amp-fsm/fsm"
)

// Severity defines the severity level of a validation issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule defines a validation rule that can check a definition for specific issues.
type Rule interface {
	Name() string
	Severity() Severity
	Check(def *definition.Definition) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&structureRule{},
		&targetRule{},
		&duplicateMethodRule{},
		&conditionRule{},
		&duplicateSourceRule{},
		&unknownStateRule{},
		&unreachableStateRule{},
		&deadEndRule{},
	}
}

// structureRule checks the fields every definition needs.
type structureRule struct{}

func (r *structureRule) Name() string {
	return "Structure"
}

func (r *structureRule) Severity() Severity {
	return SeverityError
}

func (r *structureRule) Check(def *definition.Definition) RuleResult {
	var errors []ValidationError

	if def.Name == "" {
		errors = append(errors, ValidationError{Code: "MISSING_NAME", Message: "Definition has no name"})
	}

	if def.Initial == "" {
		errors = append(errors, ValidationError{Code: "MISSING_INITIAL", Message: "Definition has no initial state"})
	}

	if len(def.Methods) == 0 {
		errors = append(errors, ValidationError{Code: "NO_METHODS", Message: "Definition declares no methods"})
	}

	for i, method := range def.Methods {
		if method.Name == "" {
			errors = append(errors, ValidationError{
				Code:    "MISSING_METHOD_NAME",
				Message: fmt.Sprintf("Method %d has no name", i),
			})
		}

		if len(method.Transitions) == 0 {
			errors = append(errors, ValidationError{
				Code:     "NO_TRANSITIONS",
				Message:  fmt.Sprintf("Method '%s' declares no transitions", method.Name),
				Location: Location{Method: method.Name},
			})
		}
	}

	return RuleResult{Errors: errors}
}

// targetRule checks that every transition names a concrete target.
type targetRule struct{}

func (r *targetRule) Name() string {
	return "Target"
}

func (r *targetRule) Severity() Severity {
	return SeverityError
}

func (r *targetRule) Check(def *definition.Definition) RuleResult {
	var errors []ValidationError

	for _, method := range def.Methods {
		for i, transition := range method.Transitions {
			switch {
			case transition.Target == "":
				errors = append(errors, ValidationError{
					Code:     "MISSING_TARGET",
					Message:  fmt.Sprintf("Transition %d of method '%s': result state not specified", i, method.Name),
					Location: Location{Method: method.Name},
				})
			case fsm.State(transition.Target).IsWildcard():
				errors = append(errors, ValidationError{
					Code:     "WILDCARD_TARGET",
					Message:  fmt.Sprintf("Transition %d of method '%s' targets the wildcard", i, method.Name),
					Location: Location{Method: method.Name},
				})
			}
		}
	}

	return RuleResult{Errors: errors}
}

// duplicateMethodRule checks that method names are unique.
type duplicateMethodRule struct{}

func (r *duplicateMethodRule) Name() string {
	return "DuplicateMethod"
}

func (r *duplicateMethodRule) Severity() Severity {
	return SeverityError
}

func (r *duplicateMethodRule) Check(def *definition.Definition) RuleResult {
	var errors []ValidationError

	seen := make(map[string]bool)

	for _, method := range def.Methods {
		if method.Name != "" && seen[method.Name] {
			errors = append(errors, ValidationError{
				Code:     "DUPLICATE_METHOD",
				Message:  fmt.Sprintf("Method '%s' is defined more than once", method.Name),
				Location: Location{Method: method.Name},
			})
		}

		seen[method.Name] = true
	}

	return RuleResult{Errors: errors}
}

// conditionRule checks that every condition expression compiles.
type conditionRule struct{}

func (r *conditionRule) Name() string {
	return "Condition"
}

func (r *conditionRule) Severity() Severity {
	return SeverityError
}

func (r *conditionRule) Check(def *definition.Definition) RuleResult {
	var errors []ValidationError

	for _, method := range def.Methods {
		for _, transition := range method.Transitions {
			for _, condition := range transition.Conditions {
				if _, err := definition.Compile(condition); err != nil {
					errors = append(errors, ValidationError{
						Code:     "INVALID_CONDITION",
						Message:  fmt.Sprintf("Method '%s': %v", method.Name, err),
						Location: Location{Method: method.Name},
					})
				}
			}
		}
	}

	return RuleResult{Errors: errors}
}

// duplicateSourceRule warns when a source is registered twice on one method.
// The later registration silently replaces the earlier target.
type duplicateSourceRule struct{}

func (r *duplicateSourceRule) Name() string {
	return "DuplicateSource"
}

func (r *duplicateSourceRule) Severity() Severity {
	return SeverityWarning
}

func (r *duplicateSourceRule) Check(def *definition.Definition) RuleResult {
	var warnings []ValidationWarning

	for _, method := range def.Methods {
		targets := make(map[string]string)

		for _, transition := range method.Transitions {
			sources := []string(transition.Source)
			if len(sources) == 0 {
				sources = []string{string(fsm.Wildcard)}
			}

			for _, source := range sources {
				if previous, ok := targets[source]; ok {
					warnings = append(warnings, ValidationWarning{
						Code:     "DUPLICATE_SOURCE",
						Message:  fmt.Sprintf("Method '%s' registers source '%s' twice; target '%s' replaces '%s'", method.Name, source, transition.Target, previous),
						Location: Location{Method: method.Name, State: source},
					})
				}

				targets[source] = transition.Target
			}
		}
	}

	return RuleResult{Warnings: warnings}
}

// unknownStateRule warns about states used but not declared. It only applies
// when the definition declares its states.
type unknownStateRule struct{}

func (r *unknownStateRule) Name() string {
	return "UnknownState"
}

func (r *unknownStateRule) Severity() Severity {
	return SeverityWarning
}

func (r *unknownStateRule) Check(def *definition.Definition) RuleResult {
	if len(def.States) == 0 {
		return RuleResult{}
	}

	var warnings []ValidationWarning

	for _, state := range def.StateNames() {
		if !slices.Contains(def.States, state) {
			warnings = append(warnings, ValidationWarning{
				Code:     "UNKNOWN_STATE",
				Message:  fmt.Sprintf("State '%s' is used but not declared in states", state),
				Location: Location{State: state},
			})
		}
	}

	return RuleResult{Warnings: warnings}
}

// unreachableStateRule checks for states that cannot be reached from the
// initial state, ignoring conditions.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Severity() Severity {
	return SeverityWarning
}

func (r *unreachableStateRule) Check(def *definition.Definition) RuleResult {
	if def.Initial == "" {
		return RuleResult{}
	}

	var warnings []ValidationWarning

	reachable := reachableStates(def)

	for _, state := range def.StateNames() {
		if !reachable[state] {
			warnings = append(warnings, ValidationWarning{
				Code:     "UNREACHABLE_STATE",
				Message:  fmt.Sprintf("State '%s' cannot be reached from initial state '%s'", state, def.Initial),
				Location: Location{State: state},
			})
		}
	}

	return RuleResult{Warnings: warnings}
}

// deadEndRule warns about states with no way out. Wildcard rules count as a
// way out of every state.
type deadEndRule struct{}

func (r *deadEndRule) Name() string {
	return "DeadEnd"
}

func (r *deadEndRule) Severity() Severity {
	return SeverityWarning
}

func (r *deadEndRule) Check(def *definition.Definition) RuleResult {
	hasOutgoing := make(map[string]bool)

	for _, method := range def.Methods {
		for _, transition := range method.Transitions {
			if transition.Source.IsWildcard() {
				return RuleResult{}
			}

			for _, source := range transition.Source {
				hasOutgoing[source] = true
			}
		}
	}

	var warnings []ValidationWarning

	for _, state := range def.StateNames() {
		if !hasOutgoing[state] {
			warnings = append(warnings, ValidationWarning{
				Code:     "DEAD_END_STATE",
				Message:  fmt.Sprintf("State '%s' has no outgoing transitions", state),
				Location: Location{State: state},
			})
		}
	}

	return RuleResult{Warnings: warnings}
}

// reachableStates walks the graph from the initial state. Wildcard targets
// are reachable from anywhere, so from the initial state too.
func reachableStates(def *definition.Definition) map[string]bool {
	reachable := map[string]bool{def.Initial: true}

	var wildcardTargets []string

	edges := make(map[string][]string)

	for _, method := range def.Methods {
		for _, transition := range method.Transitions {
			if len(transition.Source) == 0 {
				wildcardTargets = append(wildcardTargets, transition.Target)

				continue
			}

			for _, source := range transition.Source {
				if fsm.State(source).IsWildcard() {
					wildcardTargets = append(wildcardTargets, transition.Target)
				} else {
					edges[source] = append(edges[source], transition.Target)
				}
			}
		}
	}

	queue := []string{def.Initial}

	for _, target := range wildcardTargets {
		if !reachable[target] {
			reachable[target] = true
			queue = append(queue, target)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, target := range edges[current] {
			if !reachable[target] {
				reachable[target] = true
				queue = append(queue, target)
			}
		}
	}

	return reachable
}
