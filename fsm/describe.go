package fsm

import "facette.io/natsort"

// Graph is a static description of a class, used by visualizers and linters.
type Graph struct {
	Class   string       `json:"class"             yaml:"class"`
	Initial State        `json:"initial,omitempty" yaml:"initial,omitempty"`
	Methods []MethodInfo `json:"methods"           yaml:"methods"`
}

// MethodInfo describes one method of a Graph.
type MethodInfo struct {
	Name  string     `json:"name"          yaml:"name"`
	Doc   string     `json:"doc,omitempty" yaml:"doc,omitempty"`
	Rules []RuleInfo `json:"rules"         yaml:"rules"`
}

// RuleInfo describes one source -> target pair of a method.
type RuleInfo struct {
	Source     State    `json:"source"           yaml:"source"`
	Target     State    `json:"target"           yaml:"target"`
	Conditions int      `json:"conditions"       yaml:"conditions"`
	Save       bool     `json:"save,omitempty"   yaml:"save,omitempty"`
	Labels     []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Describe returns the class graph in method definition order.
func (c *Class[E]) Describe() Graph {
	graph := Graph{Class: c.name, Initial: c.initial}

	for _, method := range c.Methods() {
		info := MethodInfo{Name: method.name, Doc: method.doc}

		for _, rule := range method.desc.Rules() {
			info.Rules = append(info.Rules, RuleInfo{
				Source:     rule.Source,
				Target:     rule.Target,
				Conditions: len(method.desc.Conditions(rule.Target)),
				Save:       method.desc.Saves(rule.Target),
				Labels:     method.desc.labels[rule.Target],
			})
		}

		graph.Methods = append(graph.Methods, info)
	}

	return graph
}

// States returns every concrete state mentioned by the graph, naturally
// sorted. The wildcard is not a state and is left out.
func (g Graph) States() []State {
	seen := make(map[string]bool)

	if g.Initial != "" {
		seen[string(g.Initial)] = true
	}

	for _, method := range g.Methods {
		for _, rule := range method.Rules {
			if !rule.Source.IsWildcard() {
				seen[string(rule.Source)] = true
			}

			seen[string(rule.Target)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	natsort.Sort(names)

	states := make([]State, len(names))
	for i, name := range names {
		states[i] = State(name)
	}

	return states
}

// Reachable returns the states accessible from any state, ignoring guards:
// exact rules from that state, plus wildcard rules of methods without one.
func (g Graph) Reachable(from State) []State {
	var out []State

	for _, method := range g.Methods {
		var wildcard, exact []State

		for _, rule := range method.Rules {
			switch rule.Source {
			case from:
				exact = append(exact, rule.Target)
			case Wildcard:
				wildcard = append(wildcard, rule.Target)
			}
		}

		if len(exact) > 0 {
			out = append(out, exact...)
		} else {
			out = append(out, wildcard...)
		}
	}

	return out
}
