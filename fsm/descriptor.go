package fsm

import "slices"

// Transition declares one legal move for a method: from any of Source to
// Target, allowed only when every condition passes. An empty Source means
// Wildcard. When Save is set the entity's Saver runs after the state advance.
// Labels optionally name the conditions for Describe.
type Transition[E any] struct {
	Source     []State
	Target     State
	Save       bool
	Conditions []Guard[E]
	Labels     []string
}

// Rule is a single source -> target pair of a descriptor.
type Rule struct {
	Source State
	Target State
}

// Descriptor is the transition metadata attached to one method. It is built
// once when the method is defined and never changes afterwards.
//
// Registering a source that is already present overwrites its target, and
// registering conditions for a target overwrites the previous list: the last
// registration wins. Save is the exception and accumulates per target.
type Descriptor[E any] struct {
	sources     []State // registration order
	transitions map[State]State
	conditions  map[State][]Guard[E]
	saves       map[State]bool
	labels      map[State][]string
}

func newDescriptor[E any]() *Descriptor[E] {
	return &Descriptor[E]{
		transitions: make(map[State]State),
		conditions:  make(map[State][]Guard[E]),
		saves:       make(map[State]bool),
		labels:      make(map[State][]string),
	}
}

// register adds one source -> target pair.
func (d *Descriptor[E]) register(source, target State) {
	if _, exists := d.transitions[source]; !exists {
		d.sources = append(d.sources, source)
	}

	d.transitions[source] = target
}

// apply registers a whole Transition declaration. Target must already be validated.
func (d *Descriptor[E]) apply(t Transition[E]) {
	sources := t.Source
	if len(sources) == 0 {
		sources = []State{Wildcard}
	}

	for _, source := range sources {
		d.register(source, t.Target)
	}

	d.conditions[t.Target] = slices.Clone(t.Conditions)
	// Save is sticky: once any declaration for a target saves, the target saves.
	d.saves[t.Target] = d.saves[t.Target] || t.Save
	d.labels[t.Target] = slices.Clone(t.Labels)
}

// Target returns the target for the given current state, preferring an exact
// source match over the wildcard.
func (d *Descriptor[E]) Target(current State) (State, bool) {
	if target, ok := d.transitions[current]; ok {
		return target, true
	}

	target, ok := d.transitions[Wildcard]

	return target, ok
}

// Has reports whether a transition exists from current, wildcard included.
func (d *Descriptor[E]) Has(current State) bool {
	_, ok := d.Target(current)

	return ok
}

// Conditions returns the ordered guards registered for target.
func (d *Descriptor[E]) Conditions(target State) []Guard[E] {
	return d.conditions[target]
}

// Saves reports whether reaching target triggers the save hook.
func (d *Descriptor[E]) Saves(target State) bool {
	return d.saves[target]
}

// Rules returns every source -> target pair in registration order.
func (d *Descriptor[E]) Rules() []Rule {
	rules := make([]Rule, 0, len(d.sources))
	for _, source := range d.sources {
		rules = append(rules, Rule{Source: source, Target: d.transitions[source]})
	}

	return rules
}

// Targets returns the distinct target states in registration order.
func (d *Descriptor[E]) Targets() []State {
	var targets []State

	for _, source := range d.sources {
		if target := d.transitions[source]; !slices.Contains(targets, target) {
			targets = append(targets, target)
		}
	}

	return targets
}

func (Transition[E]) methodOption() {}
