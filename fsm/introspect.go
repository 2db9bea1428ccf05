package fsm

import (
	"context"
	"slices"

	"facette.io/natsort"
)

// Available is a transition that is currently legal and whose guards pass.
type Available[E any] struct {
	Method *Method[E]
	Target State
}

type indexEntry[E any] struct {
	method *Method[E]
	target State
}

// transitionIndex maps a source state (Wildcard included) to the methods
// registered from it.
type transitionIndex[E any] map[State][]indexEntry[E]

func (c *Class[E]) buildIndex() transitionIndex[E] {
	index := make(transitionIndex[E])

	for _, method := range c.Methods() {
		for _, rule := range method.desc.Rules() {
			index[rule.Source] = append(index[rule.Source], indexEntry[E]{method: method, target: rule.Target})
		}
	}

	recordIndexBuild(c.name)

	return index
}

// Accessible returns the transitions that Fire would accept for entity and
// these arguments: methods registered for the current state, plus wildcard
// methods that have no registration for it. Guards are evaluated exactly as
// Fire evaluates them; nothing is invoked.
//
// Results follow method definition order; use SortAvailable for a stable
// name order.
func (c *Class[E]) Accessible(ctx context.Context, entity E, args ...any) ([]Available[E], error) {
	ctx, span := startAccessibleSpan(ctx, c.name, entity)
	defer span.End()

	// Same check as Fire: an entity that cannot be written has nothing accessible.
	ref, err := resolveWritable(entity)
	if err != nil {
		span.RecordError(err)

		return nil, withMethod(err, c.name, "")
	}

	current := ref.get()

	index := c.index.Get()
	callArgs := Call(args...)

	exact := index[current]
	candidates := slices.Clone(exact)

	if current != Wildcard {
		for _, entry := range index[Wildcard] {
			if !hasMethod(exact, entry.method) {
				candidates = append(candidates, entry)
			}
		}
	}

	var out []Available[E]

	for _, entry := range candidates {
		guards := evaluateGuards(ctx, entry.method.desc.Conditions(entry.target), entity, callArgs)
		if guards.passed {
			out = append(out, Available[E]{Method: entry.method, Target: entry.target})
		}
	}

	span.SetAttributes(accessibleAttributes(current, len(candidates), len(out))...)

	return out, nil
}

func hasMethod[E any](entries []indexEntry[E], method *Method[E]) bool {
	for _, entry := range entries {
		if entry.method == method {
			return true
		}
	}

	return false
}

// SortAvailable orders transitions by method name, then target, using
// natural ordering.
func SortAvailable[E any](available []Available[E]) {
	slices.SortStableFunc(available, func(a, b Available[E]) int {
		if a.Method.name != b.Method.name {
			return naturalCompare(a.Method.name, b.Method.name)
		}

		return naturalCompare(string(a.Target), string(b.Target))
	})
}

func naturalCompare(a, b string) int {
	switch {
	case a == b:
		return 0
	case natsort.Compare(a, b):
		return -1
	default:
		return 1
	}
}
