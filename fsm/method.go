package fsm

import (
	"context"
	"time"
)

// Body is the work performed by a transition method. It runs only after the
// legality check and all guards have passed.
type Body[E any] func(ctx context.Context, entity E, args Args) (any, error)

// Do adapts a body that takes no arguments and returns no value.
func Do[E any](fn func(ctx context.Context, entity E) error) Body[E] {
	return func(ctx context.Context, entity E, _ Args) (any, error) {
		return nil, fn(ctx, entity)
	}
}

// Noop is a body that does nothing.
func Noop[E any]() Body[E] {
	return func(context.Context, E, Args) (any, error) {
		return nil, nil //nolint:nilnil
	}
}

// MethodOption is accepted by Define: a Transition[E] or a Doc.
type MethodOption interface {
	methodOption()
}

// Doc documents a method; it is reported by Describe.
type Doc string

func (Doc) methodOption() {}

// Result describes the outcome of a call that was not an error. Applied is
// false when a guard rejected the call; the state is then unchanged.
type Result struct {
	Method  string
	From    State
	To      State
	Applied bool
	Value   any
}

// Method is a transition method bound to a class.
type Method[E any] struct {
	class *Class[E]
	name  string
	doc   string
	body  Body[E]
	desc  *Descriptor[E]
}

func (m *Method[E]) Name() string {
	return m.name
}

func (m *Method[E]) Doc() string {
	return m.doc
}

func (m *Method[E]) Class() *Class[E] {
	return m.class
}

func (m *Method[E]) Descriptor() *Descriptor[E] {
	return m.desc
}

func (m *Method[E]) String() string {
	return m.class.name + "." + m.name
}

// Fire invokes the method on entity. Arguments built with Named are passed
// as named arguments, all others positionally.
func (m *Method[E]) Fire(ctx context.Context, entity E, args ...any) (Result, error) {
	return m.FireArgs(ctx, entity, Call(args...))
}

// FireArgs runs the dispatch protocol:
//  1. the current state must have a registered transition (exact or wildcard),
//     otherwise an *IllegalTransitionError is returned;
//  2. guards for the resolved target run in order; the first one not met
//     ends the call with Result.Applied == false and a nil error;
//  3. the body runs; its error is returned as is;
//  4. the target state is written;
//  5. for targets registered with Save, the entity's Saver runs and its
//     failure is returned as a *PersistError (the state stays advanced).
//
// The state is never modified on steps 1-3. Calls on the same entity must be
// serialized by the caller.
func (m *Method[E]) FireArgs(ctx context.Context, entity E, args Args) (result Result, err error) {
	ctx, span := startFireSpan(ctx, m.class.name, m.name, entity)
	start := time.Now()
	outcome := outcomeError

	defer func() {
		finishFireSpan(span, result, outcome, err)
		recordFire(m.class.name, m.name, result, outcome, time.Since(start))
	}()

	result.Method = m.name

	ref, err := resolveWritable(entity)
	if err != nil {
		return result, withMethod(err, m.class.name, m.name)
	}

	current := ref.get()
	result.From = current

	target, ok := m.desc.Target(current)
	if !ok {
		outcome = outcomeIllegal
		m.logIllegal(ctx, current)

		return result, &IllegalTransitionError{Class: m.class.name, Method: m.name, State: current}
	}

	result.To = target

	guards := evaluateGuards(ctx, m.desc.Conditions(target), entity, args)
	recordGuards(m.class.name, m.name, guards)

	if !guards.passed {
		outcome = outcomeRejected
		m.logRejected(ctx, current, target, guards)

		return result, nil
	}

	value, err := m.body(ctx, entity, args)
	if err != nil {
		outcome = outcomeFailed
		m.logFailed(ctx, current, target, err)

		return result, err
	}

	ref.set(target)

	result.Applied = true
	result.Value = value
	outcome = outcomeApplied

	if m.desc.Saves(target) {
		if err := m.save(ctx, entity, target); err != nil {
			outcome = outcomePersistFailed
			m.logFailed(ctx, current, target, err)

			return result, err
		}
	}

	m.logApplied(ctx, current, target, time.Since(start))

	return result, nil
}

func (m *Method[E]) save(ctx context.Context, entity E, target State) error {
	saver, ok := any(entity).(Saver)
	if !ok {
		return configError(m.class.name, m.name, ErrSaverRequired)
	}

	if err := saver.Save(ctx); err != nil {
		return &PersistError{Method: m.name, State: target, Err: err}
	}

	return nil
}

// CanFire reports whether Fire would get past the legality check and the
// guards for these arguments. Nothing is invoked or modified. Configuration
// errors, including an entity Fire could not write, are returned; an illegal
// state is simply false.
func (m *Method[E]) CanFire(ctx context.Context, entity E, args ...any) (bool, error) {
	ref, err := resolveWritable(entity)
	if err != nil {
		return false, withMethod(err, m.class.name, m.name)
	}

	return m.allowedFrom(ctx, ref.get(), entity, Call(args...)), nil
}

func (m *Method[E]) allowedFrom(ctx context.Context, current State, entity E, args Args) bool {
	target, ok := m.desc.Target(current)
	if !ok {
		return false
	}

	return evaluateGuards(ctx, m.desc.Conditions(target), entity, args).passed
}

// withMethod fills in class and method names on configuration errors coming
// from the accessor.
func withMethod(err error, class, method string) error {
	if ce, ok := err.(*ConfigurationError); ok { //nolint:errorlint
		return &ConfigurationError{Class: class, Method: method, Err: ce.Err}
	}

	return err
}
