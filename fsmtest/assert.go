// Package fsmtest provides testing utilities for classes built with the fsm
// package: assertions, scenario runners and a recording logger.
package fsmtest

import (
	"context"
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertState checks the entity's current state.
func AssertState(t testing.TB, entity any, want fsm.State) bool {
	t.Helper()

	got, err := fsm.CurrentState(entity)
	if !assert.NoError(t, err, "reading state") {
		return false
	}

	return assert.Equal(t, want, got, "unexpected state")
}

// AssertApplied checks that a call succeeded and moved the entity to want.
func AssertApplied(t testing.TB, result fsm.Result, err error, want fsm.State) bool {
	t.Helper()

	return assert.NoError(t, err) &&
		assert.True(t, result.Applied, "%s was not applied", result.Method) &&
		assert.Equal(t, want, result.To)
}

// AssertRejected checks that a guard rejected the call.
func AssertRejected(t testing.TB, result fsm.Result, err error) bool {
	t.Helper()

	return assert.NoError(t, err) &&
		assert.False(t, result.Applied, "%s was applied", result.Method)
}

// AssertIllegal checks that the call failed because the current state has
// no transition for the method.
func AssertIllegal(t testing.TB, err error) bool {
	t.Helper()

	return assert.ErrorIs(t, err, fsm.ErrIllegalTransition)
}

// AssertAccessible checks the set of accessible transitions, written as
// "method->target", in any order.
func AssertAccessible[E any](t testing.TB, class *fsm.Class[E], entity E, want []string, args ...any) bool {
	t.Helper()

	available, err := class.Accessible(context.Background(), entity, args...)
	require.NoError(t, err)

	return assert.ElementsMatch(t, want, Names(available))
}

// Names renders accessible transitions as "method->target".
func Names[E any](available []fsm.Available[E]) []string {
	names := make([]string, len(available))
	for i, a := range available {
		names[i] = a.Method.Name() + "->" + string(a.Target)
	}

	return names
}
