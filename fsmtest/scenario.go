package fsmtest

import (
	"context"
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Outcome is the expected result of a scenario step.
type Outcome int

const (
	Applied Outcome = iota
	Rejected
	Illegal
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Illegal:
		return "illegal"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Step is one call of a scenario.
type Step[E any] struct {
	Method *fsm.Method[E]
	Args   []any
	Expect Outcome
	// State is the expected state after the step; empty skips the check.
	State fsm.State
}

// Scenario is a sequence of calls on one entity.
type Scenario[E any] struct {
	Name   string
	Entity func() E
	Steps  []Step[E]
}

// RunScenario runs the steps in order as a subtest.
func RunScenario[E any](t *testing.T, scenario Scenario[E]) {
	t.Helper()

	t.Run(scenario.Name, func(t *testing.T) {
		t.Helper()

		entity := scenario.Entity()
		ctx := context.Background()

		for i, step := range scenario.Steps {
			require.NotNil(t, step.Method, "step %d has no method", i)

			result, err := step.Method.Fire(ctx, entity, step.Args...)

			switch step.Expect {
			case Applied:
				require.NoError(t, err, "step %d (%s)", i, step.Method)
				assert.True(t, result.Applied, "step %d (%s) was not applied", i, step.Method)
			case Rejected:
				require.NoError(t, err, "step %d (%s)", i, step.Method)
				assert.False(t, result.Applied, "step %d (%s) was applied", i, step.Method)
			case Illegal:
				require.ErrorIs(t, err, fsm.ErrIllegalTransition, "step %d (%s)", i, step.Method)
			case Failed:
				require.Error(t, err, "step %d (%s)", i, step.Method)
				assert.False(t, fsm.IsIllegalTransition(err), "step %d (%s) was illegal", i, step.Method)
			}

			if step.State != "" {
				AssertState(t, entity, step.State)
			}
		}
	})
}
