package fsm

import (
	"context"
	"fmt"
)

// Guard is a condition evaluated against the entity and the call arguments.
// Returning false, returning an error, or panicking all mean "not met".
// Guards must not mutate the entity.
type Guard[E any] func(ctx context.Context, entity E, args Args) (bool, error)

// Condition adapts a predicate that only looks at the entity.
func Condition[E any](predicate func(entity E) bool) Guard[E] {
	return func(_ context.Context, entity E, _ Args) (bool, error) {
		return predicate(entity), nil
	}
}

// Arity rejects calls that carry named arguments or whose positional count
// differs from n, mirroring a predicate with a fixed signature.
func Arity[E any](n int, guard Guard[E]) Guard[E] {
	return func(ctx context.Context, entity E, args Args) (bool, error) {
		if args.Len() != n || len(args.Named) > 0 {
			return false, fmt.Errorf("%w: guard takes %d positional argument(s), got %d positional and %d named",
				ErrArgument, n, args.Len(), len(args.Named))
		}

		return guard(ctx, entity, args)
	}
}

// guardOutcome is the result of evaluating a guard list.
type guardOutcome struct {
	passed bool
	index  int   // index of the first guard that did not pass
	err    error // error or recovered panic of that guard, if any
}

// evaluateGuards runs guards in order and stops at the first one not met.
func evaluateGuards[E any](ctx context.Context, guards []Guard[E], entity E, args Args) guardOutcome {
	for i, guard := range guards {
		if guard == nil {
			continue
		}

		ok, err := callGuard(ctx, guard, entity, args)
		if err != nil || !ok {
			return guardOutcome{passed: false, index: i, err: err}
		}
	}

	return guardOutcome{passed: true, index: -1}
}

func callGuard[E any](ctx context.Context, guard Guard[E], entity E, args Args) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("guard panicked: %v", r)
		}
	}()

	return guard(ctx, entity, args)
}
