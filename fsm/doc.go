// Package fsm attaches finite-state-machine behavior to plain Go structs.
//
// An entity declares exactly one state attribute, either a Field or by
// implementing Stateful. Transition methods are registered on a Class:
//
//	var posts = fsm.NewClass[*Post]("Post", fsm.WithInitial("new"))
//
//	var publish = posts.MustDefine("publish", fsm.Noop[*Post](),
//		fsm.Transition[*Post]{Source: fsm.Sources("new"), Target: "published"},
//	)
//
//	result, err := publish.Fire(ctx, post)
//
// Firing a method checks that the current state has a registered transition
// (an exact source first, then Wildcard), evaluates the guards for the
// resolved target, runs the body, and only then writes the new state. An
// unmet guard is not an error: Result.Applied is false. Accessible lists the
// transitions that would currently be accepted, evaluated the same way.
//
// The package records Prometheus metrics and OpenTelemetry spans for every
// dispatch; a Logger can be attached with WithLogger.
package fsm
