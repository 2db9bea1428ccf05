package fsmtest

import (
	"context"
	"sync"
	"time"

	"github.com/amp-labs/amp-fsm/fsm"
	"go.uber.org/atomic"
)

// Event is one logged dispatch outcome.
type Event struct {
	Outcome Outcome
	Class   string
	Method  string
	From    fsm.State
	To      fsm.State
	Guard   int
	Err     error
}

// Recorder is an fsm.Logger that keeps every event. Attach it with
// fsm.WithLogger.
type Recorder struct {
	applied  atomic.Int64
	rejected atomic.Int64
	illegal  atomic.Int64
	failed   atomic.Int64

	mu     sync.Mutex
	events []Event
}

var _ fsm.Logger = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) TransitionApplied(_ context.Context, class, method string, from, to fsm.State, _ time.Duration) {
	r.applied.Inc()
	r.add(Event{Outcome: Applied, Class: class, Method: method, From: from, To: to, Guard: -1})
}

func (r *Recorder) TransitionRejected(
	_ context.Context, class, method string, from, to fsm.State, guard int, err error,
) {
	r.rejected.Inc()
	r.add(Event{Outcome: Rejected, Class: class, Method: method, From: from, To: to, Guard: guard, Err: err})
}

func (r *Recorder) TransitionIllegal(_ context.Context, class, method string, from fsm.State) {
	r.illegal.Inc()
	r.add(Event{Outcome: Illegal, Class: class, Method: method, From: from, Guard: -1})
}

func (r *Recorder) TransitionFailed(_ context.Context, class, method string, from, to fsm.State, err error) {
	r.failed.Inc()
	r.add(Event{Outcome: Failed, Class: class, Method: method, From: from, To: to, Guard: -1, Err: err})
}

func (r *Recorder) add(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Count returns how many events had the given outcome.
func (r *Recorder) Count(outcome Outcome) int64 {
	switch outcome {
	case Applied:
		return r.applied.Load()
	case Rejected:
		return r.rejected.Load()
	case Illegal:
		return r.illegal.Load()
	case Failed:
		return r.failed.Load()
	default:
		return 0
	}
}

// Reset drops all events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.applied.Store(0)
	r.rejected.Store(0)
	r.illegal.Store(0)
	r.failed.Store(0)
}
