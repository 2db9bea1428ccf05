package fsm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// State is an opaque token naming a position in an entity's lifecycle.
type State string

// Wildcard matches any current state that has no more specific registration.
// It is reserved and is never a real state value.
const Wildcard State = "*"

func (s State) String() string {
	return string(s)
}

// IsWildcard reports whether s is the reserved wildcard token.
func (s State) IsWildcard() bool {
	return s == Wildcard
}

// Sources is a convenience for building the source list of a Transition.
func Sources(states ...string) []State {
	out := make([]State, len(states))
	for i, s := range states {
		out[i] = State(s)
	}

	return out
}

// Field marks the state-bearing attribute of an entity struct. An entity must
// declare exactly one Field (directly or through an embedded struct).
//
// The zero value holds the empty state.
type Field struct {
	value State
}

// NewField returns a Field initialized to the given state.
func NewField(initial State) Field {
	return Field{value: initial}
}

// Get returns the current value.
func (f Field) Get() State {
	return f.value
}

func (f Field) String() string {
	return string(f.value)
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.value), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	f.value = State(text)

	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f.value))
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("fsm: decode state field: %w", err)
	}

	f.value = State(s)

	return nil
}

// Value implements driver.Valuer so a Field can be written to a text column.
func (f Field) Value() (driver.Value, error) {
	return string(f.value), nil
}

// Scan implements sql.Scanner.
func (f *Field) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		f.value = ""
	case string:
		f.value = State(v)
	case []byte:
		f.value = State(v)
	default:
		return fmt.Errorf("%w: cannot scan %T into fsm.Field", ErrInvalidStateValue, src)
	}

	return nil
}
