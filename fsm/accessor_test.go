package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type twoFields struct {
	State  Field
	Status Field
}

type document struct {
	Status Field
	Title  string
}

type auditInfo struct {
	Lifecycle Field
}

type embedded struct {
	auditInfo

	Title string
}

type hiddenField struct {
	state Field //nolint:unused
}

type ticket struct {
	status string
}

func (t *ticket) FSMState() State {
	return State(t.status)
}

func (t *ticket) SetFSMState(state State) {
	t.status = string(state)
}

func TestCurrentStateAndSetState(t *testing.T) {
	t.Parallel()

	doc := &document{Status: NewField("draft")}

	state, err := CurrentState(doc)
	require.NoError(t, err)
	assert.Equal(t, State("draft"), state)

	require.NoError(t, SetState(doc, "any token works"))
	assert.Equal(t, State("any token works"), doc.Status.Get())
}

func TestAccessorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entity   any
		expected error
	}{
		{"nil entity", nil, ErrNilEntity},
		{"nil pointer", (*document)(nil), ErrNilEntity},
		{"no field", &struct{ Name string }{}, ErrNoStateField},
		{"unexported field", &hiddenField{}, ErrNoStateField},
		{"not a struct", new(int), ErrNoStateField},
		{"two fields", &twoFields{}, ErrMultipleStateFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := CurrentState(tt.entity)
			require.ErrorIs(t, err, tt.expected)
			require.ErrorIs(t, err, ErrConfiguration)

			err = SetState(tt.entity, "x")
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSetStateByValue(t *testing.T) {
	t.Parallel()

	doc := document{Status: NewField("draft")}

	state, err := CurrentState(doc)
	require.NoError(t, err)
	assert.Equal(t, State("draft"), state)

	err = SetState(doc, "final")
	require.ErrorIs(t, err, ErrStateNotAddressable)
}

func TestEmbeddedStateField(t *testing.T) {
	t.Parallel()

	entity := &embedded{auditInfo: auditInfo{Lifecycle: NewField("open")}}

	state, err := CurrentState(entity)
	require.NoError(t, err)
	assert.Equal(t, State("open"), state)

	require.NoError(t, SetState(entity, "closed"))
	assert.Equal(t, State("closed"), entity.Lifecycle.Get())
}

func TestStatefulEntity(t *testing.T) {
	t.Parallel()

	class := NewClass[*ticket]("Ticket")
	resolve := class.MustDefine("resolve", Noop[*ticket](),
		Transition[*ticket]{Source: Sources("open"), Target: "resolved"},
	)

	tk := &ticket{status: "open"}

	result, err := resolve.Fire(context.Background(), tk)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "resolved", tk.status)
}

func TestTwoStateFieldsFailDispatch(t *testing.T) {
	t.Parallel()

	class := NewClass[*twoFields]("InvalidModel")
	validate := class.MustDefine("validate", Noop[*twoFields](),
		Transition[*twoFields]{Source: Sources("new"), Target: "valid"},
	)

	_, err := validate.Fire(context.Background(), &twoFields{State: NewField("new"), Status: NewField("new")})
	require.ErrorIs(t, err, ErrMultipleStateFields)

	var cfg *ConfigurationError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "InvalidModel", cfg.Class)
	assert.Equal(t, "validate", cfg.Method)
}

func TestFieldEncoding(t *testing.T) {
	t.Parallel()

	field := NewField("published")

	text, err := field.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "published", string(text))

	data, err := field.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"published"`, string(data))

	var decoded Field
	require.NoError(t, decoded.UnmarshalJSON([]byte(`"hidden"`)))
	assert.Equal(t, State("hidden"), decoded.Get())
	require.Error(t, decoded.UnmarshalJSON([]byte(`42`)))

	value, err := field.Value()
	require.NoError(t, err)
	assert.Equal(t, "published", value)

	require.NoError(t, decoded.Scan([]byte("new")))
	assert.Equal(t, State("new"), decoded.Get())
	require.NoError(t, decoded.Scan(nil))
	assert.Equal(t, State(""), decoded.Get())
	require.ErrorIs(t, decoded.Scan(42), ErrInvalidStateValue)
}

func TestStateHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, Wildcard.IsWildcard())
	assert.False(t, State("new").IsWildcard())
	assert.Equal(t, []State{"a", "*"}, Sources("a", "*"))
	assert.Equal(t, "new", NewField("new").String())
}
