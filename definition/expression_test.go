package definition

import (
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateExpression(t *testing.T) {
	t.Parallel()

	doc := NewDocument("new")
	doc.Set("approved", true)
	doc.Set("locked", "false")
	doc.Set("owner", "alice")
	doc.Set("count", 0)

	args := fsm.Call("thief", fsm.Named("moderator", "bar"))

	tests := []struct {
		expr     string
		expected bool
	}{
		{"always", true},
		{"", true},
		{"never", false},
		{"data.approved", true},
		{"!data.approved", false},
		{"data.locked", false},
		{"!data.locked", true},
		{"data.count", false},
		{"data.missing", false},
		{"!data.missing", true},
		{"data.owner == 'alice'", true},
		{`data.owner == "bob"`, false},
		{"data.owner != 'bob'", true},
		{"data.missing == 'x'", false},
		{"data.missing != 'x'", true},
		{"arg.0 == 'thief'", true},
		{"arg.1 == 'thief'", false},
		{"arg.moderator == 'bar'", true},
		{"arg.moderator != 'bar'", false},
		{"arg.user != 'x'", true},
		{"arg.moderator", false},
		{"data.owner != '=='", true},
		{"data.owner == '=='", false},
		{"data.owner == 'x != y'", false},
		{`data.owner != "a == b"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			expr, err := Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, expr.Evaluate(doc, args))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr     string
		expected error
	}{
		{"a == b == c", ErrInvalidExpression},
		{"user.name", ErrUnsupportedExpression},
		{"data.", ErrUnsupportedExpression},
		{"arg.-1 == 'x'", ErrInvalidExpression},
		{"!!data.x", ErrUnsupportedExpression},
		{"data.a == 'x' != 'y'", ErrInvalidExpression},
		{"data.a b == 'x'", ErrInvalidExpression},
		{"'data.a' == 'x'", ErrInvalidExpression},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(tt.expr)
			require.ErrorIs(t, err, tt.expected)
		})
	}

	assert.Panics(t, func() { MustCompile("nonsense") })

	quoted := MustCompile("data.a != '=='")
	assert.Equal(t, opNotEqual, quoted.op)
	assert.Equal(t, "a", quoted.key)
	assert.Equal(t, "==", quoted.value)
	assert.Equal(t, "data.x", MustCompile(" data.x ").String())
}

func TestExpressionGuard(t *testing.T) {
	t.Parallel()

	guard := MustCompile("data.ready").Guard()

	doc := NewDocument("new")

	ok, err := guard(t.Context(), doc, fsm.Args{})
	require.NoError(t, err)
	assert.False(t, ok)

	doc.Set("ready", true)

	ok, err = guard(t.Context(), doc, fsm.Args{})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.False(t, MustCompile("data.ready").Evaluate(nil, fsm.Args{}))
}
