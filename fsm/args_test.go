package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	t.Parallel()

	args := Call("alice", Named("moderator", "bar"), 7)

	assert.Equal(t, []any{"alice", 7}, args.Positional)
	assert.Equal(t, map[string]any{"moderator": "bar"}, args.Named)
	assert.Equal(t, 2, args.Len())
	assert.False(t, args.Empty())
	assert.True(t, Call().Empty())

	merged := Call(args, Named("extra", true))
	assert.Equal(t, []any{"alice", 7}, merged.Positional)
	assert.Len(t, merged.Named, 2)

	value, ok := merged.Lookup("extra")
	assert.True(t, ok)
	assert.Equal(t, true, value)
}

func TestArgAt(t *testing.T) {
	t.Parallel()

	args := Call("alice", 3)

	user, err := ArgAt[string](args, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	_, err = ArgAt[string](args, 1)
	require.ErrorIs(t, err, ErrArgument)

	_, err = ArgAt[int](args, 5)
	require.ErrorIs(t, err, ErrArgument)
}

func TestNamedArg(t *testing.T) {
	t.Parallel()

	args := Call(Named("moderator", "baz"), Named("count", 2))

	moderator, err := NamedArg(args, "moderator", "bar")
	require.NoError(t, err)
	assert.Equal(t, "baz", moderator)

	missing, err := NamedArg(args, "user", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", missing)

	_, err = NamedArg(args, "count", "x")
	require.ErrorIs(t, err, ErrArgument)
}

func TestDecodeNamed(t *testing.T) {
	t.Parallel()

	type reviewArgs struct {
		Moderator string `mapstructure:"moderator"`
		Priority  int    `mapstructure:"priority"`
	}

	var decoded reviewArgs
	require.NoError(t, DecodeNamed(Call(Named("moderator", "bar"), Named("priority", 2)), &decoded))
	assert.Equal(t, reviewArgs{Moderator: "bar", Priority: 2}, decoded)

	err := DecodeNamed(Call(Named("unknown", 1)), &decoded)
	require.ErrorIs(t, err, ErrArgument)
}
