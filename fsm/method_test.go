package fsm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireAppliesTransition(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	post := newBlogPost()

	result, err := posts.publish.Fire(context.Background(), post)
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.Equal(t, "publish", result.Method)
	assert.Equal(t, State("new"), result.From)
	assert.Equal(t, State("published"), result.To)
	assert.Equal(t, State("published"), post.State.Get())

	_, err = posts.hide.Fire(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, State("hidden"), post.State.Get())
}

func TestFireIllegalTransition(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	post := newBlogPost()
	ctx := context.Background()

	for range 2 {
		result, err := posts.hide.Fire(ctx, post)
		require.Error(t, err)

		assert.False(t, result.Applied)
		require.ErrorIs(t, err, ErrIllegalTransition)
		assert.True(t, IsIllegalTransition(err))
		assert.EqualError(t, err, "can't switch from state 'new' using method 'hide'")

		var illegal *IllegalTransitionError
		require.ErrorAs(t, err, &illegal)
		assert.Equal(t, "BlogPost", illegal.Class)
		assert.Equal(t, State("new"), illegal.State)

		assert.Equal(t, State("new"), post.State.Get())
	}
}

func TestFireBodyErrorKeepsState(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	post := newBlogPost()

	result, err := posts.remove.Fire(context.Background(), post)
	require.ErrorIs(t, err, errRemove)

	assert.False(t, result.Applied)
	assert.Equal(t, State("new"), post.State.Get())
}

func TestFireBodyPanicKeepsState(t *testing.T) {
	t.Parallel()

	class := NewClass[*blogPost]("Panicky")
	explode := class.MustDefine("explode",
		Do(func(context.Context, *blogPost) error { panic("boom") }),
		Transition[*blogPost]{Source: Sources("new"), Target: "exploded"},
	)

	post := newBlogPost()

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = explode.Fire(context.Background(), post)
	})
	assert.Equal(t, State("new"), post.State.Get())
}

func TestFireMultipleSources(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()

	for _, from := range []State{"published", "hidden"} {
		post := &blogPost{State: NewField(from)}

		_, err := posts.steal.Fire(ctx, post)
		require.NoError(t, err)
		assert.Equal(t, State("stolen"), post.State.Get())
	}

	_, err := posts.steal.Fire(ctx, newBlogPost())
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestFireWildcard(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()

	for _, from := range []State{"new", "published", "hidden", "anything", ""} {
		post := &blogPost{State: NewField(from)}

		_, err := posts.moderate.Fire(ctx, post)
		require.NoError(t, err, "from %q", from)
		assert.Equal(t, State("moderated"), post.State.Get())
	}
}

func TestFireExactSourceBeatsWildcard(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()

	post := &blogPost{State: NewField("moderated")}
	result, err := posts.restore.Fire(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, State("published"), result.To)

	post = &blogPost{State: NewField("hidden")}
	result, err = posts.restore.Fire(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, State("new"), result.To)
}

func TestFireReturnsBodyValue(t *testing.T) {
	t.Parallel()

	class := NewClass[*blogPost]("Counter")
	count := class.MustDefine("count",
		func(_ context.Context, _ *blogPost, args Args) (any, error) {
			return args.Len(), nil
		},
		Transition[*blogPost]{Target: "counted"},
	)

	result, err := count.Fire(context.Background(), newBlogPost(), 1, 2, Named("x", 3))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Value)
}

func TestFireSave(t *testing.T) {
	t.Parallel()

	class := NewClass[*blogPost]("Saved")
	publish := class.MustDefine("publish", Noop[*blogPost](),
		Transition[*blogPost]{Source: Sources("new"), Target: "published", Save: true},
	)
	draft := class.MustDefine("draft", Noop[*blogPost](),
		Transition[*blogPost]{Source: Sources("published"), Target: "new"},
	)

	ctx := context.Background()
	post := newBlogPost()

	_, err := publish.Fire(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, 1, post.saves)

	_, err = draft.Fire(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, 1, post.saves, "draft does not save")
}

func TestFireSaveFailure(t *testing.T) {
	t.Parallel()

	class := NewClass[*blogPost]("SaveFails")
	publish := class.MustDefine("publish", Noop[*blogPost](),
		Transition[*blogPost]{Source: Sources("new"), Target: "published", Save: true},
	)

	errDisk := errors.New("disk full")
	post := newBlogPost()
	post.saveErr = errDisk

	result, err := publish.Fire(context.Background(), post)
	require.ErrorIs(t, err, errDisk)

	var persist *PersistError
	require.ErrorAs(t, err, &persist)
	assert.Equal(t, State("published"), persist.State)

	assert.True(t, result.Applied)
	assert.Equal(t, State("published"), post.State.Get())
}

func TestFireNotAddressable(t *testing.T) {
	t.Parallel()

	type valuePost struct {
		State Field
	}

	class := NewClass[valuePost]("ValuePost")
	publish := class.MustDefine("publish", Noop[valuePost](),
		Transition[valuePost]{Source: Sources("new"), Target: "published"},
	)

	guardCalled := false
	check := class.MustDefine("check", Noop[valuePost](),
		Transition[valuePost]{
			Target: "checked",
			Conditions: []Guard[valuePost]{
				Condition(func(valuePost) bool {
					guardCalled = true

					return true
				}),
			},
		},
	)

	post := valuePost{State: NewField("new")}

	_, err := publish.Fire(context.Background(), post)
	require.ErrorIs(t, err, ErrStateNotAddressable)
	require.ErrorIs(t, err, ErrConfiguration)

	var cfg *ConfigurationError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "ValuePost", cfg.Class)
	assert.Equal(t, "publish", cfg.Method)

	_, err = check.Fire(context.Background(), post)
	require.ErrorIs(t, err, ErrStateNotAddressable)
	assert.False(t, guardCalled)
}

func TestIntrospectionNotAddressable(t *testing.T) {
	t.Parallel()

	type valuePost struct {
		State Field
	}

	class := NewClass[valuePost]("ValuePost")
	publish := class.MustDefine("publish", Noop[valuePost](),
		Transition[valuePost]{Source: Sources("new"), Target: "published"},
	)

	post := valuePost{State: NewField("new")}
	ctx := context.Background()

	ok, err := publish.CanFire(ctx, post)
	require.ErrorIs(t, err, ErrStateNotAddressable)
	assert.False(t, ok)

	available, err := class.Accessible(ctx, post)
	require.ErrorIs(t, err, ErrStateNotAddressable)
	assert.Empty(t, available)

	_, err = publish.Fire(ctx, post)
	require.ErrorIs(t, err, ErrStateNotAddressable)
}

func TestCanFire(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()
	post := newBlogPost()

	ok, err := posts.publish.CanFire(ctx, post)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = posts.hide.CanFire(ctx, post)
	require.NoError(t, err)
	assert.False(t, ok)

	// CanFire never runs a body.
	ok, err = posts.remove.CanFire(ctx, post)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, State("new"), post.State.Get())
}

func TestMethodString(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)

	assert.Equal(t, "BlogPost.publish", posts.publish.String())
	assert.Equal(t, "Make the post public", posts.publish.Doc())
	assert.Same(t, posts.class, posts.publish.Class())
	assert.True(t, posts.publish.Descriptor().Has("new"))
}
