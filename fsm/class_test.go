package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unsaved struct {
	State Field
}

// foreignTransition belongs to a different entity type.
var foreignTransition = Transition[*unsaved]{Target: "x"}

func TestDefineConfigurationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		body     Body[*blogPost]
		opts     []MethodOption
		expected error
	}{
		{"no name", "", Noop[*blogPost](), []MethodOption{Transition[*blogPost]{Target: "a"}}, ErrMethodNameRequired},
		{"no body", "m", nil, []MethodOption{Transition[*blogPost]{Target: "a"}}, ErrBodyRequired},
		{"no transition", "m", Noop[*blogPost](), []MethodOption{Doc("nothing")}, ErrTransitionRequired},
		{"no target", "m", Noop[*blogPost](), []MethodOption{Transition[*blogPost]{Source: Sources("a")}}, ErrTargetRequired},
		{"wildcard target", "m", Noop[*blogPost](), []MethodOption{Transition[*blogPost]{Target: Wildcard}}, ErrWildcardTarget},
		{"foreign option", "m", Noop[*blogPost](), []MethodOption{foreignTransition}, ErrUnsupportedOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			class := NewClass[*blogPost]("Broken")

			method, err := class.Define(tt.method, tt.body, tt.opts...)
			require.ErrorIs(t, err, tt.expected)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Nil(t, method)
			assert.Empty(t, class.Methods())
		})
	}
}

func TestDefineTargetRequiredMessage(t *testing.T) {
	t.Parallel()

	class := NewClass[*blogPost]("BlogPost")

	_, err := class.Define("publish", Noop[*blogPost](), Transition[*blogPost]{Source: Sources("new")})
	require.EqualError(t, err, "BlogPost.publish: result state not specified")
}

func TestDefineSaveRequiresSaver(t *testing.T) {
	t.Parallel()

	class := NewClass[*unsaved]("Unsaved")

	_, err := class.Define("publish", Noop[*unsaved](), Transition[*unsaved]{Target: "published", Save: true})
	require.ErrorIs(t, err, ErrSaverRequired)
}

func TestDefineDuplicateMethod(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)

	_, err := posts.class.Define("publish", Noop[*blogPost](), Transition[*blogPost]{Target: "again"})
	require.ErrorIs(t, err, ErrDuplicateMethod)

	assert.Panics(t, func() {
		posts.class.MustDefine("publish", Noop[*blogPost](), Transition[*blogPost]{Target: "again"})
	})
}

func TestClassLookup(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)

	assert.Equal(t, "BlogPost", posts.class.Name())
	assert.Equal(t, State("new"), posts.class.Initial())

	method, ok := posts.class.Method("hide")
	require.True(t, ok)
	assert.Same(t, posts.hide, method)

	_, ok = posts.class.Method("missing")
	assert.False(t, ok)

	names := make([]string, 0)
	for _, m := range posts.class.Methods() {
		names = append(names, m.Name())
	}

	assert.Equal(t, []string{"publish", "hide", "remove", "steal", "moderate", "restore"}, names)
}

func TestDescriptorSaveAccumulates(t *testing.T) {
	t.Parallel()

	class := NewClass[*blogPost]("Stacked")
	method := class.MustDefine("archive", Noop[*blogPost](),
		Transition[*blogPost]{Source: Sources("new"), Target: "archived", Save: true},
		Transition[*blogPost]{Source: Sources("draft"), Target: "archived"},
	)

	assert.True(t, method.Descriptor().Saves("archived"))

	for _, from := range []State{"new", "draft"} {
		post := &blogPost{State: NewField(from)}

		result, err := method.Fire(context.Background(), post)
		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, 1, post.saves, "from %s", from)
	}
}

func TestDescriptorLastWriteWins(t *testing.T) {
	t.Parallel()

	allow := Condition(func(*blogPost) bool { return true })
	deny := Condition(func(*blogPost) bool { return false })

	class := NewClass[*blogPost]("Stacked")
	method := class.MustDefine("flip", Noop[*blogPost](),
		Transition[*blogPost]{Source: Sources("a"), Target: "b", Conditions: []Guard[*blogPost]{deny}},
		Transition[*blogPost]{Source: Sources("a", "c"), Target: "d"},
		Transition[*blogPost]{Source: Sources("e"), Target: "d", Conditions: []Guard[*blogPost]{allow, allow}},
	)

	desc := method.Descriptor()

	assert.Equal(t, []Rule{
		{Source: "a", Target: "d"},
		{Source: "c", Target: "d"},
		{Source: "e", Target: "d"},
	}, desc.Rules())
	assert.Equal(t, []State{"d"}, desc.Targets())
	assert.Len(t, desc.Conditions("d"), 2)
	assert.Len(t, desc.Conditions("b"), 1)

	target, ok := desc.Target("a")
	assert.True(t, ok)
	assert.Equal(t, State("d"), target)

	_, ok = desc.Target("z")
	assert.False(t, ok)
	assert.False(t, desc.Has("z"))

	post := &blogPost{State: NewField("a")}
	result, err := method.Fire(context.Background(), post)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, State("d"), post.State.Get())
}
