package fsm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessible(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()

	tests := []struct {
		state    State
		expected []string
	}{
		{"new", []string{"publish->published", "remove->removed", "moderate->moderated", "restore->new"}},
		{"published", []string{"hide->hidden", "steal->stolen", "moderate->moderated", "restore->new"}},
		{"hidden", []string{"steal->stolen", "moderate->moderated", "restore->new"}},
		{"moderated", []string{"restore->published", "moderate->moderated"}},
		{"unknown", []string{"moderate->moderated", "restore->new"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()

			available, err := posts.class.Accessible(ctx, &blogPost{State: NewField(tt.state)})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, availableNames(available))
		})
	}
}

func TestAccessibleMatchesFire(t *testing.T) {
	t.Parallel()

	_, methods := newReviewedClass(t)
	class := methods["publish"].Class()
	ctx := context.Background()

	for _, approved := range []bool{true, false} {
		post := &reviewedPost{State: NewField("new"), Approved: approved}

		available, err := class.Accessible(ctx, post, "alice")
		require.NoError(t, err)

		listed := make(map[string]bool)
		for _, a := range available {
			listed[a.Method.Name()] = true
		}

		for name, method := range methods {
			ok, err := method.CanFire(ctx, post, "alice")
			require.NoError(t, err)
			assert.Equal(t, ok, listed[name], "method %s approved=%v", name, approved)
		}
	}
}

func TestAccessibleConfigurationError(t *testing.T) {
	t.Parallel()

	type stateless struct {
		Name string
	}

	class := NewClass[*stateless]("Stateless")
	class.MustDefine("go", Noop[*stateless](), Transition[*stateless]{Target: "gone"})

	_, err := class.Accessible(context.Background(), &stateless{})
	require.ErrorIs(t, err, ErrNoStateField)
	assert.True(t, IsConfigurationError(err))
}

func TestIndexBuiltOnce(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), posts.class.index.Builds())

	var wg sync.WaitGroup

	for range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := posts.class.Accessible(ctx, newBlogPost())
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, int64(1), posts.class.index.Builds())

	posts.class.MustDefine("archive", Noop[*blogPost](),
		Transition[*blogPost]{Source: Sources("new"), Target: "archived"},
	)

	available, err := posts.class.Accessible(ctx, newBlogPost())
	require.NoError(t, err)
	assert.Contains(t, availableNames(available), "archive->archived")
	assert.Equal(t, int64(2), posts.class.index.Builds())

	posts.class.Invalidate()

	_, err = posts.class.Accessible(ctx, newBlogPost())
	require.NoError(t, err)
	assert.Equal(t, int64(3), posts.class.index.Builds())
}

func TestConcurrentFireOnDistinctEntities(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)
	ctx := context.Background()

	entities := make([]*blogPost, 64)
	for i := range entities {
		entities[i] = newBlogPost()
	}

	var wg sync.WaitGroup

	for _, post := range entities {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := posts.publish.Fire(ctx, post)
			assert.NoError(t, err)

			_, err = posts.class.Accessible(ctx, post)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	for _, post := range entities {
		assert.Equal(t, State("published"), post.State.Get())
	}
}

func TestSortAvailable(t *testing.T) {
	t.Parallel()

	posts := newBlogPostClass(t)

	available, err := posts.class.Accessible(context.Background(), newBlogPost())
	require.NoError(t, err)

	SortAvailable(available)
	assert.Equal(t, []string{"moderate->moderated", "publish->published", "remove->removed", "restore->new"},
		availableNames(available))

	class := NewClass[*blogPost]("Numbered")
	for _, name := range []string{"step10", "step2", "step1"} {
		class.MustDefine(name, Noop[*blogPost](), Transition[*blogPost]{Target: "done"})
	}

	available, err = class.Accessible(context.Background(), newBlogPost())
	require.NoError(t, err)

	SortAvailable(available)
	assert.Equal(t, []string{"step1->done", "step2->done", "step10->done"}, availableNames(available))
}
