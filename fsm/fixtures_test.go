package fsm

import (
	"context"
	"errors"
	"testing"
)

var errRemove = errors.New("post cannot be removed")

type blogPost struct {
	State Field

	saves   int
	saveErr error
}

func newBlogPost() *blogPost {
	return &blogPost{State: NewField("new")}
}

func (p *blogPost) Save(context.Context) error {
	p.saves++

	return p.saveErr
}

type blogPostClass struct {
	class    *Class[*blogPost]
	publish  *Method[*blogPost]
	hide     *Method[*blogPost]
	remove   *Method[*blogPost]
	steal    *Method[*blogPost]
	moderate *Method[*blogPost]
	restore  *Method[*blogPost]
}

// newBlogPostClass builds a fresh class per test so parallel tests never
// share an index.
func newBlogPostClass(t *testing.T, opts ...ClassOption) blogPostClass {
	t.Helper()

	class := NewClass[*blogPost]("BlogPost", append([]ClassOption{WithInitial("new")}, opts...)...)

	return blogPostClass{
		class: class,
		publish: class.MustDefine("publish", Noop[*blogPost](),
			Transition[*blogPost]{Source: Sources("new"), Target: "published"},
			Doc("Make the post public"),
		),
		hide: class.MustDefine("hide", Noop[*blogPost](),
			Transition[*blogPost]{Source: Sources("published"), Target: "hidden"},
		),
		remove: class.MustDefine("remove",
			Do(func(context.Context, *blogPost) error { return errRemove }),
			Transition[*blogPost]{Source: Sources("new"), Target: "removed"},
		),
		steal: class.MustDefine("steal", Noop[*blogPost](),
			Transition[*blogPost]{Source: Sources("published", "hidden"), Target: "stolen"},
		),
		moderate: class.MustDefine("moderate", Noop[*blogPost](),
			Transition[*blogPost]{Source: Sources("*"), Target: "moderated"},
		),
		restore: class.MustDefine("restore", Noop[*blogPost](),
			Transition[*blogPost]{Target: "new"},
			Transition[*blogPost]{Source: Sources("moderated"), Target: "published"},
		),
	}
}

func availableNames[E any](available []Available[E]) []string {
	names := make([]string, len(available))
	for i, a := range available {
		names[i] = a.Method.Name() + "->" + string(a.Target)
	}

	return names
}
