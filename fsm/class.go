package fsm

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/amp-labs/amp-fsm/lazy"
)

var saverType = reflect.TypeFor[Saver]()

// Class holds the transition methods declared for one entity type together
// with the lazily built index used by Accessible. Define methods at package
// init time; a Class is safe for concurrent use afterwards.
type Class[E any] struct {
	name    string
	initial State
	logger  Logger
	canSave bool

	mu      sync.RWMutex
	methods []*Method[E]
	byName  map[string]*Method[E]

	index *lazy.Of[transitionIndex[E]]
}

// ClassOption configures a Class.
type ClassOption func(*classOptions)

type classOptions struct {
	initial State
	logger  Logger
}

// WithInitial records the state new entities start in. It is informational
// (used by Describe and tooling); the entity's own field holds the real value.
func WithInitial(state State) ClassOption {
	return func(o *classOptions) {
		o.initial = state
	}
}

// WithLogger attaches a transition logger. Without one the class is silent.
func WithLogger(logger Logger) ClassOption {
	return func(o *classOptions) {
		o.logger = logger
	}
}

// NewClass creates an empty class for entities of type E.
func NewClass[E any](name string, opts ...ClassOption) *Class[E] {
	var options classOptions
	for _, opt := range opts {
		opt(&options)
	}

	c := &Class[E]{
		name:    name,
		initial: options.initial,
		logger:  options.logger,
		canSave: reflect.TypeFor[E]().Implements(saverType),
		byName:  make(map[string]*Method[E]),
	}

	c.index = lazy.New(c.buildIndex)

	return c
}

// Name returns the class name.
func (c *Class[E]) Name() string {
	return c.name
}

// Initial returns the state given with WithInitial, if any.
func (c *Class[E]) Initial() State {
	return c.initial
}

// Define registers a transition method. Options are Transition[E] values
// (one or more; several stack onto the same descriptor) and an optional Doc.
// Malformed declarations return a *ConfigurationError.
func (c *Class[E]) Define(name string, body Body[E], opts ...MethodOption) (*Method[E], error) {
	if name == "" {
		return nil, configError(c.name, name, ErrMethodNameRequired)
	}

	if body == nil {
		return nil, configError(c.name, name, ErrBodyRequired)
	}

	method := &Method[E]{
		class: c,
		name:  name,
		body:  body,
		desc:  newDescriptor[E](),
	}

	transitions := 0

	for _, opt := range opts {
		switch o := opt.(type) {
		case Transition[E]:
			if err := c.checkTransition(o); err != nil {
				return nil, configError(c.name, name, err)
			}

			method.desc.apply(o)
			transitions++
		case Doc:
			method.doc = string(o)
		default:
			return nil, configError(c.name, name, fmt.Errorf("%w: %T", ErrUnsupportedOption, opt))
		}
	}

	if transitions == 0 {
		return nil, configError(c.name, name, ErrTransitionRequired)
	}

	c.mu.Lock()

	if _, exists := c.byName[name]; exists {
		c.mu.Unlock()

		return nil, configError(c.name, name, ErrDuplicateMethod)
	}

	c.methods = append(c.methods, method)
	c.byName[name] = method
	c.mu.Unlock()

	// Reset outside c.mu: the index build takes c.mu while holding the lazy lock.
	c.index.Reset()

	return method, nil
}

// MustDefine is Define that panics on a configuration error. Intended for
// package-level variable declarations.
func (c *Class[E]) MustDefine(name string, body Body[E], opts ...MethodOption) *Method[E] {
	method, err := c.Define(name, body, opts...)
	if err != nil {
		panic(err)
	}

	return method
}

func (c *Class[E]) checkTransition(t Transition[E]) error {
	if t.Target == "" {
		return ErrTargetRequired
	}

	if t.Target == Wildcard {
		return ErrWildcardTarget
	}

	if t.Save && !c.canSave {
		return ErrSaverRequired
	}

	return nil
}

// Method returns the method registered under name.
func (c *Class[E]) Method(name string) (*Method[E], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.byName[name]

	return m, ok
}

// Methods returns all methods in definition order.
func (c *Class[E]) Methods() []*Method[E] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Method[E], len(c.methods))
	copy(out, c.methods)

	return out
}

// Invalidate drops the cached transition index; it is rebuilt on next use.
func (c *Class[E]) Invalidate() {
	c.index.Reset()
}
