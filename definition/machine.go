package definition

import (
	"context"
	"fmt"
	"maps"

	"github.com/amp-labs/amp-fsm/fsm"
)

// Machine is a class built from a definition.
type Machine struct {
	def     *Definition
	class   *fsm.Class[*Document]
	methods map[string]*fsm.Method[*Document]
}

// Build validates the definition and registers every method on a new class.
// Each method body writes the method's Set values into the document.
func (d *Definition) Build(opts ...fsm.ClassOption) (*Machine, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	class := fsm.NewClass[*Document](d.Name, append([]fsm.ClassOption{fsm.WithInitial(fsm.State(d.Initial))}, opts...)...)
	machine := &Machine{
		def:     d,
		class:   class,
		methods: make(map[string]*fsm.Method[*Document], len(d.Methods)),
	}

	for _, config := range d.Methods {
		options, err := methodOptions(config)
		if err != nil {
			return nil, err
		}

		method, err := class.Define(config.Name, setBody(config.Set), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to define %s: %w", config.Name, err)
		}

		machine.methods[config.Name] = method
	}

	return machine, nil
}

func methodOptions(config MethodConfig) ([]fsm.MethodOption, error) {
	options := make([]fsm.MethodOption, 0, len(config.Transitions)+1)

	if config.Doc != "" {
		options = append(options, fsm.Doc(config.Doc))
	}

	for _, transition := range config.Transitions {
		guards := make([]fsm.Guard[*Document], 0, len(transition.Conditions))

		for _, condition := range transition.Conditions {
			expr, err := Compile(condition)
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", config.Name, err)
			}

			guards = append(guards, expr.Guard())
		}

		options = append(options, fsm.Transition[*Document]{
			Source:     transition.Source.States(),
			Target:     fsm.State(transition.Target),
			Save:       transition.Save,
			Conditions: guards,
			Labels:     transition.Conditions,
		})
	}

	return options, nil
}

func setBody(values map[string]any) fsm.Body[*Document] {
	if len(values) == 0 {
		return fsm.Noop[*Document]()
	}

	values = maps.Clone(values)

	return func(_ context.Context, doc *Document, _ fsm.Args) (any, error) {
		for key, value := range values {
			doc.Set(key, value)
		}

		return nil, nil //nolint:nilnil
	}
}

// Definition returns the source definition.
func (m *Machine) Definition() *Definition {
	return m.def
}

// Class returns the built class.
func (m *Machine) Class() *fsm.Class[*Document] {
	return m.class
}

// Method returns a method by name.
func (m *Machine) Method(name string) (*fsm.Method[*Document], bool) {
	method, ok := m.methods[name]

	return method, ok
}

// New creates a document in the initial state.
func (m *Machine) New() *Document {
	return NewDocument(fsm.State(m.def.Initial))
}

// Fire calls a method by name.
func (m *Machine) Fire(ctx context.Context, doc *Document, name string, args ...any) (fsm.Result, error) {
	method, ok := m.methods[name]
	if !ok {
		return fsm.Result{Method: name}, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}

	return method.Fire(ctx, doc, args...)
}

// Accessible lists the transitions currently accepted for doc.
func (m *Machine) Accessible(ctx context.Context, doc *Document, args ...any) ([]fsm.Available[*Document], error) {
	available, err := m.class.Accessible(ctx, doc, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transitions: %w", err)
	}

	return available, nil
}
