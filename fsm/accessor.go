package fsm

import (
	"context"
	"reflect"
	"sync"
)

// Stateful lets an entity expose its state attribute directly instead of
// declaring a Field. Implementing it satisfies the single-attribute rule.
type Stateful interface {
	FSMState() State
	SetFSMState(state State)
}

// Saver is the persistence hook called after a transition registered with
// Save. The core does not inspect what it does.
type Saver interface {
	Save(ctx context.Context) error
}

var fieldType = reflect.TypeFor[Field]()

// fieldIndexes caches field lookups per struct type.
var fieldIndexes sync.Map // map[reflect.Type]fieldLookup

type fieldLookup struct {
	index []int
	err   error
}

// CurrentState returns the value of the entity's single state attribute.
func CurrentState(entity any) (State, error) {
	if s, ok := entity.(Stateful); ok {
		return s.FSMState(), nil
	}

	val, err := stateFieldValue(entity)
	if err != nil {
		return "", err
	}

	return val.Interface().(Field).Get(), nil //nolint:forcetypeassert
}

// SetState writes value into the entity's single state attribute. Any token
// is accepted.
func SetState(entity any, value State) error {
	if s, ok := entity.(Stateful); ok {
		s.SetFSMState(value)

		return nil
	}

	val, err := stateFieldValue(entity)
	if err != nil {
		return err
	}

	if !val.CanSet() {
		return configError(typeName(entity), "", ErrStateNotAddressable)
	}

	val.Set(reflect.ValueOf(NewField(value)))

	return nil
}

func stateFieldValue(entity any) (reflect.Value, error) {
	if entity == nil {
		return reflect.Value{}, configError("", "", ErrNilEntity)
	}

	val := reflect.ValueOf(entity)
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return reflect.Value{}, configError(typeName(entity), "", ErrNilEntity)
		}

		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return reflect.Value{}, configError(typeName(entity), "", ErrNoStateField)
	}

	lookup := lookupStateField(val.Type())
	if lookup.err != nil {
		return reflect.Value{}, configError(val.Type().Name(), "", lookup.err)
	}

	return val.FieldByIndex(lookup.index), nil
}

func lookupStateField(typ reflect.Type) fieldLookup {
	if cached, ok := fieldIndexes.Load(typ); ok {
		return cached.(fieldLookup) //nolint:forcetypeassert
	}

	var found [][]int

	collectStateFields(typ, nil, &found)

	var lookup fieldLookup

	switch len(found) {
	case 0:
		lookup.err = ErrNoStateField
	case 1:
		lookup.index = found[0]
	default:
		lookup.err = ErrMultipleStateFields
	}

	actual, _ := fieldIndexes.LoadOrStore(typ, lookup)

	return actual.(fieldLookup) //nolint:forcetypeassert
}

// collectStateFields walks exported fields, descending into embedded structs.
func collectStateFields(typ reflect.Type, prefix []int, found *[][]int) {
	for i := range typ.NumField() {
		sf := typ.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if sf.Type == fieldType {
			if sf.IsExported() {
				*found = append(*found, index)
			}

			continue
		}

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			collectStateFields(sf.Type, index, found)
		}
	}
}

func typeName(entity any) string {
	if entity == nil {
		return ""
	}

	typ := reflect.TypeOf(entity)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return typ.Name()
}

// stateRef is a resolved handle on an entity's state attribute.
type stateRef struct {
	get func() State
	set func(State)
}

// resolveWritable locates the state attribute once for a dispatch and makes
// sure it can be written before any guard or body runs.
func resolveWritable(entity any) (stateRef, error) {
	if s, ok := entity.(Stateful); ok {
		return stateRef{get: s.FSMState, set: s.SetFSMState}, nil
	}

	val, err := stateFieldValue(entity)
	if err != nil {
		return stateRef{}, err
	}

	if !val.CanSet() {
		return stateRef{}, configError(typeName(entity), "", ErrStateNotAddressable)
	}

	return stateRef{
		get: func() State {
			return val.Interface().(Field).Get() //nolint:forcetypeassert
		},
		set: func(state State) {
			val.Set(reflect.ValueOf(NewField(state)))
		},
	}, nil
}
