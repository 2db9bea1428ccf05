package fsm

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Args carries the call arguments of a transition to its guards and body:
// positional values plus named values.
type Args struct {
	Positional []any
	Named      map[string]any
}

// namedArg is produced by Named and lifted into Args.Named by Call.
type namedArg struct {
	key   string
	value any
}

// Named builds a named argument for Fire, CanFire and Accessible.
func Named(key string, value any) any {
	return namedArg{key: key, value: value}
}

// Call builds Args from a variadic argument list. Values created with Named
// become named arguments, everything else is positional.
func Call(args ...any) Args {
	var out Args

	for _, arg := range args {
		switch v := arg.(type) {
		case namedArg:
			if out.Named == nil {
				out.Named = make(map[string]any)
			}

			out.Named[v.key] = v.value
		case Args:
			out.Positional = append(out.Positional, v.Positional...)

			for key, value := range v.Named {
				if out.Named == nil {
					out.Named = make(map[string]any)
				}

				out.Named[key] = value
			}
		default:
			out.Positional = append(out.Positional, arg)
		}
	}

	return out
}

// Len returns the number of positional arguments.
func (a Args) Len() int {
	return len(a.Positional)
}

// Empty reports whether there are no arguments at all.
func (a Args) Empty() bool {
	return len(a.Positional) == 0 && len(a.Named) == 0
}

// Lookup returns a named argument.
func (a Args) Lookup(key string) (any, bool) {
	v, ok := a.Named[key]

	return v, ok
}

// ArgAt returns the positional argument at index i converted to T.
func ArgAt[T any](a Args, i int) (T, error) {
	var zero T

	if i < 0 || i >= len(a.Positional) {
		return zero, fmt.Errorf("%w: missing positional argument %d", ErrArgument, i)
	}

	v, ok := a.Positional[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %T", ErrArgument, i, a.Positional[i], zero)
	}

	return v, nil
}

// NamedArg returns the named argument key converted to T, or def when absent.
func NamedArg[T any](a Args, key string, def T) (T, error) {
	raw, ok := a.Named[key]
	if !ok {
		return def, nil
	}

	v, ok := raw.(T)
	if !ok {
		return def, fmt.Errorf("%w: argument %q is %T, want %T", ErrArgument, key, raw, def)
	}

	return v, nil
}

// DecodeNamed decodes the named arguments into dst (a pointer to a struct or
// map) using mapstructure; unknown keys are an error.
func DecodeNamed(a Args, dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArgument, err)
	}

	if err := decoder.Decode(a.Named); err != nil {
		return fmt.Errorf("%w: %w", ErrArgument, err)
	}

	return nil
}
