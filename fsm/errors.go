package fsm

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("fsm configuration error")
	// ErrIllegalTransition is matched by every *IllegalTransitionError.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrArgument indicates a missing or mistyped call argument.
	ErrArgument = errors.New("invalid argument")
	// ErrInvalidStateValue indicates a stored state value of an unsupported type.
	ErrInvalidStateValue = errors.New("invalid state value")

	// ErrNoStateField indicates that the entity declares no state field.
	ErrNoStateField = errors.New("no state field found on entity")
	// ErrMultipleStateFields indicates that the entity declares more than one state field.
	ErrMultipleStateFields = errors.New("more than one state field found on entity")
	// ErrStateNotAddressable indicates that the state field cannot be written (entity passed by value).
	ErrStateNotAddressable = errors.New("state field is not addressable; pass a pointer")
	// ErrNilEntity indicates a nil entity was passed.
	ErrNilEntity = errors.New("entity is nil")

	// ErrTargetRequired indicates that a transition was declared without a target state.
	ErrTargetRequired = errors.New("result state not specified")
	// ErrWildcardTarget indicates that the wildcard token was used as a target.
	ErrWildcardTarget = errors.New("wildcard cannot be a target state")
	// ErrTransitionRequired indicates that a method was defined without any transition.
	ErrTransitionRequired = errors.New("at least one transition is required")
	// ErrMethodNameRequired indicates that a method was defined without a name.
	ErrMethodNameRequired = errors.New("method name is required")
	// ErrBodyRequired indicates that a method was defined without a body.
	ErrBodyRequired = errors.New("method body is required")
	// ErrDuplicateMethod indicates that a method name was defined twice on one class.
	ErrDuplicateMethod = errors.New("duplicate method name")
	// ErrUnsupportedOption indicates an option that does not belong to the class's entity type.
	ErrUnsupportedOption = errors.New("unsupported method option")
	// ErrSaverRequired indicates a save=true transition on an entity type that cannot be saved.
	ErrSaverRequired = errors.New("entity type does not implement fsm.Saver")
)

// ConfigurationError reports a malformed definition or an entity whose shape
// the framework cannot work with. It is never recoverable by dispatch.
type ConfigurationError struct {
	Class  string
	Method string
	Err    error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Class != "" && e.Method != "":
		return fmt.Sprintf("%s.%s: %v", e.Class, e.Method, e.Err)
	case e.Class != "":
		return fmt.Sprintf("%s: %v", e.Class, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// IllegalTransitionError reports that the invoked method has no transition
// registered for the entity's current state, wildcard included.
type IllegalTransitionError struct {
	Class  string
	Method string
	State  State
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("can't switch from state '%s' using method '%s'", e.State, e.Method)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// PersistError wraps a failure of the entity's save hook. The state had
// already been advanced in memory when the hook ran.
type PersistError struct {
	Method string
	State  State
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save after %s -> %s: %v", e.Method, e.State, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is (or wraps) a configuration error.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError

	return errors.As(err, &e)
}

// IsIllegalTransition reports whether err is (or wraps) an illegal transition.
func IsIllegalTransition(err error) bool {
	var e *IllegalTransitionError

	return errors.As(err, &e)
}

func configError(class, method string, err error) error {
	return &ConfigurationError{Class: class, Method: method, Err: err}
}
