package definition

import "errors"

// Definition errors.
var (
	ErrNameRequired          = errors.New("definition name is required")
	ErrInitialRequired       = errors.New("initial state is required")
	ErrMethodRequired        = errors.New("at least one method is required")
	ErrMethodNameRequired    = errors.New("method name is required")
	ErrDuplicateMethod       = errors.New("duplicate method name")
	ErrTransitionRequired    = errors.New("method needs at least one transition")
	ErrTargetRequired        = errors.New("result state not specified")
	ErrWildcardTarget        = errors.New("wildcard cannot be a target state")
	ErrInvalidSource         = errors.New("source must be a string or a list")
	ErrInvalidExpression     = errors.New("invalid expression")
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrUnknownMethod         = errors.New("unknown method")
)
