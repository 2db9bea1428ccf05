package definition

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
)


type operandKind int

const (
	operandData operandKind = iota
	operandPositional
	operandNamed
)

type operator int

const (
	opTruthy operator = iota
	opFalsy
	opEqual
	opNotEqual
	opAlways
	opNever
)

// Expression is a compiled condition, for example:
//
//	always
//	data.approved
//	!data.locked
//	data.owner == 'alice'
//	arg.0 == 'alice'
//	arg.moderator != 'bar'
type Expression struct {
	source string
	op     operator
	kind   operandKind
	key    string
	index  int
	value  string
}

// Compile parses a condition expression.
func Compile(expr string) (Expression, error) {
	expr = strings.TrimSpace(expr)
	compiled := Expression{source: expr}

	switch expr {
	case "", "always":
		compiled.op = opAlways

		return compiled, nil
	case "never":
		compiled.op = opNever

		return compiled, nil
	}

	// Handle comparisons: "data.key == 'value'", "arg.0 != 'value'"
	left, right, op, found, err := splitComparison(expr)
	if err != nil {
		return Expression{}, err
	}

	if found {
		compiled.op = op
		compiled.value = strings.Trim(strings.TrimSpace(right), `'"`)

		if err := compiled.parseOperand(strings.TrimSpace(left)); err != nil {
			return Expression{}, err
		}

		return compiled, nil
	}

	// Handle negation: "!data.key"
	if after, ok := strings.CutPrefix(expr, "!"); ok {
		compiled.op = opFalsy

		if err := compiled.parseOperand(strings.TrimSpace(after)); err != nil {
			return Expression{}, err
		}

		return compiled, nil
	}

	// Handle boolean checks: "data.key"
	compiled.op = opTruthy

	if err := compiled.parseOperand(expr); err != nil {
		return Expression{}, err
	}

	return compiled, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(expr string) Expression {
	compiled, err := Compile(expr)
	if err != nil {
		panic(err)
	}

	return compiled
}

func (e *Expression) parseOperand(operand string) error {
	if strings.ContainsAny(operand, " \t'\"") {
		return fmt.Errorf("%w: malformed operand %q in %s", ErrInvalidExpression, operand, e.source)
	}

	if key, ok := strings.CutPrefix(operand, "data."); ok && key != "" {
		e.kind = operandData
		e.key = key

		return nil
	}

	if key, ok := strings.CutPrefix(operand, "arg."); ok && key != "" {
		if index, err := strconv.Atoi(key); err == nil {
			if index < 0 {
				return fmt.Errorf("%w: negative argument index in %s", ErrInvalidExpression, e.source)
			}

			e.kind = operandPositional
			e.index = index

			return nil
		}

		e.kind = operandNamed
		e.key = key

		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedExpression, e.source)
}

// String returns the expression as written.
func (e Expression) String() string {
	return e.source
}

// Evaluate runs the expression against a document and call arguments.
// Missing values compare unequal and are falsy.
func (e Expression) Evaluate(doc *Document, args fsm.Args) bool {
	switch e.op {
	case opAlways:
		return true
	case opNever:
		return false
	}

	value, exists := e.lookup(doc, args)

	switch e.op {
	case opEqual:
		return exists && fmt.Sprintf("%v", value) == e.value
	case opNotEqual:
		// If the value doesn't exist, it's not equal
		return !exists || fmt.Sprintf("%v", value) != e.value
	case opFalsy:
		return !exists || !truthy(value)
	default:
		return exists && truthy(value)
	}
}

// Guard adapts the expression for fsm.Transition conditions.
func (e Expression) Guard() fsm.Guard[*Document] {
	return func(_ context.Context, doc *Document, args fsm.Args) (bool, error) {
		return e.Evaluate(doc, args), nil
	}
}

func (e Expression) lookup(doc *Document, args fsm.Args) (any, bool) {
	switch e.kind {
	case operandPositional:
		if e.index >= args.Len() {
			return nil, false
		}

		return args.Positional[e.index], true
	case operandNamed:
		return args.Lookup(e.key)
	default:
		if doc == nil {
			return nil, false
		}

		return doc.Get(e.key)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(v)

		return err == nil && parsed
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// splitComparison finds the single == or != operator outside quoted literals.
func splitComparison(expr string) (left, right string, op operator, found bool, err error) {
	var quote byte

	for i := 0; i < len(expr)-1; i++ {
		c := expr[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}

			continue
		case c == '\'' || c == '"':
			quote = c

			continue
		}

		var candidate operator

		switch expr[i : i+2] {
		case "==":
			candidate = opEqual
		case "!=":
			candidate = opNotEqual
		default:
			continue
		}

		if found {
			return "", "", 0, false, fmt.Errorf("%w: %s", ErrInvalidExpression, expr)
		}

		left, right, op, found = expr[:i], expr[i+2:], candidate, true
		i++
	}

	return left, right, op, found, nil
}
