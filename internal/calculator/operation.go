package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownOperation is returned by ParseOperation for names outside the four
// supported operations.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is one of the four binary arithmetic operations.
type Operation int

const (
	Add Operation = iota
	Subtract
	Multiply
	Divide
)

// Operations lists every operation in display order.
var Operations = []Operation{Add, Subtract, Multiply, Divide}

var operationNames = map[Operation]string{
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
}

var operationSymbols = map[Operation]string{
	Add:      "+",
	Subtract: "-",
	Multiply: "*",
	Divide:   "/",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Symbol returns the infix symbol used in history records.
func (op Operation) Symbol() string {
	return operationSymbols[op]
}

// Label is the button caption for the operation.
func (op Operation) Label() string {
	switch op {
	case Add:
		return "Add"
	case Subtract:
		return "Subtract"
	case Multiply:
		return "Multiply"
	case Divide:
		return "Divide"
	}
	return op.String()
}

// ParseOperation maps an operation name ("add", "subtract", ...) to its Operation.
func ParseOperation(name string) (Operation, error) {
	for op, n := range operationNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOperation, name)
}

// Apply computes a op b. Division by a zero divisor (either sign) yields NaN
// instead of an infinity.
func (op Operation) Apply(a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		if b == 0 {
			return math.NaN()
		}
		return a / b
	}
	return math.NaN()
}
