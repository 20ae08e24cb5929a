package calculator

import (
	"errors"
	"fmt"
)

// ErrHistoryIndex is returned when a history record is selected by an index
// outside the current history.
var ErrHistoryIndex = errors.New("history index out of range")

// MaxOperandLen is the longest operand text, in bytes, a front end should
// accept. Operand text is echoed into history, logs and spans.
const MaxOperandLen = 64

// ErrOperandTooLong is returned by CheckOperands.
var ErrOperandTooLong = errors.New("operand too long")

// CheckOperands rejects operand text longer than MaxOperandLen.
func CheckOperands(operands ...string) error {
	for _, s := range operands {
		if len(s) > MaxOperandLen {
			return fmt.Errorf("%w: %d bytes, limit %d", ErrOperandTooLong, len(s), MaxOperandLen)
		}
	}
	return nil
}

// Record is one history entry.
type Record struct {
	// Expression is the formatted "A op B = R" line, with A and B exactly as
	// they were typed.
	Expression string
	// Result is the formatted result, re-displayed when the record is selected.
	Result string
}

// View holds the state of one calculator view: the two operand texts, the
// displayed result, the history (most recent first) and the theme flag.
//
// A View is owned by a single front end and is not safe for concurrent use.
type View struct {
	operandA string
	operandB string
	result   string
	history  []Record
	dark     bool
	mounted  bool
}

// NewView returns an empty, unmounted view.
func NewView(dark bool) *View {
	return &View{dark: dark}
}

func (v *View) SetOperands(a, b string) {
	v.operandA = a
	v.operandB = b
}

func (v *View) SetOperandA(a string) { v.operandA = a }

func (v *View) SetOperandB(b string) { v.operandB = b }

func (v *View) OperandA() string { return v.operandA }

func (v *View) OperandB() string { return v.operandB }

// Result is the displayed result text, empty before the first calculation.
func (v *View) Result() string { return v.result }

// DarkMode reports the current theme.
func (v *View) DarkMode() bool { return v.dark }

// History returns a copy of the history, most recent first.
func (v *View) History() []Record {
	out := make([]Record, len(v.history))
	copy(out, v.history)
	return out
}

// Calculate applies op to the current operands, prepends a record to the
// history and displays the result. Invalid or empty operands and division by
// zero produce NaN; no error is ever returned.
func (v *View) Calculate(op Operation) Record {
	rec, _ := v.calculate(op)
	return rec
}

// calculate is Calculate that also returns the unformatted result.
func (v *View) calculate(op Operation) (Record, float64) {
	res := op.Apply(ParseOperand(v.operandA), ParseOperand(v.operandB))
	formatted := FormatResult(res)

	rec := Record{
		Expression: fmt.Sprintf("%s %s %s = %s", v.operandA, op.Symbol(), v.operandB, formatted),
		Result:     formatted,
	}

	v.result = formatted
	v.history = append([]Record{rec}, v.history...)

	return rec, res
}

// Clear resets both operands, the result and the history.
func (v *View) Clear() {
	v.operandA = ""
	v.operandB = ""
	v.result = ""
	v.history = nil
}

// ToggleTheme flips between light and dark presentation.
func (v *View) ToggleTheme() {
	v.dark = !v.dark
}

// SelectHistory re-displays the result stored in history record i.
func (v *View) SelectHistory(i int) (Record, error) {
	if i < 0 || i >= len(v.history) {
		return Record{}, fmt.Errorf("%w: %d (history has %d records)", ErrHistoryIndex, i, len(v.history))
	}

	rec := v.history[i]
	v.result = rec.Result
	return rec, nil
}

// Snapshot is a read-only copy of a view's state.
type Snapshot struct {
	OperandA string
	OperandB string
	Result   string
	History  []Record
	DarkMode bool
	Mounted  bool
}

func (v *View) Snapshot() Snapshot {
	return Snapshot{
		OperandA: v.operandA,
		OperandB: v.operandB,
		Result:   v.result,
		History:  v.History(),
		DarkMode: v.dark,
		Mounted:  v.mounted,
	}
}
