package calculator

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// decimalPrefix matches the longest leading decimal literal, the same prefix a
// browser's parseFloat consumes.
var decimalPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)`)

// ParseOperand interprets free-form operand text as a number. Leading
// whitespace is skipped and trailing garbage ignored ("12px" is 12); text with
// no numeric prefix, including the empty string, is NaN. Out-of-range literals
// saturate to an infinity.
func ParseOperand(s string) float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)

	lit := decimalPrefix.FindString(s)
	if lit == "" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// isJSSpace reports whether r is whitespace or a line terminator in a browser's
// number grammar. It differs from unicode.IsSpace: U+FEFF counts, U+0085 does
// not.
func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// FormatResult renders f the way a browser prints a number: shortest
// round-trip digits, plain notation for 1e-6 <= |f| < 1e21 and exponent
// notation ("1e+21", "1.5e-7") outside that range.
func FormatResult(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
