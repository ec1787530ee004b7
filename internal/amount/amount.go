// Package amount parses free-text Vietnamese money tokens into numeric values.
// Shorthand follows local chat convention: "50k" is fifty thousand, "5m" five
// million, "5m2" five million two hundred thousand.
package amount

import (
	"strconv"
	"strings"
)

// Value is the result of parsing one amount token. Valid is false when the
// token matched no recognized grammar; callers must treat that as "cannot
// record", never as zero.
type Value struct {
	Value float64
	Valid bool
}

// Invalid is the zero amount result.
var Invalid = Value{}

// Parse converts an amount token into a Value. The token is trimmed and
// lower-cased before matching. Supported forms:
//
//	"50000" or "50.000" / "50,000"  -> 50000
//	"50k"                           -> 50000
//	"5m"                            -> 5000000
//	"5m2"                           -> 5200000 (trailing digits are hundred-thousands)
//
// Anything else is invalid.
func Parse(token string) Value {
	s := strings.ToLower(strings.TrimSpace(token))
	if s == "" {
		return Invalid
	}

	if i := strings.IndexByte(s, 'm'); i >= 0 {
		return parseMillions(s[:i], s[i+1:])
	}
	if strings.HasSuffix(s, "k") {
		prefix, ok := parseDecimal(strings.TrimSuffix(s, "k"))
		if !ok {
			return Invalid
		}
		return Value{Value: prefix * 1_000, Valid: true}
	}

	// Plain digits, possibly with thousand separators in either style.
	stripped := strings.ReplaceAll(s, ".", "")
	stripped = strings.ReplaceAll(stripped, ",", "")
	if !allDigits(stripped) {
		return Invalid
	}
	n, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return Invalid
	}
	return Value{Value: n, Valid: true}
}

func parseMillions(prefix, rest string) Value {
	millions, ok := parseDecimal(prefix)
	if !ok {
		return Invalid
	}
	total := millions * 1_000_000
	if rest != "" {
		// "5m2": the group after the m counts hundred-thousands.
		if !allDigits(rest) {
			return Invalid
		}
		hundredK, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Invalid
		}
		total += hundredK * 100_000
	}
	return Value{Value: total, Valid: true}
}

// parseDecimal accepts digits with at most one interior decimal point.
// ParseFloat alone would also admit signs, exponents, "inf" and "nan", none
// of which are money.
func parseDecimal(s string) (float64, bool) {
	if !digitGrammar(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func digitGrammar(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for i, r := range s {
		if r == '.' {
			if dot || i == 0 || i == len(s)-1 {
				return false
			}
			dot = true
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
