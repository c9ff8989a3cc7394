// Package money parses user-typed amounts and formats them for display.
package money

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a string is not a usable amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a user-typed amount into a number.
//
// Both decimal conventions are accepted. When the string holds both ',' and
// '.', whichever appears last is the decimal separator and every occurrence
// of the other one is dropped as a thousands separator. A lone ',' is the
// decimal separator. Otherwise '.' is the decimal separator and any ',' is
// dropped.
//
// Examples:
//
//	ParseAmount("1.234,56") -> 1234.56
//	ParseAmount("1,234.56") -> 1234.56
//	ParseAmount("150,00")   -> 150
//	ParseAmount("1.234")    -> 1.234
//
// The sign is not checked here; callers decide whether the value is acceptable.
func ParseAmount(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, ErrInvalidAmount
	}

	v, err := strconv.ParseFloat(normalize(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func normalize(raw string) string {
	lastComma := strings.LastIndex(raw, ",")
	lastDot := strings.LastIndex(raw, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalSep, thousandsSep := ".", ","
		if lastComma > lastDot {
			decimalSep, thousandsSep = ",", "."
		}
		stripped := strings.ReplaceAll(raw, thousandsSep, "")
		return strings.Replace(stripped, decimalSep, ".", 1)
	case lastComma >= 0:
		return strings.Replace(raw, ",", ".", 1)
	default:
		return strings.ReplaceAll(raw, ",", "")
	}
}
