package model

import "regexp"

var (
	mesRefPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidMesRef reports whether s is a YYYY-MM reference month with a month
// between 01 and 12.
func ValidMesRef(s string) bool {
	return mesRefPattern.MatchString(s)
}

// ValidDate reports whether s has the YYYY-MM-DD shape. Only the shape is
// checked, so "2026-02-31" passes.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}
