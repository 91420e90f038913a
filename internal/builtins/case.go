package builtins

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCaser/upperCaser are stateless under concurrent use (cases.Caser
// values are safe to share, per the package doc), so one pair serves every
// call rather than allocating per invocation.
var (
	lowerCaser = cases.Lower(language.Und)
	upperCaser = cases.Upper(language.Und)
)

// Tolower lowercases s using Unicode case folding rules (spec.md §6's
// tolower), not the ASCII-only toLowerASCII of a byte-oriented AWK.
func Tolower(s string) string { return lowerCaser.String(s) }

// Toupper uppercases s using Unicode case folding rules.
func Toupper(s string) string { return upperCaser.String(s) }
