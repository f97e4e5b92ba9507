// Package ident provides the identifier-casing helpers the logging package
// and the typed struct-scan layer need: journald field names derive from
// zap field keys (SCREAMING_SNAKE_CASE), and typed's reflectx mapper derives
// column names from struct field names (snake_case). The teacher library
// sources both from a dedicated strcase subpackage; that subpackage wasn't
// part of the retrieved pack, so this reimplements just the two conversions
// actually used.
package ident

import "strings"

// ScreamingSnake converts s to SCREAMING_SNAKE_CASE, splitting on camelCase
// case transitions (fooBar -> FOO_BAR, HTTPStatus -> HTTP_STATUS). Any
// character that isn't an ASCII letter or digit is passed through unchanged
// rather than normalized - callers needing a strict identifier alphabet
// (journaldCore does) filter the result themselves.
func ScreamingSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if !isAlnum(r) {
			b.WriteRune(r)
			continue
		}

		if i > 0 && needsSeparator(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(toUpper(r))
	}

	return b.String()
}

// needsSeparator reports whether a '_' boundary belongs between runes[i-1]
// and runes[i]: a lower-to-upper transition, or the last letter of an
// acronym run followed by the start of a new titlecased word.
func needsSeparator(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]

	if isLower(prev) && isUpper(cur) {
		return true
	}
	if isUpper(prev) && isUpper(cur) && i+1 < len(runes) && isLower(runes[i+1]) {
		return true
	}

	return false
}

// Snake converts s to snake_case the same way ScreamingSnake converts to its
// upper-case counterpart, splitting on the same camelCase transitions
// (PoolID -> pool_id, fooBar -> foo_bar). Passed to
// reflectx.NewMapperFunc("db", ident.Snake) it gives typed's struct-scan
// layer the teacher's own "db" tag / snake-cased-field-name fallback
// behavior.
func Snake(s string) string {
	var b strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if !isAlnum(r) {
			b.WriteRune(r)
			continue
		}

		if i > 0 && needsSeparator(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(toLower(r))
	}

	return b.String()
}

func isAlnum(r rune) bool { return isLetter(r) || isDigit(r) }
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}
func isDigit(r rune) bool { return '0' <= r && r <= '9' }
func isLower(r rune) bool { return 'a' <= r && r <= 'z' }
func isUpper(r rune) bool { return 'A' <= r && r <= 'Z' }

func toUpper(r rune) rune {
	if isLower(r) {
		return r - ('a' - 'A')
	}
	return r
}

func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
