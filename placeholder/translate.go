// Package placeholder implements the ?N -> $N rewrite of spec §4.4/§6.2: a
// single linear pass over UTF-8 bytes with a small state machine that skips
// single-quoted strings, double-quoted identifiers, line and block comments,
// and dollar-quoted strings.
package placeholder

import "strings"

// Style is the placeholder syntax a driver expects bound parameters in.
type Style int

const (
	// StyleNone means the backend does no placeholder translation at all
	// (e.g. the target already uses ?N natively, or uses a form the
	// translator does not rewrite, like MSSQL's @pN).
	StyleNone Style = iota
	// StylePostgres rewrites ?N to $N.
	StylePostgres
)

// Toggle is the three-valued translation decision spec §4.4/glossary names.
type Toggle int

const (
	// ToggleDefault defers to the pool's configured default.
	ToggleDefault Toggle = iota
	ToggleForceOn
	ToggleForceOff
)

// Resolve implements the toggle resolution spec §4.4 specifies: per-call
// override (ForceOn/ForceOff) takes precedence over the pool default.
func Resolve(call Toggle, poolDefault bool) bool {
	switch call {
	case ToggleForceOn:
		return true
	case ToggleForceOff:
		return false
	default:
		return poolDefault
	}
}

type scanState int

const (
	stateNormal scanState = iota
	stateSingleQuoted
	stateDoubleQuoted
	stateLineComment
	stateBlockComment
	stateDollarQuoted
)

// Translate rewrites every ?N (N >= 1) in sql to $N, honoring the lexical
// structure spec §4.4 lists. It is a pure, synchronous scan - it never
// suspends and performs no I/O (spec §5).
//
// No rewriting happens if params is empty or style is not StylePostgres;
// this mirrors the "no rewriting is performed if params is empty or
// translation is off" rule in spec §4.4, letting callers pass the toggle
// result straight through without special-casing param count at call sites.
func Translate(sql string, style Style, numParams int, enabled bool) string {
	if !enabled || style != StylePostgres || numParams == 0 {
		return sql
	}

	var out strings.Builder
	out.Grow(len(sql))

	state := stateNormal
	var dollarTag string // the tag between the $ delimiters of a dollar-quoted string

	runes := []rune(sql)
	i := 0
	for i < len(runes) {
		c := runes[i]

		switch state {
		case stateNormal:
			switch {
			case c == '\'':
				out.WriteRune(c)
				state = stateSingleQuoted
				i++
			case c == '"':
				out.WriteRune(c)
				state = stateDoubleQuoted
				i++
			case c == '-' && i+1 < len(runes) && runes[i+1] == '-':
				out.WriteString("--")
				state = stateLineComment
				i += 2
			case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
				out.WriteString("/*")
				state = stateBlockComment
				i += 2
			case c == '$':
				if tag, end, ok := scanDollarTagStart(runes, i); ok {
					out.WriteString(string(runes[i:end]))
					dollarTag = tag
					state = stateDollarQuoted
					i = end
				} else {
					out.WriteRune(c)
					i++
				}
			case c == '?':
				if n, end, ok := scanPlaceholderDigits(runes, i+1); ok {
					out.WriteByte('$')
					out.WriteString(n)
					i = end
				} else {
					out.WriteRune(c)
					i++
				}
			default:
				out.WriteRune(c)
				i++
			}

		case stateSingleQuoted:
			out.WriteRune(c)
			if c == '\'' {
				// A doubled '' is an escaped quote, not the string's end;
				// consume both runes and stay quoted.
				if i+1 < len(runes) && runes[i+1] == '\'' {
					out.WriteRune(runes[i+1])
					i += 2
					continue
				}
				state = stateNormal
			}
			i++

		case stateDoubleQuoted:
			out.WriteRune(c)
			if c == '"' {
				state = stateNormal
			}
			i++

		case stateLineComment:
			out.WriteRune(c)
			if c == '\n' {
				state = stateNormal
			}
			i++

		case stateBlockComment:
			out.WriteRune(c)
			if c == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				out.WriteRune(runes[i+1])
				i += 2
				state = stateNormal
				continue
			}
			i++

		case stateDollarQuoted:
			if c == '$' {
				if tag, end, ok := scanDollarTagStart(runes, i); ok && tag == dollarTag {
					out.WriteString(string(runes[i:end]))
					state = stateNormal
					i = end
					continue
				}
			}
			out.WriteRune(c)
			i++
		}
	}

	return out.String()
}

// scanDollarTagStart recognizes a dollar-quote delimiter ($tag$, tag may be
// empty) starting at runes[i] == '$'. It returns the tag text, the index
// just past the closing '$', and whether a well-formed delimiter was found.
func scanDollarTagStart(runes []rune, i int) (tag string, end int, ok bool) {
	j := i + 1
	start := j
	for j < len(runes) && (isAlnum(runes[j]) || runes[j] == '_') {
		j++
	}
	if j >= len(runes) || runes[j] != '$' {
		return "", 0, false
	}

	return string(runes[start:j]), j + 1, true
}

// scanPlaceholderDigits reads one-or-more decimal digits starting at index
// i (just past '?'). It returns the digit string, the index just past the
// last digit, and whether at least one digit was found.
func scanPlaceholderDigits(runes []rune, i int) (digits string, end int, ok bool) {
	j := i
	for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
		j++
	}
	if j == i {
		return "", 0, false
	}

	return string(runes[i:j]), j, true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
