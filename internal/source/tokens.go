package source

import (
	"regexp"
	"strings"
)

// payloadSeparators matches the token separators of line-form directives.
var payloadSeparators = regexp.MustCompile(`[ ;,]+`)

// directivePayload splits a line-form directive into its payload tokens: an
// inline " // " comment truncates the line, runs of space/semicolon/comma
// separate tokens, and the directive keyword itself is skipped.
func directivePayload(line string) []string {
	line, _, _ = strings.Cut(line, " // ")
	fields := payloadSeparators.Split(line, -1)
	var tokens []string
	for i, f := range fields {
		if i == 0 {
			continue // the directive keyword
		}
		if f = strings.TrimSpace(f); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// portableQuotedList undoes the portable single-quote escaping used when
// runtime options are embedded in artifact metadata. It splits on
// whitespace with quotes grouping, like QuotedStringToList, but also
// honors a backslash outside quotes as an escape for the next rune, so the
// `'\''` splice used for an embedded single quote round-trips losslessly.
func portableQuotedList(s string) []string {
	var args []string
	var cur strings.Builder
	var quote rune
	inToken := false
	escaped := false

	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inToken = true
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args
}

// QuotedStringToList splits a string into arguments the way a shell would:
// on whitespace, with single or double quotes grouping and stripped from the
// result.
func QuotedStringToList(s string) []string {
	var args []string
	var cur strings.Builder
	var quote rune
	inToken := false

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args
}
