package rules

import (
	"errors"
	"strings"
	"unicode"
)

// Tokenization errors. Callers branch on failure rather than treating it as
// an internal error: an untokenizable segment falls back to the textual
// heuristics (or is denied outright in strict mode).
var (
	errUnbalancedQuote = errors.New("unbalanced quote")
	errTrailingEscape  = errors.New("trailing escape character")
)

// Tokenize splits a segment into shell words under shlex-like rules: single
// quotes are literal, double quotes honor the POSIX escape subset, and a
// backslash outside quotes escapes the next character. Quote characters are
// stripped from the token values. A segment either tokenizes fully or fails
// as a whole; there are no partial token lists.
func Tokenize(segment string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		// inWord distinguishes an empty quoted token ('') from no token.
		inWord bool
	)

	runes := []rune(segment)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\\':
			if i+1 >= len(runes) {
				return nil, errTrailingEscape
			}
			// Backslash-newline is a line continuation and produces nothing.
			if runes[i+1] != '\n' {
				cur.WriteRune(runes[i+1])
				inWord = true
			}
			i += 2

		case r == '\'':
			end := indexRune(runes, i+1, '\'')
			if end < 0 {
				return nil, errUnbalancedQuote
			}
			cur.WriteString(string(runes[i+1 : end]))
			inWord = true
			i = end + 1

		case r == '"':
			i++
			closed := false
			for i < len(runes) {
				c := runes[i]
				if c == '"' {
					closed = true
					i++
					break
				}
				if c == '\\' && i+1 < len(runes) {
					// Inside double quotes only \" and \\ are escapes; any
					// other backslash is kept literally.
					next := runes[i+1]
					if next == '"' || next == '\\' {
						cur.WriteRune(next)
						i += 2
						continue
					}
				}
				cur.WriteRune(c)
				i++
			}
			if !closed {
				return nil, errUnbalancedQuote
			}
			inWord = true

		case unicode.IsSpace(r):
			if inWord {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inWord = false
			}
			i++

		default:
			cur.WriteRune(r)
			inWord = true
			i++
		}
	}

	if inWord {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

func indexRune(runes []rune, from int, want rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == want {
			return i
		}
	}
	return -1
}
