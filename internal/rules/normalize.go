package rules

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeInput prepares a raw command line for analysis. NFKC maps
// fullwidth and compatibility forms to their canonical equivalents, then
// cross-script homoglyphs and invisible formatting characters are stripped,
// so "ｇｉｔ ｒｅｓｅｔ --hard" or a Cyrillic "ｒm" cannot dodge the token
// and text matchers. Null bytes are dropped outright.
func NormalizeInput(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ToValidUTF8(s, "�")
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if invisibleRunes[r] {
			return -1
		}
		if ascii, ok := confusableRunes[r]; ok {
			return ascii
		}
		return r
	}, s)
	// Replacing a non-Latin base char can create new composition pairs with
	// combining marks; a second NFKC pass keeps the result stable.
	return norm.NFKC.String(s)
}

// normalizeCmdToken reduces a token to a comparable command name: trimmed,
// lower-cased, substitution/backtick/grouping punctuation stripped, and cut
// down to its basename. "$(/usr/bin/GIT" normalizes to "git".
func normalizeCmdToken(token string) string {
	tok := strings.ToLower(strings.TrimSpace(token))
	for strings.HasPrefix(tok, "$(") {
		tok = tok[2:]
	}
	tok = strings.TrimLeft(tok, "\\`({[")
	tok = strings.TrimRight(tok, "`)}];")
	if idx := strings.LastIndexByte(tok, '/'); idx >= 0 {
		tok = tok[idx+1:]
	}
	return tok
}

// confusableRunes maps common Cyrillic and Greek lookalikes to ASCII.
var confusableRunes = map[rune]rune{
	// Cyrillic
	'а': 'a', 'е': 'e', 'і': 'i', 'о': 'o',
	'р': 'p', 'с': 'c', 'у': 'y', 'х': 'x',
	'А': 'A', 'В': 'B', 'Е': 'E', 'К': 'K',
	'М': 'M', 'Н': 'H', 'О': 'O', 'Р': 'P',
	'С': 'C', 'Т': 'T', 'Х': 'X',
	// Greek
	'α': 'a', 'ε': 'e', 'ι': 'i', 'ο': 'o',
	'ρ': 'p', 'τ': 't', 'Α': 'A', 'Β': 'B',
	'Ε': 'E', 'Η': 'H', 'Ι': 'I', 'Κ': 'K',
	'Μ': 'M', 'Ν': 'N', 'Ο': 'O', 'Ρ': 'P',
	'Τ': 'T', 'Υ': 'Y', 'Χ': 'X', 'Ζ': 'Z',
}

// invisibleRunes are zero-width and directional formatting characters that
// render as nothing but break substring matching ("r‍m" looks like "rm").
var invisibleRunes = map[rune]bool{
	'\u200B': true, // zero-width space
	'\u200C': true, // zero-width non-joiner
	'\u200D': true, // zero-width joiner
	'\u200E': true, // left-to-right mark
	'\u200F': true, // right-to-left mark
	'\u202A': true, // left-to-right embedding
	'\u202B': true, // right-to-left embedding
	'\u202C': true, // pop directional formatting
	'\u202D': true, // left-to-right override
	'\u202E': true, // right-to-left override
	'\u2060': true, // word joiner
	'\u00AD': true, // soft hyphen
	'\uFEFF': true, // zero-width no-break space (BOM)
}
