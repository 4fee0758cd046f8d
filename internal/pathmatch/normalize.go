package pathmatch

import (
	"strings"
	"unicode"
)

// Pictographs that decorate note names (🧪, 📝, ...). They are not word
// characters, so the symbol pass would drop them anyway; the range is kept
// explicit because removing it changes which paths match.
const (
	emojiFirst = 0x1F300
	emojiLast  = 0x1F9FF
)

// Normalize returns the comparison form of s: pictographs and every rune that
// is neither an ASCII word character ([0-9A-Za-z_]) nor Unicode whitespace
// are removed, the rest is lowercased and trimmed.
//
// Normalize is idempotent and must be applied to both sides of a comparison.
func Normalize(s string) string {
	stripped := strings.Map(func(r rune) rune {
		switch {
		case r >= emojiFirst && r <= emojiLast:
			return -1
		case isWord(r), isSpace(r):
			return r
		default:
			return -1
		}
	}, s)
	return strings.TrimFunc(strings.ToLower(stripped), isSpace)
}

func isWord(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

// isSpace matches the ECMAScript \s class: Unicode White_Space without
// U+0085, plus the byte order mark.
func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
