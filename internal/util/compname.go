package util

import (
	"regexp"
	"strings"
	"unicode"
)

// Every rendering of the Korean corporate-entity marker seen in the wild:
// spelled out, parenthesized (incl. full-width and half-broken forms) and the
// single-glyph ㈜. All collapse to nothing for comparison purposes.
var corpMarkerPattern = regexp.MustCompile(`주식회사|\(주\)|（주）|\(주|주\)|㈜`)

// NormalizeCompanyName reduces a free-text company name to a join key:
// corporate markers and all whitespace removed. The result is never shown to
// users, only compared.
func NormalizeCompanyName(raw string) string {
	s := corpMarkerPattern.ReplaceAllString(raw, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
