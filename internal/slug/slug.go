// Package slug derives URL-safe identifiers from human-entered titles.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// translit maps the accented characters that show up in Turkish titles
// (plus the common Latin-1 vowels) to ASCII. Anything not covered here
// and outside [a-z0-9 -] is dropped.
var translit = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
	'â': 'a', 'Â': 'a',
	'î': 'i', 'Î': 'i',
	'û': 'u', 'Û': 'u',
	'á': 'a', 'à': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o',
	'ú': 'u', 'ù': 'u',
	'ñ': 'n',
}

// Make lowercases, transliterates, strips everything outside
// [a-z0-9 -], collapses whitespace runs to single hyphens, collapses
// repeated hyphens and trims the ends.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	// Turkish casing keeps dotted and dotless i distinct, so "İ" lowers
	// to a plain "i" instead of "i" plus a combining dot.
	for _, r := range strings.ToLowerSpecial(unicode.TurkishCase, text) {
		if mapped, ok := translit[r]; ok {
			r = mapped
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	candidate := strings.Join(fields, "-")
	for strings.Contains(candidate, "--") {
		candidate = strings.ReplaceAll(candidate, "--", "-")
	}
	return strings.Trim(candidate, "-")
}

// Unique resolves collisions deterministically: the bare candidate if
// free, else candidate-1, candidate-2, ... until exists reports false.
// When allocating during an edit the caller's exists func must exclude
// the record being updated. The exists func is the sole source of
// truth: a store that keeps slug history never frees a suffix, so
// allocated numbers are not recycled even after the record is removed.
func Unique(candidate string, exists func(string) bool) string {
	if candidate == "" {
		candidate = "icerik"
	}
	if !exists(candidate) {
		return candidate
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if !exists(next) {
			return next
		}
	}
}
