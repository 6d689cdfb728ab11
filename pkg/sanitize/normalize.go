package sanitize

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// canonicalizer maps alternate Unicode punctuation onto its ASCII form and
// normalizes the result to NFC. Normal form matters for the
// doubled-substring fold: a nukta consonant like ढ़ can arrive precomposed
// or as consonant plus combining nukta, and the two halves of a doubled
// name only compare equal once both are in the same form.
var canonicalizer = transform.Chain(runes.Map(canonicalRune), norm.NFC)

// canonicalRune returns the canonical ASCII form of quotation marks, commas
// and spaces that have drifted into typographic variants. Every other rune
// passes through unchanged.
func canonicalRune(r rune) rune {
	switch r {
	case '“', '”', '„', '‟', '″', '＂': // “ ” „ ‟ ″ ＂
		return '"'
	case '‘', '’', '‚', '‛', '′', 'ʼ', '＇': // ‘ ’ ‚ ‛ ′ ʼ ＇
		return '\''
	case '،', '、', '，': // ، 、 ，
		return ','
	case '\u00A0', '\u2007', '\u202F', '\u3000': // non-breaking and wide spaces
		return ' '
	}
	return r
}

// canonicalizePunctuation runs the canonicalizer over a whole field.
func canonicalizePunctuation(s string) string {
	out, _, err := transform.String(canonicalizer, s)
	if err != nil {
		// The chain cannot fail on valid UTF-8; keep the input on the
		// off chance it does.
		return s
	}
	return out
}
