// Package sanitize repairs the Hindi name field of facility roster rows.
// The cleaner removes embedded Latin annotations, canonicalizes punctuation
// and whitespace, and collapses accidental duplications left behind by
// copy-paste data entry.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// latinSpanPattern matches a run of ASCII Latin words joined by
	// separator characters (dash, slash, apostrophe, dot, parentheses,
	// whitespace), plus any separator characters other than whitespace and
	// commas touching the run on either side. Absorbing the adjacent
	// separators removes husks like the ")" in "CHC Village (UP)" along
	// with the span. Whitespace stays so neighbouring Devanagari words do
	// not fuse, and commas stay because they separate surviving parts.
	latinSpanPattern = regexp.MustCompile(`[-/'.()]*[A-Za-z]+(?:[-/'.()\s]*[A-Za-z]+)*[-/'.()]*`)

	// commaSpacePattern matches a comma with any surrounding whitespace.
	commaSpacePattern = regexp.MustCompile(`\s*,\s*`)

	// multiCommaPattern matches a run of two or more comma separators.
	multiCommaPattern = regexp.MustCompile(`(\s*,\s*){2,}`)

	// multiSpacePattern matches any whitespace run.
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// Clean normalizes a single name field. The steps run in a fixed order:
//
//  1. Remove every Latin span (including absorbed adjacent separators).
//  2. Canonicalize alternate Unicode punctuation and compose Devanagari
//     to NFC.
//  3. Rewrite every comma, with surrounding whitespace, as ", ".
//  4. Collapse runs of comma separators to a single ", ".
//  5. Collapse whitespace runs to single spaces and trim the ends.
//  6. Fold immediately doubled substrings ("अलीगढ़अलीगढ़" to "अलीगढ़").
//  7. Trim comma separators stranded at either end by span removal.
//
// Clean is idempotent: applying it to its own output changes nothing.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	cleaned := latinSpanPattern.ReplaceAllString(text, "")
	cleaned = canonicalizePunctuation(cleaned)
	cleaned = commaSpacePattern.ReplaceAllString(cleaned, ", ")
	cleaned = multiCommaPattern.ReplaceAllString(cleaned, ", ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = foldDoubledRuns(cleaned)
	return trimEdgeSeparators(cleaned)
}

// ContainsLatin reports whether text still holds a Latin span. Clean output
// never does.
func ContainsLatin(text string) bool {
	return latinSpanPattern.MatchString(text)
}

// foldDoubledRuns collapses immediate doubled substrings: wherever a
// whitespace-free substring of at least two runes is immediately followed
// by an identical copy of itself, the pair becomes one copy. The longest
// unit wins at each position, and the scan repeats until nothing changes,
// so a triple repeat collapses all the way down in one call.
func foldDoubledRuns(s string) string {
	text := []rune(s)
	for {
		folded, changed := foldDoubledRunsOnce(text)
		if !changed {
			return string(text)
		}
		text = folded
	}
}

// foldDoubledRunsOnce performs a single left-to-right folding pass.
func foldDoubledRunsOnce(text []rune) ([]rune, bool) {
	var out []rune
	changed := false

	for i := 0; i < len(text); {
		unit := doubledUnitAt(text, i)
		if unit == 0 {
			out = append(out, text[i])
			i++
			continue
		}

		// Keep one copy, skip both.
		out = append(out, text[i:i+unit]...)
		i += 2 * unit
		changed = true
	}

	return out, changed
}

// doubledUnitAt returns the rune length of the longest whitespace-free
// substring starting at i that is immediately followed by an identical copy
// of itself, or 0 when no such substring exists. Units shorter than two
// runes never count.
func doubledUnitAt(text []rune, i int) int {
	maxUnit := (len(text) - i) / 2

	// The unit may not contain whitespace.
	limit := 0
	for limit < maxUnit && !unicode.IsSpace(text[i+limit]) {
		limit++
	}

	for unit := limit; unit >= 2; unit-- {
		if runesEqual(text[i:i+unit], text[i+unit:i+2*unit]) {
			return unit
		}
	}
	return 0
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// trimEdgeSeparators strips comma separators stranded at either end of the
// field. Removing "XYZ" from "XYZ, अलीगढ़" leaves ", अलीगढ़" behind; the
// stranded separator carries no information once its neighbour is gone.
func trimEdgeSeparators(s string) string {
	return strings.Trim(s, ", ")
}
