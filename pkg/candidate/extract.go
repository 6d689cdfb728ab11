// Package candidate finds and rates Devanagari name candidates inside
// arbitrary text, such as web search snippets or translated prose. The
// extractor yields runs in source order; the scorer rates how much each run
// looks like a facility name.
package candidate

import (
	"iter"
	"unicode/utf8"
)

// Candidate is a Devanagari run found in a larger text. Start is the byte
// offset of the run, which fixes the source order used for tie-breaking.
type Candidate struct {
	Text  string
	Start int
}

// The Devanagari Unicode block, including digits and punctuation such as
// the danda.
const (
	devanagariLo = 0x0900
	devanagariHi = 0x097F
)

func isDevanagari(r rune) bool {
	return r >= devanagariLo && r <= devanagariHi
}

// Scan returns the Devanagari candidates of text as a lazy ordered
// sequence. A candidate is a maximal run of Devanagari code points; two
// runs separated by exactly one space merge into a single candidate, while
// any other separator (punctuation, two or more spaces, another script)
// ends it. The sequence is restartable: ranging over it again rescans from
// the beginning. Text with no Devanagari yields nothing.
func Scan(text string) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		i := 0
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !isDevanagari(r) {
				i += size
				continue
			}

			start := i
			end := i + size
			i = end
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if isDevanagari(r) {
					i += size
					end = i
					continue
				}
				if r == ' ' && i+1 < len(text) {
					next, _ := utf8.DecodeRuneInString(text[i+1:])
					if isDevanagari(next) {
						// A single space joins the runs; the
						// next iteration extends end past it.
						i++
						continue
					}
				}
				break
			}

			if !yield(Candidate{Text: text[start:end], Start: start}) {
				return
			}
		}
	}
}

// Extract collects every candidate of text into a slice, in source order.
func Extract(text string) []Candidate {
	var out []Candidate
	for c := range Scan(text) {
		out = append(out, c)
	}
	return out
}
