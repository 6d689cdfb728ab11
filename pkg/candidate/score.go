package candidate

import (
	"strings"
	"unicode/utf8"
)

// Scored pairs a candidate with its quality score. Institutional is set
// when the text contains one of the InstitutionalKeywords.
type Scored struct {
	Candidate
	Score         int
	Institutional bool
}

// Score rates how much a candidate looks like a facility name. Length is
// measured in runes and the rules apply in a fixed order:
//
//  1. Length band, first match wins: 8-40: +3, else 5-50: +2,
//     else over 50: -2, else 0.
//  2. Any institutional keyword present: +5, once.
//  3. -2 per occurrence of each function word, counted with repetition.
//  4. Longer than 20 runes and naming a major city: -1.
func Score(c Candidate) Scored {
	length := utf8.RuneCountInString(c.Text)

	score := 0
	switch {
	case length >= 8 && length <= 40:
		score += 3
	case length >= 5 && length <= 50:
		score += 2
	case length > 50:
		score -= 2
	}

	institutional := false
	for _, keyword := range InstitutionalKeywords {
		if strings.Contains(c.Text, keyword) {
			institutional = true
			break
		}
	}
	if institutional {
		score += 5
	}

	for _, word := range FunctionWords {
		score -= 2 * strings.Count(c.Text, word)
	}

	if length > 20 {
		for _, city := range CityNames {
			if strings.Contains(c.Text, city) {
				score--
				break
			}
		}
	}

	return Scored{Candidate: c, Score: score, Institutional: institutional}
}

// ScoreAll scores every candidate and drops those scoring below zero,
// preserving source order.
func ScoreAll(candidates []Candidate) []Scored {
	var out []Scored
	for _, c := range candidates {
		s := Score(c)
		if s.Score < 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// PickBest scans text and returns its highest-scoring surviving candidate.
// Ties go to the candidate that appears earliest. The second return is
// false when no candidate scores zero or better.
func PickBest(text string) (Scored, bool) {
	var best Scored
	found := false
	for c := range Scan(text) {
		s := Score(c)
		if s.Score < 0 {
			continue
		}
		if !found || s.Score > best.Score {
			best = s
			found = true
		}
	}
	return best, found
}
