package sanitize

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "latin annotation after hindi name",
			input:    "सामुदायिक स्वास्थ्य केंद्र CHC Haraiya, हरैया",
			expected: "सामुदायिक स्वास्थ्य केंद्र, हरैया",
		},
		{
			name:     "pure latin with parenthesized state",
			input:    "CHC Village (UP)",
			expected: "",
		},
		{
			name:     "parenthesized latin between hindi parts",
			input:    "सामुदायिक स्वास्थ्य केंद्र (CHC), हरैया",
			expected: "सामुदायिक स्वास्थ्य केंद्र, हरैया",
		},
		{
			name:     "latin prefix leaves no stranded comma",
			input:    "XYZ, अलीगढ़",
			expected: "अलीगढ़",
		},
		{
			name:     "doubled name folds to one copy",
			input:    "अलीगढ़अलीगढ़",
			expected: "अलीगढ़",
		},
		{
			name:     "tripled name folds to one copy",
			input:    "अलीगढ़अलीगढ़अलीगढ़",
			expected: "अलीगढ़",
		},
		{
			name:     "space-separated repeat is not folded",
			input:    "जिला अस्पताल अस्पताल",
			expected: "जिला अस्पताल अस्पताल",
		},
		{
			name:     "comma runs collapse",
			input:    "जिला अस्पताल,,, बस्ती",
			expected: "जिला अस्पताल, बस्ती",
		},
		{
			name:     "spaced comma runs collapse",
			input:    "  अलीगढ़ ,, मेडिकल  ",
			expected: "अलीगढ़, मेडिकल",
		},
		{
			name:     "latin abbreviation with dots",
			input:    "C.H.C.",
			expected: "",
		},
		{
			name:     "hyphen-joined latin absorbed from hindi neighbour",
			input:    "अलीगढ़-Aligarh",
			expected: "अलीगढ़",
		},
		{
			name:     "digits survive",
			input:    "वार्ड 12",
			expected: "वार्ड 12",
		},
		{
			name:     "mixed english descriptor dropped",
			input:    "District Hospital जिला चिकित्सालय",
			expected: "जिला चिकित्सालय",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \t ",
			expected: "",
		},
		{
			name:     "already clean",
			input:    "सामुदायिक स्वास्थ्य केंद्र, हरैया",
			expected: "सामुदायिक स्वास्थ्य केंद्र, हरैया",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			result := Clean(testCase.input)
			if result != testCase.expected {
				t.Errorf("Clean(%q): expected %q, got %q", testCase.input, testCase.expected, result)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"सामुदायिक स्वास्थ्य केंद्र CHC Haraiya, हरैया",
		"CHC Village (UP)",
		"अलीगढ़अलीगढ़अलीगढ़",
		"जिला अस्पताल,,, बस्ती",
		"  प्राथमिक   स्वास्थ्य ,केंद्र ",
		"District Hospital जिला चिकित्सालय",
		"XYZ, अलीगढ़",
	}

	for _, input := range inputs {
		once := Clean(input)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean is not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestClean_OutputHasNoLatin(t *testing.T) {
	inputs := []string{
		"सामुदायिक स्वास्थ्य केंद्र CHC Haraiya, हरैया",
		"PHC-Rampur रामपुर",
		"District Hospital (Zila)",
		"a",
		"अ b स d",
	}

	for _, input := range inputs {
		result := Clean(input)
		if ContainsLatin(result) {
			t.Errorf("Clean(%q) left a Latin span behind: %q", input, result)
		}
	}
}

func TestClean_NormalizesTypographicPunctuation(t *testing.T) {
	// A fullwidth comma should behave like an ASCII comma once cleaned.
	result := Clean("अलीगढ़，मेडिकल")
	if result != "अलीगढ़, मेडिकल" {
		t.Errorf("fullwidth comma not canonicalized: got %q", result)
	}

	// Curly quotes become straight quotes.
	result = Clean("‘अलीगढ़’")
	if result != "'अलीगढ़'" {
		t.Errorf("curly quotes not canonicalized: got %q", result)
	}
}

func TestClean_FoldsMixedNormalizationForms(t *testing.T) {
	// The first क़ is precomposed (U+0958), the second is क + combining
	// nukta. They are the same letter and must fold as a double.
	input := "क़क़"
	result := Clean(input)
	if result != "क़" {
		t.Errorf("mixed normalization forms did not fold: got %q (runes %v)", result, []rune(result))
	}
}

func TestClean_SingleRunePairIsNotFolded(t *testing.T) {
	// The fold unit needs at least two runes; a doubled single letter is a
	// legitimate spelling, not a paste error.
	result := Clean("कक")
	if result != "कक" {
		t.Errorf("doubled single rune should be kept: got %q", result)
	}
}

func TestFoldDoubledRuns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no repeat", input: "अलीगढ़", expected: "अलीगढ़"},
		{name: "double", input: "अबसअबस", expected: "अबस"},
		{name: "triple", input: "अबसअबसअबस", expected: "अबस"},
		{name: "double inside a sentence", input: "जिला अबसअबस केंद्र", expected: "जिला अबस केंद्र"},
		{name: "longest unit wins", input: "अबअबअबअब", expected: "अब"},
		{name: "whitespace breaks the unit", input: "अबस अबस", expected: "अबस अबस"},
		{name: "empty", input: "", expected: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			result := foldDoubledRuns(testCase.input)
			if result != testCase.expected {
				t.Errorf("expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

func TestContainsLatin(t *testing.T) {
	if !ContainsLatin("CHC हरैया") {
		t.Error("expected Latin span to be detected")
	}
	if ContainsLatin("सामुदायिक स्वास्थ्य केंद्र, हरैया") {
		t.Error("clean Devanagari text should not report a Latin span")
	}
	if ContainsLatin("1234 ()") {
		t.Error("digits and bare punctuation are not a Latin span")
	}
}

func TestClean_CollapsesInternalWhitespace(t *testing.T) {
	result := Clean("प्राथमिक   स्वास्थ्य \t केंद्र")
	if strings.Contains(result, "  ") {
		t.Errorf("internal whitespace run survived: %q", result)
	}
	if result != "प्राथमिक स्वास्थ्य केंद्र" {
		t.Errorf("expected single-spaced output, got %q", result)
	}
}
