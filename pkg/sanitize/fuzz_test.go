package sanitize

import (
	"strings"
	"testing"
)

// FuzzClean exercises the cleaner with arbitrary input.
// Run with: go test -fuzz=FuzzClean -fuzztime=30s ./pkg/sanitize/...
func FuzzClean(f *testing.F) {
	seeds := []string{
		// Roster values seen in production exports
		"सामुदायिक स्वास्थ्य केंद्र CHC Haraiya, हरैया",
		"सामुदायिक स्वास्थ्य केंद्र (CHC), हरैया",
		"जिला चिकित्सालय District Hospital, बस्ती",
		"PHC-Rampur रामपुर",
		"CHC Village (UP)",

		// Duplication artifacts
		"अलीगढ़अलीगढ़",
		"अलीगढ़अलीगढ़अलीगढ़",
		"जिला अस्पताल अस्पताल",

		// Separator damage
		"जिला अस्पताल,,, बस्ती",
		"  अलीगढ़ ,, मेडिकल  ",
		"XYZ, अलीगढ़",
		", , ,",

		// Typographic punctuation
		"‘अलीगढ़’",
		"अलीगढ़，मेडिकल",
		"अलीगढ़\u00A0मेडिकल",

		// Minimal and degenerate input
		"",
		" ",
		"a",
		"अ",
		"()-/'.",
		strings.Repeat("अब", 500),
		strings.Repeat("x य", 200),
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data string) {
		once := Clean(data)

		// Idempotence: cleaning clean output changes nothing.
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent: input %q, first %q, second %q", data, once, twice)
		}

		// No Latin span survives cleaning.
		if ContainsLatin(once) {
			t.Errorf("Latin span survived: input %q, output %q", data, once)
		}

		// Whitespace is fully collapsed and trimmed.
		if strings.Contains(once, "  ") {
			t.Errorf("double space in output %q", once)
		}
		if once != strings.TrimSpace(once) {
			t.Errorf("output not trimmed: %q", once)
		}

		// Every comma reads as exactly ", ".
		for i, r := range once {
			if r != ',' {
				continue
			}
			rest := once[i+len(","):]
			if !strings.HasPrefix(rest, " ") {
				t.Errorf("comma without following space in %q", once)
			}
			if i == 0 {
				t.Errorf("leading comma in %q", once)
			}
		}
	})
}
