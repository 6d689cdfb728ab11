// Package override replaces known-bad roster values with curated Hindi
// names. A rule set pairs an exact lookup table with ordered pattern rules,
// so a curator can pin a single row or catch every spelling variant of a
// recurring entry with one regex.
package override

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternRule rewrites any key matching Pattern to Value. Patterns compile
// case-insensitive and anchored to the whole key; stray whitespace in the
// key is tolerated only where the pattern itself allows it (\s+, \s*),
// never by preprocessing the key.
type PatternRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Value   string `yaml:"value"`

	// Compiled regex (populated by Compile)
	compiled *regexp.Regexp
}

// Compile compiles the rule's pattern, adding the case-insensitive flag and
// full anchors when the pattern does not already carry them.
func (r *PatternRule) Compile() error {
	if r.Pattern == "" {
		return fmt.Errorf("pattern rule %q has an empty pattern", r.Name)
	}

	expr := r.Pattern
	if !strings.HasPrefix(expr, "^") {
		expr = "^" + expr
	}
	if !strings.HasSuffix(expr, "$") {
		expr += "$"
	}

	compiled, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return fmt.Errorf("compiling pattern rule %q: %w", r.Name, err)
	}
	r.compiled = compiled
	return nil
}

// IsCompiled returns true if the rule has been compiled.
func (r *PatternRule) IsCompiled() bool {
	return r.compiled != nil
}

// Matches reports whether the whole key matches the compiled pattern.
func (r *PatternRule) Matches(key string) bool {
	return r.compiled != nil && r.compiled.MatchString(key)
}

// RuleSet is one named collection of override rules, loadable from YAML.
// Exact entries are matched byte-for-byte, whitespace included. Pattern
// rules keep their declared order; order is the tie-break between them.
type RuleSet struct {
	Name     string            `yaml:"name"`
	Exact    map[string]string `yaml:"exact"`
	Patterns []PatternRule     `yaml:"patterns"`
}

// Validate checks that the rule set is usable.
func (rs *RuleSet) Validate() error {
	if rs.Name == "" {
		return fmt.Errorf("rule set name is required")
	}
	if len(rs.Exact) == 0 && len(rs.Patterns) == 0 {
		return fmt.Errorf("rule set %q has no rules", rs.Name)
	}
	for i := range rs.Patterns {
		if rs.Patterns[i].Pattern == "" {
			return fmt.Errorf("rule set %q: pattern rule %d has no pattern", rs.Name, i)
		}
		if rs.Patterns[i].Value == "" {
			return fmt.Errorf("rule set %q: pattern rule %d has no value", rs.Name, i)
		}
	}
	return nil
}

// Compile compiles every pattern rule in the set.
func (rs *RuleSet) Compile() error {
	for i := range rs.Patterns {
		if rs.Patterns[i].IsCompiled() {
			continue
		}
		if err := rs.Patterns[i].Compile(); err != nil {
			return fmt.Errorf("rule set %q: %w", rs.Name, err)
		}
	}
	return nil
}
