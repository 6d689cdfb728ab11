package override

import "fmt"

// Resolver answers override lookups. Resolution is a pure function of the
// key and the rules the resolver was built with: the exact table is
// consulted first, then pattern rules in declared order, first match wins.
type Resolver struct {
	exact    map[string]string
	patterns []PatternRule
}

// NewResolver builds a resolver from one or more rule sets. Sets are
// merged in argument order: a later set's exact entry replaces an earlier
// one under the same key, and its pattern rules queue up after the earlier
// set's. Every set is validated and compiled.
func NewResolver(sets ...*RuleSet) (*Resolver, error) {
	r := &Resolver{exact: make(map[string]string)}

	for _, set := range sets {
		if set == nil {
			continue
		}
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("invalid rule set: %w", err)
		}
		if err := set.Compile(); err != nil {
			return nil, err
		}

		for key, value := range set.Exact {
			r.exact[key] = value
		}
		r.patterns = append(r.patterns, set.Patterns...)
	}

	return r, nil
}

// Resolve returns the curated replacement for key. Exact-table lookup is
// case-sensitive and runs first; on a miss the pattern rules run in order
// and the first match wins. The second return is false when no rule
// matches and the caller should leave the row untouched.
func (r *Resolver) Resolve(key string) (string, bool) {
	if value, ok := r.exact[key]; ok {
		return value, true
	}
	for i := range r.patterns {
		if r.patterns[i].Matches(key) {
			return r.patterns[i].Value, true
		}
	}
	return "", false
}

// RuleCount returns how many rules the resolver holds, exact plus pattern.
func (r *Resolver) RuleCount() int {
	return len(r.exact) + len(r.patterns)
}
