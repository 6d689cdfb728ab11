package roster

import "strings"

// Reconcile normalizes a raw CSV record to exactly expect fields.
//
// Records already at the expected width pass through untouched. Short
// records are padded with empty fields on the right, existing values
// keeping their positions. Overlong records, the usual product of unquoted
// commas inside the text column, are folded: every field from target
// onward joins with "," into a single value at target, and the record is
// padded back out to expect fields when target is not the last column. An
// empty field at target contributes nothing, so the joined value never
// starts with a stray comma.
//
// A target outside [0, expect) cannot anchor a fold; the overlong record
// is returned unchanged and the caller decides what to do with it.
func Reconcile(fields []string, expect, target int) []string {
	switch {
	case len(fields) == expect:
		return fields
	case len(fields) < expect:
		padded := make([]string, expect)
		copy(padded, fields)
		return padded
	}

	if target < 0 || target >= expect {
		return fields
	}

	tail := fields[target:]
	if tail[0] == "" {
		tail = tail[1:]
	}

	out := make([]string, expect)
	copy(out, fields[:target])
	out[target] = strings.Join(tail, ",")
	return out
}
