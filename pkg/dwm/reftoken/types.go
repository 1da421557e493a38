// Package reftoken holds the core reference/token containers: RefDict is
// built once by the Tokenizer and replaced by a rewritten copy after each
// correction stage (global and block-local).
package reftoken

import "sort"

// RefID identifies one input record. It is the first delimited field of
// its source line and is treated as an opaque string throughout the
// pipeline.
type RefID = string

// RefDict maps a RefID to its ordered sequence of tokens. Token order
// preserves first occurrence in the source line.
type RefDict map[RefID][]string

// Clone returns a deep copy of d, so callers that need to diff "before"
// and "after" snapshots (e.g. idempotence tests) don't alias slices.
func (d RefDict) Clone() RefDict {
	out := make(RefDict, len(d))
	for id, toks := range d {
		cp := make([]string, len(toks))
		copy(cp, toks)
		out[id] = cp
	}
	return out
}

// RefIDs returns the dictionary's keys in sorted order, for deterministic
// iteration anywhere ordering matters (reporting, tests).
func (d RefDict) RefIDs() []RefID {
	out := make([]RefID, 0, len(d))
	for id := range d {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
