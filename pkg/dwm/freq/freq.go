// Package freq builds and maintains the TokenFreqDict: a document-
// frequency count per token, rebuilt every time RefDict is rewritten by
// a correction stage.
package freq

import "github.com/oysterer/dwm/pkg/dwm/reftoken"

// Dict maps a token to the number of references that contain it at
// least once (document frequency, not term frequency — a token
// repeated within one reference counts once for that reference).
type Dict map[string]int64

// Build rebuilds the TokenFreqDict from the current RefDict. Must be
// re-run after any stage that rewrites tokens (global correction, block
// correction).
func Build(refDict reftoken.RefDict) Dict {
	freqDict := make(Dict, len(refDict))
	for _, tokens := range refDict {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			freqDict[tok]++
		}
	}
	return freqDict
}

// Total sums all frequencies in the dictionary — used by invariant
// checks (TESTABLE PROPERTIES §8.4: frequencies sum to the number of
// unique tokens per reference, summed over RefDict).
func (d Dict) Total() int64 {
	var total int64
	for _, c := range d {
		total += c
	}
	return total
}
