// Package block generates candidate pairs ("blocking") by finding
// references that share rare tokens, and exposes the underlying
// inverted index so the block corrector (§4.5) can work within the same
// blocks.
package block

import (
	"sort"

	"github.com/oysterer/dwm/pkg/dwm/freq"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

// Pair is an unordered candidate pair, always stored with the
// lexicographically smaller RefID first (spec §3 BlockPair invariant).
type Pair struct {
	A, B reftoken.RefID
}

// Params configures blocking-token derivation and pair generation.
type Params struct {
	Sigma                  int64 // document-frequency cutoff for stop tokens
	MinBlkTokenLen         int
	ExcludeNumericBlocks   bool
	RemoveExcludedBlkTokens bool
	BlockByPairs           bool
}

// Index is the inverted index built during blocking: either
// Token -> []RefID (single-token blocking) or TokenPair -> []RefID
// (blockByPairs), kept around so the BlockCorrector can walk the same
// posting lists without recomputing blocking tokens.
type Index struct {
	singleKey map[string][]reftoken.RefID
	pairKey   map[[2]string][]reftoken.RefID
	byPairs   bool
}

// PostingLists returns every posting list of length >= 2, each as a
// sorted slice of RefIDs, regardless of whether the index keys on single
// tokens or token pairs. Used by the BlockCorrector to look for local
// misspellings within each block.
func (idx *Index) PostingLists() [][]reftoken.RefID {
	var out [][]reftoken.RefID
	if idx.byPairs {
		for _, refs := range idx.pairKey {
			if len(refs) >= 2 {
				out = append(out, refs)
			}
		}
	} else {
		for _, refs := range idx.singleKey {
			if len(refs) >= 2 {
				out = append(out, refs)
			}
		}
	}
	return out
}

// BlockingTokens derives the blocking-token set for one reference's
// token list: drop stop tokens (freq >= sigma), optionally drop short or
// numeric tokens, and dedupe preserving order.
func BlockingTokens(tokens []string, freqDict freq.Dict, p Params) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if freqDict[tok] >= p.Sigma {
			continue
		}
		if p.RemoveExcludedBlkTokens {
			if len(tok) < p.MinBlkTokenLen {
				continue
			}
			if p.ExcludeNumericBlocks && isAllDigits(tok) {
				continue
			}
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Build constructs the inverted index and the deduplicated candidate
// pair list for the current RefDict, per §4.4. Returns an empty pair
// list (and a usable, empty Index) when no two references share a
// blocking token.
func Build(refDict reftoken.RefDict, freqDict freq.Dict, p Params) ([]Pair, *Index) {
	idx := &Index{byPairs: p.BlockByPairs}

	if p.BlockByPairs {
		idx.pairKey = make(map[[2]string][]reftoken.RefID)
	} else {
		idx.singleKey = make(map[string][]reftoken.RefID)
	}

	refIDs := refDict.RefIDs()
	for _, refID := range refIDs {
		blkTokens := BlockingTokens(refDict[refID], freqDict, p)
		if p.BlockByPairs {
			for i := 0; i < len(blkTokens); i++ {
				for j := i + 1; j < len(blkTokens); j++ {
					key := canonicalPair(blkTokens[i], blkTokens[j])
					idx.pairKey[key] = append(idx.pairKey[key], refID)
				}
			}
		} else {
			for _, tok := range blkTokens {
				idx.singleKey[tok] = append(idx.singleKey[tok], refID)
			}
		}
	}

	seen := make(map[Pair]struct{})
	var pairs []Pair
	for _, postings := range postingListsOf(idx) {
		if len(postings) < 2 {
			continue
		}
		for i := 0; i < len(postings); i++ {
			for j := i + 1; j < len(postings); j++ {
				pair := canonicalRefPair(postings[i], postings[j])
				if _, ok := seen[pair]; ok {
					continue
				}
				seen[pair] = struct{}{}
				pairs = append(pairs, pair)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	return pairs, idx
}

func postingListsOf(idx *Index) [][]reftoken.RefID {
	var out [][]reftoken.RefID
	if idx.byPairs {
		for _, refs := range idx.pairKey {
			out = append(out, refs)
		}
	} else {
		for _, refs := range idx.singleKey {
			out = append(out, refs)
		}
	}
	return out
}

func canonicalPair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func canonicalRefPair(a, b reftoken.RefID) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
