package correct

import (
	"log"
	"sort"

	"github.com/oysterer/dwm/pkg/dwm/editdist"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

// BlockParams configures the BlockCorrector. It reuses the same
// min-length/alphabetic filter as the global pass but has no frequency
// thresholds — a block is small enough that every token in it is a
// candidate.
type BlockParams struct {
	MinLenStdToken int
	DetailLog      bool
}

// BlockResult reports what the corrector did within one run over all
// blocks.
type BlockResult struct {
	RefDict         reftoken.RefDict
	Corrections     map[string]string
	TokensCorrected int
	RefsCorrected   int
}

// BlockCorrect looks for local misspellings within each block (posting
// list): references that co-occur on a blocking token but disagree on
// some other token by a single edit or transposition. Spec §4.5 scopes
// this to the first iteration only — callers are expected not to call
// it again once the iteration driver has advanced past μ_start.
//
// Unlike GlobalCorrect, candidates are not pre-sorted by corpus-wide
// frequency: within a block every token pair is compared, since a block
// is small by construction.
func BlockCorrect(refDict reftoken.RefDict, postingLists [][]reftoken.RefID, cache *editdist.Cache, params BlockParams, logger *log.Logger) BlockResult {
	corrections := make(map[string]string)

	for _, refs := range postingLists {
		sorted := append([]reftoken.RefID(nil), refs...)
		sort.Strings(sorted)

		tokenCounts := make(map[string]int64)
		order := make([]string, 0)
		for _, ref := range sorted {
			seen := make(map[string]struct{})
			for _, tok := range refDict[ref] {
				if _, ok := seen[tok]; ok {
					continue
				}
				seen[tok] = struct{}{}
				if _, ok := tokenCounts[tok]; !ok {
					order = append(order, tok)
				}
				tokenCounts[tok]++
			}
		}

		candidates := make([]tokenCount, 0, len(order))
		for _, tok := range order {
			if len(tok) < params.MinLenStdToken || !isAlpha(tok) {
				continue
			}
			candidates = append(candidates, tokenCount{token: tok, freq: tokenCounts[tok]})
		}
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].freq != candidates[j].freq {
				return candidates[i].freq > candidates[j].freq
			}
			return candidates[i].token < candidates[j].token
		})

		n := len(candidates)
		for j := 0; j < n; j++ {
			std := candidates[j]
			if std.token == "" {
				continue
			}
			for k := n - 1; k > j; k-- {
				errTok := candidates[k]
				if errTok.token == "" {
					continue
				}
				if _, already := corrections[errTok.token]; already {
					continue
				}
				lev := cache.Levenshtein(lower(std.token), lower(errTok.token))
				if lev == 1 {
					corrections[errTok.token] = std.token
					candidates[k].token = ""
					continue
				}
				if lev == 2 && cache.DamerauLevenshtein(std.token, errTok.token) == 1 {
					corrections[errTok.token] = std.token
					candidates[k].token = ""
				}
			}
		}
	}

	if params.DetailLog && logger != nil {
		logger.Printf("correct: block correction details (error token -> standard token)")
		keys := make([]string, 0, len(corrections))
		for k := range corrections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logger.Printf("  %s -> %s", k, corrections[k])
		}
	}

	newDict, tokensChanged, refsChanged := applyCorrections(refDict, corrections)

	if logger != nil {
		logger.Printf("correct: block correction: %d correction pairs, %d tokens corrected, %d references corrected",
			len(corrections), tokensChanged, refsChanged)
	}

	return BlockResult{
		RefDict:         newDict,
		Corrections:     corrections,
		TokensCorrected: tokensChanged,
		RefsCorrected:   refsChanged,
	}
}
