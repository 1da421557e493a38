// Package correct implements the two token-correction stages: the
// corpus-wide GlobalCorrector (§4.3) and the per-block BlockCorrector
// (§4.5). Both return a rewritten copy of RefDict (the input is left
// unchanged) and share the same distance-1-or-transposition test.
package correct

import (
	"log"
	"sort"

	"github.com/oysterer/dwm/pkg/dwm/editdist"
	"github.com/oysterer/dwm/pkg/dwm/freq"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

// GlobalParams configures the GlobalCorrector.
type GlobalParams struct {
	MinFreqStdToken int64
	MinLenStdToken  int
	MaxFreqErrToken int64
	LearnVariants   bool
	DetailLog       bool
}

// GlobalResult reports what the corrector did, for data-capture and
// reporting collaborators.
type GlobalResult struct {
	RefDict        reftoken.RefDict
	Corrections    map[string]string // variant -> standard
	TokensCorrected int
	RefsCorrected   int
}

// tokenCount pairs a token with its corpus-wide document frequency.
type tokenCount struct {
	token string
	freq  int64
}

// GlobalCorrect runs the corpus-wide spelling correction pass described
// in §4.3: it builds a correction map from frequency-sorted candidates,
// merges in the persistent learned-variant map, optionally learns new
// variants back into it, and applies the result to every reference.
//
// The nested walk is deliberately sequential (most-frequent-first outer,
// least-frequent-first inner) — parallelizing it would change which
// token gets "consumed" first and so change the resulting correction
// set (spec §5).
func GlobalCorrect(refDict reftoken.RefDict, freqDict freq.Dict, wordList WordList, variantMap VariantMap, cache *editdist.Cache, params GlobalParams, logger *log.Logger) GlobalResult {
	sorted := sortedByFreqDesc(freqDict)

	clean := make([]tokenCount, 0, len(sorted))
	for _, tc := range sorted {
		if len(tc.token) < params.MinLenStdToken {
			continue
		}
		if !isAlpha(tc.token) {
			continue
		}
		if tc.freq <= params.MaxFreqErrToken && wordList.Contains(tc.token) {
			continue
		}
		clean = append(clean, tc)
	}

	corrections := make(map[string]string)
	n := len(clean)
	for j := 0; j < n; j++ {
		std := clean[j]
		if std.token == "" {
			continue
		}
		if std.freq < params.MinFreqStdToken {
			break
		}
		for k := n - 1; k > j; k-- {
			errTok := clean[k]
			if errTok.token == "" {
				continue
			}
			if errTok.freq > params.MaxFreqErrToken {
				break
			}
			lev := cache.Levenshtein(lower(std.token), lower(errTok.token))
			if lev == 1 {
				corrections[errTok.token] = std.token
				clean[k].token = ""
				continue
			}
			if lev == 2 && cache.DamerauLevenshtein(std.token, errTok.token) == 1 {
				corrections[errTok.token] = std.token
				clean[k].token = ""
			}
		}
	}

	// Persistent explicit mappings override any auto-derived conflicts.
	for variant, standard := range variantMap.ToVariantToStandard() {
		corrections[variant] = standard
	}

	if params.LearnVariants {
		autoDerived := make(map[string]string)
		for variant, standard := range corrections {
			autoDerived[variant] = standard
		}
		variantMap.Learn(autoDerived)
	}

	if params.DetailLog && logger != nil {
		logger.Printf("correct: global correction details (error token -> standard token)")
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
		logger.Printf("correct: global correction: %d correction pairs, %d tokens corrected, %d references corrected",
			len(corrections), tokensChanged, refsChanged)
	}

	return GlobalResult{
		RefDict:         newDict,
		Corrections:     corrections,
		TokensCorrected: tokensChanged,
		RefsCorrected:   refsChanged,
	}
}

// applyCorrections rewrites each reference's tokens, replacing any token
// present as a key in corrections with its standard form, preserving
// order.
func applyCorrections(refDict reftoken.RefDict, corrections map[string]string) (reftoken.RefDict, int, int) {
	newDict := make(reftoken.RefDict, len(refDict))
	tokensChanged := 0
	refsChanged := 0
	for refID, tokens := range refDict {
		changed := false
		newTokens := make([]string, len(tokens))
		for i, tok := range tokens {
			if std, ok := corrections[tok]; ok {
				newTokens[i] = std
				tokensChanged++
				changed = true
			} else {
				newTokens[i] = tok
			}
		}
		newDict[refID] = newTokens
		if changed {
			refsChanged++
		}
	}
	return newDict, tokensChanged, refsChanged
}

// sortedByFreqDesc returns (token, freq) pairs sorted by frequency
// descending, tie-broken by token for determinism.
func sortedByFreqDesc(freqDict freq.Dict) []tokenCount {
	out := make([]tokenCount, 0, len(freqDict))
	for tok, f := range freqDict {
		out = append(out, tokenCount{token: tok, freq: f})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].freq != out[j].freq {
			return out[i].freq > out[j].freq
		}
		return out[i].token < out[j].token
	})
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
