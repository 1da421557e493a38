package score

import (
	"sort"

	"github.com/oysterer/dwm/pkg/dwm/block"
	"github.com/oysterer/dwm/pkg/dwm/freq"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

// LinkedPair is a candidate pair that cleared the similarity threshold,
// carrying the score that produced the link.
type LinkedPair struct {
	A, B  reftoken.RefID
	Score float64
}

// Params configures PairScorer: the active comparator, the current
// iteration's similarity threshold, and the same frequency-based stop
// token filter BlockPairBuilder uses (§4.4 step 1) applied here to the
// token lists before comparison, so comparators never get diluted by
// high-frequency tokens that carry no discriminating signal. FreqDict
// and Sigma are both optional; leaving FreqDict nil disables filtering.
type Params struct {
	Comparator Comparator
	Mu         float64
	FreqDict   freq.Dict
	Sigma      int64
}

// Score compares every candidate pair's token lists with the configured
// comparator and keeps only those meeting or exceeding mu. Output is
// sorted by (A, B) for determinism, matching BlockPairBuilder's output
// order.
func Score(pairs []block.Pair, refDict reftoken.RefDict, params Params) []LinkedPair {
	out := make([]LinkedPair, 0, len(pairs))
	for _, p := range pairs {
		tokA := filterStopTokens(refDict[p.A], params)
		tokB := filterStopTokens(refDict[p.B], params)
		sim := params.Comparator.Compare(tokA, tokB)
		if sim >= params.Mu {
			out = append(out, LinkedPair{A: p.A, B: p.B, Score: sim})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func filterStopTokens(tokens []string, params Params) []string {
	if params.FreqDict == nil {
		return tokens
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if params.FreqDict[tok] >= params.Sigma {
			continue
		}
		out = append(out, tok)
	}
	return out
}
