// Package score implements the pairwise comparators used to score
// candidate pairs (§4.6): Cosine, MongeElkan, and the two greedy
// token-assignment scoring matrices.
package score

import (
	"math"

	"github.com/oysterer/dwm/pkg/dwm/editdist"
)

// Comparator scores the similarity of two token lists in [0, 1].
// Implementations are tagged-variant, not string-dispatched: the
// iteration driver picks a concrete Comparator at config-load time
// instead of switching on a method name at scoring time (spec §9
// redesign note).
type Comparator interface {
	Compare(a, b []string) float64
	Name() string
}

// Cosine scores token-set overlap by cosine similarity over binary
// token-presence vectors (bag-of-tokens, not weighted by frequency).
type Cosine struct{}

func (Cosine) Name() string { return "cosine" }

func (Cosine) Compare(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersect := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersect++
		}
	}
	return float64(intersect) / math.Sqrt(float64(len(setA))*float64(len(setB)))
}

// MongeElkan scores by averaging, for each token in the shorter list,
// the best per-token similarity found against the other list, using
// normalized Damerau-Levenshtein similarity as the inner metric.
type MongeElkan struct {
	Cache *editdist.Cache
}

func (MongeElkan) Name() string { return "monge_elkan" }

func (m MongeElkan) Compare(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}
	total := 0.0
	for _, tok := range shorter {
		best := 0.0
		for _, other := range longer {
			sim := m.similarity(tok, other)
			if sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(shorter))
}

func (m MongeElkan) similarity(a, b string) float64 {
	var dist int
	if m.Cache != nil {
		dist = m.Cache.DamerauLevenshtein(a, b)
	} else {
		dist = editdist.DamerauLevenshtein(a, b)
	}
	return editdist.NormalizedDamerauSimilarity(dist, len([]rune(a)), len([]rune(b)))
}

func toSet(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		out[t] = struct{}{}
	}
	return out
}
