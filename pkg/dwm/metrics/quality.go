package metrics

import (
	"github.com/oysterer/dwm/pkg/dwm/block"
	"github.com/oysterer/dwm/pkg/dwm/cluster"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

// Quality holds the pairwise precision/recall/F-measure of a LinkIndex
// against ground truth, plus the raw pair counts the ratios come from.
type Quality struct {
	TruePairs     float64
	ExpectedPairs float64
	LinkedPairs   float64
	Precision     float64
	Recall        float64
	FMeasure      float64
}

// countPairs sums n(n-1)/2 over every group's member count — the
// standard way of turning "n items in one cluster" into "pairs implied
// by that cluster" without enumerating the pairs themselves.
func countPairs(counts map[string]int64) float64 {
	var total float64
	for _, n := range counts {
		total += float64(n*(n-1)) / 2
	}
	return total
}

// EvaluateLinkIndex computes pairwise precision, recall, and F-measure
// of linkIndex against truth, per §4.10. Every reference contributes to
// exactly one (clusterID, truthID) pair; linked pairs come from grouping
// by clusterID, expected pairs from grouping by truthID, and true
// positives from grouping by the pair of the two together — so a true
// positive only counts two references as a match when they share both
// the same predicted cluster AND the same ground-truth entity.
func EvaluateLinkIndex(linkIndex cluster.LinkIndex, truth TruthDict) Quality {
	type pairKey struct {
		clusterID, truthID string
	}

	linkedCounts := make(map[string]int64)
	truthCounts := make(map[string]int64)
	truePosCounts := make(map[pairKey]int64)

	for refID, clusterID := range linkIndex {
		truthID, ok := truth[refID]
		if !ok {
			truthID = ""
		}
		linkedCounts[clusterID]++
		if truthID != "" {
			truthCounts[truthID]++
			truePosCounts[pairKey{clusterID, truthID}]++
		}
	}

	tpCounts := make(map[string]int64, len(truePosCounts))
	for k, n := range truePosCounts {
		tpCounts[k.clusterID+"\x00"+k.truthID] = n
	}

	L := countPairs(linkedCounts)
	E := countPairs(truthCounts)
	TP := countPairs(tpCounts)

	precision := 1.0
	if L > 0 {
		precision = round4(TP / L)
	}
	recall := 1.0
	if E > 0 {
		recall = round4(TP / E)
	}
	fmeas := 0.0
	if precision+recall > 0 {
		fmeas = round4(2 * precision * recall / (precision + recall))
	}

	return Quality{
		TruePairs:     TP,
		ExpectedPairs: E,
		LinkedPairs:   L,
		Precision:     precision,
		Recall:        recall,
		FMeasure:      fmeas,
	}
}

// BlockingQuality holds the candidate/expected/true-positive pair
// counts and precision/recall/F-measure of one blocking pass.
type BlockingQuality struct {
	CandidatePairs float64
	ExpectedPairs  float64
	TruePairs      float64
	Precision      float64
	Recall         float64
	FMeasure       float64
}

// EvaluateBlocking scores a BlockPairBuilder output against ground
// truth restricted to the current dataset's RefIDs, per §4.10: the
// denominator for recall only counts pairs among references actually
// present in refDict, so running on a subset of a larger truth file
// doesn't understate blocking recall.
func EvaluateBlocking(pairs []block.Pair, refDict reftoken.RefDict, truth TruthDict) BlockingQuality {
	datasetTruth := make(TruthDict)
	for refID := range refDict {
		if truthID, ok := truth[refID]; ok {
			datasetTruth[refID] = truthID
		}
	}

	truthCounts := make(map[string]int64)
	for _, truthID := range datasetTruth {
		truthCounts[truthID]++
	}
	E := countPairs(truthCounts)

	C := float64(len(pairs))
	var TP float64
	for _, p := range pairs {
		ta, okA := datasetTruth[p.A]
		tb, okB := datasetTruth[p.B]
		if okA && okB && ta == tb {
			TP++
		}
	}

	precision := 1.0
	if C > 0 {
		precision = round4(TP / C)
	}
	recall := 1.0
	if E > 0 {
		recall = round4(TP / E)
	}
	fmeas := 0.0
	if precision+recall > 0 {
		fmeas = round4(2 * precision * recall / (precision + recall))
	}

	return BlockingQuality{
		CandidatePairs: C,
		ExpectedPairs:  E,
		TruePairs:      TP,
		Precision:      precision,
		Recall:         recall,
		FMeasure:       fmeas,
	}
}

func round4(f float64) float64 {
	const scale = 10000
	if f >= 0 {
		return float64(int64(f*scale+0.5)) / scale
	}
	return float64(int64(f*scale-0.5)) / scale
}
