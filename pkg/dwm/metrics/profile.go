package metrics

import "github.com/oysterer/dwm/pkg/dwm/reftoken"

// Profile summarizes a RefDict's token shape, used to sanity-check the
// tokenizer and corrector stages between iterations: a sudden jump in
// the numeric-token ratio or a collapsing average token length usually
// means a corrector pass behaved unexpectedly.
type Profile struct {
	TotalTokens     int64
	DistinctTokens  int64
	AverageLength   float64
	NumericTokens   int64
	NumericRatio    float64
}

// BuildProfile computes token-length and numeric-content statistics
// over every token in refDict, a supplemented reporting feature not
// named directly by the original spec's component list but present in
// the source system's per-iteration diagnostics.
func BuildProfile(refDict reftoken.RefDict) Profile {
	var p Profile
	distinct := make(map[string]struct{})
	var totalLen int64

	for _, tokens := range refDict {
		for _, tok := range tokens {
			p.TotalTokens++
			totalLen += int64(len([]rune(tok)))
			distinct[tok] = struct{}{}
			if isAllDigits(tok) {
				p.NumericTokens++
			}
		}
	}

	p.DistinctTokens = int64(len(distinct))
	if p.TotalTokens > 0 {
		p.AverageLength = float64(totalLen) / float64(p.TotalTokens)
		p.NumericRatio = float64(p.NumericTokens) / float64(p.TotalTokens)
	}
	return p
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
