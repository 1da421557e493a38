package metrics

import "math"

const nameWeight = 0.76

// ClusterEntropy scores how internally consistent one cluster's token
// lists are: 1.0 means every reference in the cluster agrees on every
// token, lower scores mean the cluster mixes disagreeing values (a
// signal of over-merging). Name and address tokens are scored
// separately and combined as nameWeight and 1-nameWeight, since address
// tokens vary more legitimately than name tokens do.
func ClusterEntropy(tokenLists [][]string) float64 {
	var nameCluster, addressCluster [][]string
	var nameCount, addressCount int

	for _, tokens := range tokenLists {
		names, addrs := splitNameAddress(tokens)
		nameCluster = append(nameCluster, names)
		addressCluster = append(addressCluster, addrs)
		nameCount += len(names)
		addressCount += len(addrs)
	}

	nameQuality := entropyQuality(nameCluster)
	addressQuality := entropyQuality(addressCluster)

	switch {
	case nameCount > 0 && addressCount > 0:
		return nameWeight*nameQuality + (1.0-nameWeight)*addressQuality
	case nameCount > 0:
		return nameQuality
	default:
		return addressQuality
	}
}

// splitNameAddress splits a reference's token list into a leading name
// part and a trailing address part: the first token bearing a digit
// starts the address part, and every token after it (digit-bearing or
// not) belongs to the address too. This is a domain-specific heuristic,
// not a general tokenization rule — most records are "name words,
// then house number, then street" in that order.
func splitNameAddress(tokens []string) (names, addrs []string) {
	foundNumber := false
	for _, tok := range tokens {
		if !foundNumber && hasDigit(tok) {
			foundNumber = true
		}
		if foundNumber {
			addrs = append(addrs, tok)
		} else {
			names = append(names, tok)
		}
	}
	return names, addrs
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// entropyQuality computes 1 - (actual token-distribution entropy) /
// (maximum possible entropy for a cluster of this size and token
// count). A cluster where every token is identical across members
// yields entropy 0 and quality 1; a cluster where tokens only ever
// appear once yields the maximum entropy and quality 0.
func entropyQuality(cluster [][]string) float64 {
	clusterSize := len(cluster)
	if clusterSize == 0 {
		return 1.0
	}
	tokenCount := 0
	for _, tokens := range cluster {
		tokenCount += len(tokens)
	}
	if tokenCount == 0 {
		return 1.0
	}

	baseProb := 1.0 / float64(clusterSize)
	base := -float64(tokenCount) * baseProb * math.Log2(baseProb)
	if base == 0 {
		return 1.0
	}

	working := make([][]string, clusterSize)
	for i, tokens := range cluster {
		working[i] = append([]string(nil), tokens...)
	}

	entropy := 0.0
	for j := 0; j < clusterSize-1; j++ {
		for _, token := range working[j] {
			cnt := 1
			for k := j + 1; k < clusterSize; k++ {
				if idx := indexOf(working[k], token); idx >= 0 {
					cnt++
					working[k] = removeAt(working[k], idx)
				}
			}
			tokenProb := float64(cnt) / float64(clusterSize)
			entropy += -tokenProb * math.Log2(tokenProb)
		}
	}
	for range working[clusterSize-1] {
		tokenProb := 1.0 / float64(clusterSize)
		entropy += -tokenProb * math.Log2(tokenProb)
	}

	return 1.0 - entropy/base
}

func indexOf(ss []string, target string) int {
	for i, s := range ss {
		if s == target {
			return i
		}
	}
	return -1
}

func removeAt(ss []string, i int) []string {
	return append(ss[:i], ss[i+1:]...)
}
