// Package editdist computes Levenshtein and Damerau-Levenshtein edit
// distances between tokens, comparing runes exactly as given (no case
// folding), with an LRU-memoized front end since
// the correction stages (global, block) and the ScoringMatrix comparators
// all recompute distances for overlapping token pairs across iterations.
package editdist

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Levenshtein returns the classic edit distance (insert, delete,
// substitute, each cost 1) between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// DamerauLevenshtein returns the edit distance allowing adjacent
// transpositions as a single operation, in addition to insert, delete,
// and substitute.
func DamerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min3(
				d[i-1][j]+1,
				d[i][j-1]+1,
				d[i-1][j-1]+cost,
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := d[i-2][j-2] + 1; t < d[i][j] {
					d[i][j] = t
				}
			}
		}
	}
	return d[la][lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// NormalizedDamerauSimilarity converts a Damerau-Levenshtein distance
// into a [0,1] similarity normalized by the longer token's length, used
// by ScoringMatrixKris/Std as the default token-pair similarity rule.
func NormalizedDamerauSimilarity(dist, lenA, lenB int) float64 {
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 1.0
	}
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// pairKey is the memoization key. Distance is symmetric so the pair is
// canonicalized (smaller string first) before lookup.
type pairKey struct {
	a, b string
}

func canonical(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Cache memoizes edit-distance computations across a run. A single Cache
// is shared by the global corrector, block corrector, and
// ScoringMatrix comparators, since the same token pairs recur across
// many blocks and iterations.
type Cache struct {
	lev *lru.Cache[pairKey, int]
	dam *lru.Cache[pairKey, int]
}

// DefaultCacheSize bounds memory use for very large corpora; it is large
// enough that a typical run's working set of token pairs fits without
// eviction thrash.
const DefaultCacheSize = 1 << 16

// NewCache creates an edit-distance cache with the default size.
func NewCache() *Cache {
	lev, _ := lru.New[pairKey, int](DefaultCacheSize)
	dam, _ := lru.New[pairKey, int](DefaultCacheSize)
	return &Cache{lev: lev, dam: dam}
}

// Levenshtein returns the cached (or freshly computed) Levenshtein
// distance between a and b.
func (c *Cache) Levenshtein(a, b string) int {
	key := canonical(a, b)
	if v, ok := c.lev.Get(key); ok {
		return v
	}
	v := Levenshtein(a, b)
	c.lev.Add(key, v)
	return v
}

// DamerauLevenshtein returns the cached (or freshly computed)
// Damerau-Levenshtein distance between a and b.
func (c *Cache) DamerauLevenshtein(a, b string) int {
	key := canonical(a, b)
	if v, ok := c.dam.Get(key); ok {
		return v
	}
	v := DamerauLevenshtein(a, b)
	c.dam.Add(key, v)
	return v
}
