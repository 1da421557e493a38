package score

import (
	"github.com/oysterer/dwm/pkg/dwm/editdist"
)

// cellValue computes one matrix cell in rule order (spec §4.6): if
// numTokenRule is enabled and both tokens are all-digit, the cell is
// forced to 1.0 if they're equal and 0.0 otherwise — no fallback to
// normalized distance either way, an all-digit mismatch never gets
// partial credit. Else, if initialRule is enabled and either token has
// length 1, the same forced exact-match-or-zero applies (a lone
// initial either matches exactly or contributes nothing — it never
// gets diluted by, nor benefits from, normalized distance). Otherwise
// the cell is the normalized Damerau-Levenshtein similarity.
func cellValue(a, b string, cache *editdist.Cache, numTokenRule, initialRule bool) float64 {
	if numTokenRule && isAllDigits(a) && isAllDigits(b) {
		if a == b {
			return 1.0
		}
		return 0.0
	}
	if initialRule && (len([]rune(a)) == 1 || len([]rune(b)) == 1) {
		if a == b {
			return 1.0
		}
		return 0.0
	}
	var dist int
	if cache != nil {
		dist = cache.DamerauLevenshtein(a, b)
	} else {
		dist = editdist.DamerauLevenshtein(a, b)
	}
	return editdist.NormalizedDamerauSimilarity(dist, len([]rune(a)), len([]rune(b)))
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

// buildMatrix computes every cell of the rows x cols similarity matrix.
func buildMatrix(rows, cols []string, cache *editdist.Cache, numTokenRule, initialRule bool) [][]float64 {
	m := make([][]float64, len(rows))
	for i, r := range rows {
		m[i] = make([]float64, len(cols))
		for j, c := range cols {
			m[i][j] = cellValue(r, c, cache, numTokenRule, initialRule)
		}
	}
	return m
}

// shorterLonger orders two token lists so the shorter one is returned
// first — the matrix is always built shorter-by-longer, since
// ScoringMatrixKris's weighting is defined in terms of a token's
// position within the shorter reference (spec §4.6, DWM66_
// ScoringMatrixKris.py's "make ref1 the shorter list").
func shorterLonger(a, b []string) (shorter, longer []string) {
	if len(b) < len(a) {
		return b, a
	}
	return a, b
}

// greedyAssign repeatedly finds the single largest remaining cell in
// the matrix, records the assignment, and marks its row and column
// used so neither can be matched again. Explicit rowUsed/colUsed arrays
// are used instead of mutating matrix cells to a sentinel, so the
// matrix itself stays inspectable for logging (spec §9 redesign note).
type assignment struct {
	row, col int
	value    float64
}

func greedyAssign(matrix [][]float64) []assignment {
	rows := len(matrix)
	if rows == 0 {
		return nil
	}
	cols := len(matrix[0])
	rowUsed := make([]bool, rows)
	colUsed := make([]bool, cols)

	maxMatches := rows
	if cols < maxMatches {
		maxMatches = cols
	}

	out := make([]assignment, 0, maxMatches)
	for n := 0; n < maxMatches; n++ {
		bestRow, bestCol, bestVal := -1, -1, -1.0
		for i := 0; i < rows; i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < cols; j++ {
				if colUsed[j] {
					continue
				}
				if matrix[i][j] > bestVal {
					bestVal = matrix[i][j]
					bestRow, bestCol = i, j
				}
			}
		}
		if bestRow == -1 {
			break
		}
		rowUsed[bestRow] = true
		colUsed[bestCol] = true
		out = append(out, assignment{row: bestRow, col: bestCol, value: bestVal})
	}
	return out
}

// ScoringMatrixStd scores two token lists by greedily assigning each
// token in the shorter list to its best-matching token in the longer
// list, then averaging the assigned cell values uniformly — every
// matched pair counts equally regardless of assignment order.
// NumTokenRule and InitialRule gate the two forced exact-match cell
// rules (spec §4.6, config `matrixNumTokenRule`/`matrixInitialRule`).
type ScoringMatrixStd struct {
	Cache        *editdist.Cache
	NumTokenRule bool
	InitialRule  bool
}

func (ScoringMatrixStd) Name() string { return "scoring_matrix_std" }

func (s ScoringMatrixStd) Compare(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	rows, cols := shorterLonger(a, b)
	matrix := buildMatrix(rows, cols, s.Cache, s.NumTokenRule, s.InitialRule)
	assignments := greedyAssign(matrix)
	if len(assignments) == 0 {
		return 0
	}
	total := 0.0
	for _, as := range assignments {
		total += as.value
	}
	return total / float64(len(assignments))
}

// ScoringMatrixKris scores the same greedy assignment as
// ScoringMatrixStd, but weights each assigned pair by the position its
// shorter-list token occupies in the shorter reference: the token at
// row 0 carries weight m/base, row 1 carries (m-1)/base, and so on,
// where m is the number of assignments and base = m(m+1)/2. This
// rewards a strong match on an early, more identity-bearing token over
// an equally strong match deeper in the list, regardless of which
// order the greedy scan happens to discover them in.
type ScoringMatrixKris struct {
	Cache        *editdist.Cache
	NumTokenRule bool
	InitialRule  bool
}

func (ScoringMatrixKris) Name() string { return "scoring_matrix_kris" }

func (s ScoringMatrixKris) Compare(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	rows, cols := shorterLonger(a, b)
	matrix := buildMatrix(rows, cols, s.Cache, s.NumTokenRule, s.InitialRule)
	assignments := greedyAssign(matrix)
	m := len(assignments)
	if m == 0 {
		return 0
	}
	base := float64(m*(m+1)) / 2
	total := 0.0
	for _, as := range assignments {
		weight := float64(m-as.row) / base
		total += weight * as.value
	}
	return total
}
