// Package metrics computes quality measures against ground truth
// (pairwise precision/recall/F-measure, blocking precision/recall/
// F-measure, §4.10), cluster entropy (§4.10), and token profiling
// statistics (a supplemented feature, §7).
package metrics

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

// TruthDict maps a RefID to its ground-truth entity ID, loaded from a
// two-column CSV (refID,truthID) with a header row.
type TruthDict map[reftoken.RefID]string

// LoadTruthDict reads the ground-truth CSV. A missing file is returned
// as an error here, unlike the optional wordlist/variant inputs —
// metrics generation is explicitly requested by the caller and has no
// meaningful empty default.
func LoadTruthDict(path string) (TruthDict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metrics: open truth file: %w", err)
	}
	defer f.Close()

	truth := make(TruthDict)
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			continue
		}
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			continue
		}
		refID := strings.TrimSpace(parts[0])
		truthID := strings.TrimSpace(parts[1])
		truth[refID] = truthID
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("metrics: read truth file: %w", err)
	}
	return truth, nil
}
