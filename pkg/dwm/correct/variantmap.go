package correct

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// VariantMap is the persistent learned-variant map: standard token ->
// sorted list of known misspelling variants. It is the one piece of
// state the engine carries between runs (spec §1, §3).
type VariantMap map[string][]string

// LoadVariantMap reads the persistent map from a JSON file. A missing
// file is not an error; it yields an empty map, per §7 (missing optional
// inputs warn and continue with empty defaults).
func LoadVariantMap(path string) (VariantMap, error) {
	vm := make(VariantMap)
	if path == "" {
		return vm, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return vm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("correct: read variant map: %w", err)
	}
	if err := json.Unmarshal(data, &vm); err != nil {
		// A corrupt variant map is treated the same as a missing one:
		// warn and continue with an empty default, never fatal.
		return make(VariantMap), nil
	}
	return vm, nil
}

// Save writes the variant map back to path, sorted alphabetically by
// key and by variant, using a write-temp-and-rename strategy so a crash
// mid-write never leaves a corrupt file behind (spec §5).
func (vm VariantMap) Save(path string) error {
	standards := make([]string, 0, len(vm))
	for std := range vm {
		standards = append(standards, std)
	}
	sort.Strings(standards)

	ordered := make(map[string][]string, len(vm))
	for _, std := range standards {
		variants := append([]string(nil), vm[std]...)
		sort.Strings(variants)
		ordered[std] = variants
	}

	data, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return fmt.Errorf("correct: marshal variant map: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".variantmap-*.tmp")
	if err != nil {
		return fmt.Errorf("correct: create temp variant map file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("correct: write temp variant map file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("correct: close temp variant map file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("correct: rename variant map file: %w", err)
	}
	return nil
}

// ToVariantToStandard flattens the map into variant -> standard, the
// direction the corrector actually applies corrections in.
func (vm VariantMap) ToVariantToStandard() map[string]string {
	out := make(map[string]string)
	for std, variants := range vm {
		for _, v := range variants {
			out[v] = std
		}
	}
	return out
}

// Learn merges newly discovered (variant, standard) corrections into vm.
// A variant already present anywhere in the map (even under a different
// standard) is never reassigned, respecting manual/prior mappings.
// Returns true if the map changed.
func (vm VariantMap) Learn(corrections map[string]string) bool {
	existing := make(map[string]struct{})
	for _, variants := range vm {
		for _, v := range variants {
			existing[v] = struct{}{}
		}
	}

	updated := false
	for variant, standard := range corrections {
		if !isAlpha(variant) || !isAlpha(standard) {
			continue
		}
		if _, ok := existing[variant]; ok {
			continue
		}
		if variant == standard {
			continue
		}
		vm[standard] = append(vm[standard], variant)
		existing[variant] = struct{}{}
		updated = true
	}
	if updated {
		for std := range vm {
			vm[std] = dedupSorted(vm[std])
		}
	}
	return updated
}

func dedupSorted(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := ss[:0]
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}
