package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is a secondary, YAML-backed configuration for comparator
// weights that are impractical to express as single key=value lines —
// per-length-bucket weight overrides for ScoringMatrixKris, and a list
// of tokens exempted from the word-list-based correction filter
// regardless of frequency. It is optional and orthogonal to the main
// parameter file. LoadTuning only parses the file: neither field is
// read by the pipeline, the correctors, or the comparators.
type Tuning struct {
	KrisWeightOverrides map[int]float64 `yaml:"krisWeightOverrides"`
	WordListExemptions  []string        `yaml:"wordListExemptions"`
}

// LoadTuning reads the tuning file. A missing path is not an error —
// tuning is an optional refinement, not a required input (spec §7).
func LoadTuning(path string) (*Tuning, error) {
	if path == "" {
		return &Tuning{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Tuning{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read tuning file: %w", err)
	}
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("config: parse tuning file: %w", err)
	}
	return &t, nil
}
