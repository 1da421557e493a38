// Package memstore is an in-memory implementation of store.VariantStore
// and store.RunStatsStore, used in tests and single-shot command-line
// runs that don't need cross-run history.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/oysterer/dwm/pkg/dwm/store"
)

// VariantStore is an in-memory store.VariantStore.
type VariantStore struct {
	mu       sync.RWMutex
	variants map[string][]string
}

// NewVariantStore creates an empty in-memory variant store.
func NewVariantStore() *VariantStore {
	return &VariantStore{variants: make(map[string][]string)}
}

func (s *VariantStore) Close() error { return nil }

func (s *VariantStore) LoadVariants(ctx context.Context) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.variants))
	for std, variants := range s.variants {
		cp := make([]string, len(variants))
		copy(cp, variants)
		out[std] = cp
	}
	return out, nil
}

func (s *VariantStore) SaveVariants(ctx context.Context, variants map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(variants))
	for std, vs := range variants {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[std] = cp
	}
	s.variants = out
	return nil
}

// RunStatsStore is an in-memory store.RunStatsStore.
type RunStatsStore struct {
	mu    sync.RWMutex
	stats []store.IterationStat
}

// NewRunStatsStore creates an empty in-memory run-stats store.
func NewRunStatsStore() *RunStatsStore {
	return &RunStatsStore{}
}

func (s *RunStatsStore) Close() error { return nil }

func (s *RunStatsStore) RecordIteration(ctx context.Context, stat store.IterationStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = append(s.stats, stat)
	return nil
}

func (s *RunStatsStore) IterationsForRun(ctx context.Context, runID string) ([]store.IterationStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.IterationStat
	for _, st := range s.stats {
		if st.RunID == runID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Iteration < out[j].Iteration })
	return out, nil
}
