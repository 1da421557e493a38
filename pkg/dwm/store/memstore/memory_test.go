package memstore

import (
	"context"
	"testing"

	"github.com/oysterer/dwm/pkg/dwm/store"
)

func TestVariantStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewVariantStore()

	want := map[string][]string{"SMITH": {"SMTIH", "SMYTH"}}
	if err := s.SaveVariants(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadVariants(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got["SMITH"]) != 2 {
		t.Errorf("expected 2 variants, got %v", got)
	}
}

func TestVariantStoreSaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	s := NewVariantStore()
	s.SaveVariants(ctx, map[string][]string{"OLD": {"OLDX"}})
	s.SaveVariants(ctx, map[string][]string{"NEW": {"NEWX"}})

	got, _ := s.LoadVariants(ctx)
	if _, ok := got["OLD"]; ok {
		t.Error("expected OLD to be gone after replace")
	}
	if _, ok := got["NEW"]; !ok {
		t.Error("expected NEW to be present")
	}
}

func TestRunStatsStoreRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	s := NewRunStatsStore()

	s.RecordIteration(ctx, store.IterationStat{RunID: "run1", Iteration: 1, Mu: 0.8})
	s.RecordIteration(ctx, store.IterationStat{RunID: "run1", Iteration: 2, Mu: 0.9})
	s.RecordIteration(ctx, store.IterationStat{RunID: "run2", Iteration: 1, Mu: 0.8})

	got, err := s.IterationsForRun(ctx, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 iterations for run1, got %d", len(got))
	}
	if got[0].Iteration != 1 || got[1].Iteration != 2 {
		t.Errorf("expected sorted by iteration, got %+v", got)
	}
}
