package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oysterer/dwm/pkg/dwm/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dwm.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqliteVariantStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.SaveVariants(ctx, map[string][]string{"SMITH": {"SMTIH", "SMYTH"}}); err != nil {
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

func TestSqliteVariantStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.SaveVariants(ctx, map[string][]string{"OLD": {"OLDX"}})
	s.SaveVariants(ctx, map[string][]string{"NEW": {"NEWX"}})

	got, _ := s.LoadVariants(ctx)
	if _, ok := got["OLD"]; ok {
		t.Error("expected OLD to be gone after replace")
	}
}

func TestSqliteRunStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	stat := store.IterationStat{
		RunID: "run1", Iteration: 1, Mu: 0.8, Epsilon: 0,
		CandidatePairs: 10, LinkedPairs: 5, Clusters: 3,
		Precision: 0.9, Recall: 0.8, FMeasure: 0.85,
	}
	if err := s.RecordIteration(ctx, stat); err != nil {
		t.Fatal(err)
	}

	got, err := s.IterationsForRun(ctx, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].CandidatePairs != 10 {
		t.Errorf("unexpected iterations: %+v", got)
	}
}

func TestSqliteRunStatsUpsertOnConflict(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.RecordIteration(ctx, store.IterationStat{RunID: "run1", Iteration: 1, Mu: 0.8})
	s.RecordIteration(ctx, store.IterationStat{RunID: "run1", Iteration: 1, Mu: 0.9})

	got, err := s.IterationsForRun(ctx, "run1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Mu != 0.9 {
		t.Errorf("expected upsert to replace mu, got %+v", got)
	}
}
