package cluster

import (
	"testing"

	"github.com/oysterer/dwm/pkg/dwm/reftoken"
	"github.com/oysterer/dwm/pkg/dwm/score"
)

func TestTransitiveClosureChainsThroughSharedMember(t *testing.T) {
	// Scenario 5: A-B linked, B-C linked -> one cluster {A,B,C}.
	pairs := []score.LinkedPair{
		{A: "b2", B: "a1", Score: 0.9},
		{A: "b2", B: "c3", Score: 0.9},
	}
	clusters := TransitiveClosure(pairs)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d: %v", len(clusters), clusters)
	}
	c := clusters[0]
	if c.Rep != "a1" {
		t.Errorf("rep = %q, want a1 (lexicographically smallest)", c.Rep)
	}
	want := map[reftoken.RefID]bool{"a1": true, "b2": true, "c3": true}
	if len(c.Members) != 3 {
		t.Fatalf("members = %v, want 3 entries", c.Members)
	}
	for _, m := range c.Members {
		if !want[m] {
			t.Errorf("unexpected member %q", m)
		}
	}
}

func TestTransitiveClosureDisjointPairsStaySeparate(t *testing.T) {
	pairs := []score.LinkedPair{
		{A: "a1", B: "a2"},
		{A: "z1", B: "z2"},
	}
	clusters := TransitiveClosure(pairs)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
}

func TestBuildLinkIndexSeedsEverySingleton(t *testing.T) {
	idx := BuildLinkIndex([]reftoken.RefID{"a1", "b2", "c3"})
	if len(idx) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(idx))
	}
	for ref, rep := range idx {
		if ref != rep {
			t.Errorf("expected singleton ref == rep, got %q -> %q", ref, rep)
		}
	}
}

func TestUpdateMergesNewClusterIntoIndex(t *testing.T) {
	old := BuildLinkIndex([]reftoken.RefID{"a1", "b2", "c3"})
	clusters := []Cluster{{Rep: "a1", Members: []reftoken.RefID{"a1", "b2"}}}

	next := Update(old, clusters)
	if next["a1"] != "a1" || next["b2"] != "a1" {
		t.Errorf("expected a1,b2 -> a1, got a1=%q b2=%q", next["a1"], next["b2"])
	}
	if next["c3"] != "c3" {
		t.Errorf("expected c3 to remain a singleton, got %q", next["c3"])
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	old := BuildLinkIndex([]reftoken.RefID{"a1", "b2", "c3", "d4"})
	clusters := []Cluster{{Rep: "a1", Members: []reftoken.RefID{"a1", "b2"}}}

	once := Update(old, clusters)
	twice := Update(once, clusters)
	for ref, rep := range once {
		if twice[ref] != rep {
			t.Errorf("not idempotent: ref %q was %q, now %q", ref, rep, twice[ref])
		}
	}
}

func TestUpdateDoesNotMutateOld(t *testing.T) {
	old := BuildLinkIndex([]reftoken.RefID{"a1", "b2"})
	clusters := []Cluster{{Rep: "a1", Members: []reftoken.RefID{"a1", "b2"}}}

	_ = Update(old, clusters)
	if old["b2"] != "b2" {
		t.Errorf("old LinkIndex was mutated: b2 -> %q", old["b2"])
	}
}

func TestUpdateMergesAcrossOldAndNewClusters(t *testing.T) {
	old := BuildLinkIndex([]reftoken.RefID{"a1", "b2", "c3"})
	first := Update(old, []Cluster{{Rep: "a1", Members: []reftoken.RefID{"a1", "b2"}}})

	// A later iteration links b2 and c3: since b2 already maps to a1,
	// the merge must fold c3 into the a1 cluster too.
	second := Update(first, []Cluster{{Rep: "b2", Members: []reftoken.RefID{"b2", "c3"}}})

	if second["a1"] != second["b2"] || second["b2"] != second["c3"] {
		t.Errorf("expected a1,b2,c3 in one cluster, got a1=%q b2=%q c3=%q",
			second["a1"], second["b2"], second["c3"])
	}
	if second["a1"] != "a1" {
		t.Errorf("expected final rep a1, got %q", second["a1"])
	}
}
