package metrics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/oysterer/dwm/pkg/dwm/block"
	"github.com/oysterer/dwm/pkg/dwm/cluster"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

func TestLoadTruthDict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "truth.csv")
	content := "refID,truthID\nr1,e1\nr2,e1\nr3,e2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	truth, err := LoadTruthDict(path)
	if err != nil {
		t.Fatal(err)
	}
	if truth["r1"] != "e1" || truth["r2"] != "e1" || truth["r3"] != "e2" {
		t.Errorf("unexpected truth dict: %v", truth)
	}
}

func TestLoadTruthDictMissingFile(t *testing.T) {
	if _, err := LoadTruthDict("/nonexistent/path.csv"); err == nil {
		t.Error("expected error for missing truth file")
	}
}

func TestEvaluateLinkIndexPerfectMatch(t *testing.T) {
	linkIndex := cluster.LinkIndex{"r1": "r1", "r2": "r1", "r3": "r3"}
	truth := TruthDict{"r1": "e1", "r2": "e1", "r3": "e2"}

	q := EvaluateLinkIndex(linkIndex, truth)
	if q.Precision != 1.0 || q.Recall != 1.0 || q.FMeasure != 1.0 {
		t.Errorf("expected perfect scores, got %+v", q)
	}
}

func TestEvaluateLinkIndexOverMerge(t *testing.T) {
	// Two true entities wrongly merged into one cluster.
	linkIndex := cluster.LinkIndex{"r1": "r1", "r2": "r1"}
	truth := TruthDict{"r1": "e1", "r2": "e2"}

	q := EvaluateLinkIndex(linkIndex, truth)
	if q.Precision != 0 {
		t.Errorf("expected precision 0 for full over-merge, got %f", q.Precision)
	}
	if q.Recall != 1.0 {
		t.Errorf("expected recall 1.0 (no true pairs to miss), got %f", q.Recall)
	}
}

func TestEvaluateBlocking(t *testing.T) {
	refDict := reftoken.RefDict{"r1": nil, "r2": nil, "r3": nil}
	truth := TruthDict{"r1": "e1", "r2": "e1", "r3": "e2"}
	pairs := []block.Pair{{A: "r1", B: "r2"}, {A: "r1", B: "r3"}}

	bq := EvaluateBlocking(pairs, refDict, truth)
	if bq.TruePairs != 1 {
		t.Errorf("expected 1 true positive pair, got %f", bq.TruePairs)
	}
	if bq.CandidatePairs != 2 {
		t.Errorf("expected 2 candidate pairs, got %f", bq.CandidatePairs)
	}
}

func TestClusterEntropyIdenticalTokensIsPerfect(t *testing.T) {
	members := [][]string{
		{"JOHN", "SMITH", "123", "MAIN"},
		{"JOHN", "SMITH", "123", "MAIN"},
	}
	q := ClusterEntropy(members)
	if math.Abs(q-1.0) > 1e-9 {
		t.Errorf("expected perfect entropy quality 1.0, got %f", q)
	}
}

func TestClusterEntropyDisagreementLowersQuality(t *testing.T) {
	agree := ClusterEntropy([][]string{
		{"JOHN", "SMITH"},
		{"JOHN", "SMITH"},
	})
	disagree := ClusterEntropy([][]string{
		{"JOHN", "SMITH"},
		{"MARY", "JONES"},
	})
	if disagree >= agree {
		t.Errorf("expected disagreeing cluster to score lower: agree=%f disagree=%f", agree, disagree)
	}
}

func TestBuildProfile(t *testing.T) {
	refDict := reftoken.RefDict{
		"r1": {"JOHN", "123"},
		"r2": {"JOHN", "456"},
	}
	p := BuildProfile(refDict)
	if p.TotalTokens != 4 {
		t.Errorf("TotalTokens = %d, want 4", p.TotalTokens)
	}
	if p.DistinctTokens != 3 {
		t.Errorf("DistinctTokens = %d, want 3", p.DistinctTokens)
	}
	if p.NumericTokens != 2 {
		t.Errorf("NumericTokens = %d, want 2", p.NumericTokens)
	}
}
