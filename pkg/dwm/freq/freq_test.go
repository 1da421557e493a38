package freq

import (
	"testing"

	"github.com/oysterer/dwm/pkg/dwm/reftoken"
)

func TestBuildCountsDocumentFrequencyNotTermFrequency(t *testing.T) {
	refDict := reftoken.RefDict{
		"R1": {"JOHN", "SMITH", "SMITH"},
		"R2": {"JOHN", "DOE"},
	}

	d := Build(refDict)

	if got := d["JOHN"]; got != 2 {
		t.Errorf("JOHN freq = %d, want 2", got)
	}
	if got := d["SMITH"]; got != 1 {
		t.Errorf("SMITH freq = %d, want 1 (document frequency, repeat within ref counts once)", got)
	}
	if got := d["DOE"]; got != 1 {
		t.Errorf("DOE freq = %d, want 1", got)
	}
}

func TestTotalMatchesUniqueTokensPerReference(t *testing.T) {
	refDict := reftoken.RefDict{
		"R1": {"A", "B", "A"},
		"R2": {"B", "C"},
	}
	d := Build(refDict)

	// unique tokens per ref: R1={A,B}=2, R2={B,C}=2 -> total 4
	if got := d.Total(); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
}

func TestBuildEmptyRefDict(t *testing.T) {
	d := Build(reftoken.RefDict{})
	if len(d) != 0 {
		t.Errorf("expected empty dict, got %d entries", len(d))
	}
}
