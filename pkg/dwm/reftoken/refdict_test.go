package reftoken

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildRefDictSkipsHeaderAndMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	content := "RefID|Body\nR1|John Smith 123 Main St\nmalformed line with no pipe\nR2|Jane Doe 456 Oak Ave\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tok, err := New(Splitter, "|", false)
	if err != nil {
		t.Fatal(err)
	}

	refDict, err := BuildRefDict(path, true, "|", tok, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(refDict) != 2 {
		t.Fatalf("expected 2 refs, got %d: %v", len(refDict), refDict)
	}
	if got := refDict["R1"]; len(got) == 0 || got[0] != "JOHN" {
		t.Errorf("R1 tokens = %v", got)
	}
	if got := refDict["R2"]; len(got) == 0 || got[0] != "JANE" {
		t.Errorf("R2 tokens = %v", got)
	}
}

func TestBuildRefDictMissingFile(t *testing.T) {
	tok, _ := New(Splitter, "|", false)
	if _, err := BuildRefDict("/no/such/file.txt", false, "|", tok, nil); err == nil {
		t.Error("expected error for missing input file")
	}
}
