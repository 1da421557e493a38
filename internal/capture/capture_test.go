package capture

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewNoBaseIsNoOp(t *testing.T) {
	f, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Path != "" {
		t.Fatalf("expected no-op folder, got path %q", f.Path)
	}
	if err := f.WriteCSV("x.csv", []string{"a"}, [][]string{{"1"}}); err != nil {
		t.Fatalf("no-op WriteCSV: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.Path, "x.csv")); err == nil {
		t.Fatalf("expected no file written for a no-op folder")
	}
}

func TestNewCreatesUUIDTaggedFolder(t *testing.T) {
	base := t.TempDir()
	f, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Path == base {
		t.Fatalf("expected folder nested under base, got %q", f.Path)
	}
	if info, err := os.Stat(f.Path); err != nil || !info.IsDir() {
		t.Fatalf("expected folder to exist: %v", err)
	}
}

func TestWriteCSVWritesHeaderAndRows(t *testing.T) {
	base := t.TempDir()
	f, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := f.WriteCSV("pairs.csv", []string{"a", "b"}, [][]string{{"r1", "r2"}}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(f.Path, "pairs.csv"))
	if err != nil {
		t.Fatalf("read pairs.csv: %v", err)
	}
	want := "a,b\nr1,r2\n"
	if string(data) != want {
		t.Errorf("pairs.csv = %q, want %q", string(data), want)
	}
}

func TestWriteRefDictJoinsTokens(t *testing.T) {
	base := t.TempDir()
	f, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tokensOf := func(refID string) []string {
		return map[string][]string{"r1": {"JOHN", "SMITH"}}[refID]
	}
	if err := f.WriteRefDict("refdict.csv", []string{"r1"}, tokensOf); err != nil {
		t.Fatalf("WriteRefDict: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(f.Path, "refdict.csv"))
	if err != nil {
		t.Fatalf("read refdict.csv: %v", err)
	}
	want := "ref_id,tokens\nr1,JOHN SMITH\n"
	if string(data) != want {
		t.Errorf("refdict.csv = %q, want %q", string(data), want)
	}
}

func TestSubfolderNestsUnderParent(t *testing.T) {
	base := t.TempDir()
	f, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sub, err := f.Subfolder("iteration_1")
	if err != nil {
		t.Fatalf("Subfolder: %v", err)
	}
	if filepath.Dir(sub.Path) != f.Path {
		t.Errorf("Subfolder path %q not nested under %q", sub.Path, f.Path)
	}
	if info, err := os.Stat(sub.Path); err != nil || !info.IsDir() {
		t.Fatalf("expected subfolder to exist: %v", err)
	}
}

func TestSubfolderOfNoOpIsNoOp(t *testing.T) {
	f, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sub, err := f.Subfolder("iteration_1")
	if err != nil {
		t.Fatalf("Subfolder: %v", err)
	}
	if sub.Path != "" {
		t.Fatalf("expected no-op subfolder, got path %q", sub.Path)
	}
}
