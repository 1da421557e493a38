package reftoken

import "testing"

func TestSplitterBasic(t *testing.T) {
	tok, err := New(Splitter, "|", false)
	if err != nil {
		t.Fatal(err)
	}
	got := tok.Tokenize("John  O'Brien, 123 Main St.")
	want := []string{"JOHN", "O", "BRIEN", "123", "MAIN", "ST"}
	assertTokens(t, got, want)
}

func TestCompressElidesPunctuation(t *testing.T) {
	tok, err := New(Compress, "|", false)
	if err != nil {
		t.Fatal(err)
	}
	got := tok.Tokenize("John  O'Brien, 123 Main St.")
	want := []string{"JOHN", "OBRIEN", "123", "MAIN", "ST"}
	assertTokens(t, got, want)
}

func TestCompressNbrConcatenatesAdjacentDigits(t *testing.T) {
	tok, err := New(CompressNbr, "|", false)
	if err != nil {
		t.Fatal(err)
	}
	got := tok.Tokenize("100 50 MAIN")
	want := []string{"10050", "MAIN"}
	assertTokens(t, got, want)
}

func TestCompressNbrOnlyConcatenatesWithinField(t *testing.T) {
	tok, err := New(CompressNbr, "|", false)
	if err != nil {
		t.Fatal(err)
	}
	// two delimited fields, each with a numeric run; must not merge across fields
	got := tok.Tokenize("100 MAIN|50 OAK")
	want := []string{"100", "MAIN", "50", "OAK"}
	assertTokens(t, got, want)
}

func TestRemoveDuplicateTokensPreservesFirstOccurrenceOrder(t *testing.T) {
	tok, err := New(Splitter, "|", true)
	if err != nil {
		t.Fatal(err)
	}
	got := tok.Tokenize("JOHN SMITH JOHN")
	want := []string{"JOHN", "SMITH"}
	assertTokens(t, got, want)
}

func TestInvalidTokenizerType(t *testing.T) {
	if _, err := New("Bogus", "|", false); err == nil {
		t.Error("expected error for invalid tokenizerType")
	}
}

func TestTokenizeEmptyBody(t *testing.T) {
	tok, _ := New(Splitter, "|", false)
	got := tok.Tokenize("")
	if len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func assertTokens(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
