package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeParamFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "params.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeParamFile(t, "inputFileName=records.txt\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TokenizerType != "Splitter" {
		t.Errorf("TokenizerType = %q, want Splitter default", cfg.TokenizerType)
	}
	if cfg.Mu != 0.8 {
		t.Errorf("Mu = %f, want 0.8 default", cfg.Mu)
	}
	if cfg.Delimiter != "," {
		t.Errorf("Delimiter = %q, want , default", cfg.Delimiter)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	content := "inputFileName=records.txt\ntokenizerType=CompressNbr\nmu=0.5\nrunGlobalCorrection=true\n"
	path := writeParamFile(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TokenizerType != "CompressNbr" {
		t.Errorf("TokenizerType = %q, want CompressNbr", cfg.TokenizerType)
	}
	if cfg.Mu != 0.5 {
		t.Errorf("Mu = %f, want 0.5", cfg.Mu)
	}
	if !cfg.RunGlobalCorrection {
		t.Error("expected RunGlobalCorrection = true")
	}
}

func TestLoadMatrixRuleDefaultsOn(t *testing.T) {
	path := writeParamFile(t, "inputFileName=records.txt\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.MatrixNumTokenRule {
		t.Error("expected MatrixNumTokenRule = true by default")
	}
	if !cfg.MatrixInitialRule {
		t.Error("expected MatrixInitialRule = true by default")
	}
}

func TestLoadMatrixRulesCanBeDisabled(t *testing.T) {
	content := "inputFileName=records.txt\nmatrixNumTokenRule=false\nmatrixInitialRule=false\n"
	path := writeParamFile(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MatrixNumTokenRule {
		t.Error("expected MatrixNumTokenRule = false")
	}
	if cfg.MatrixInitialRule {
		t.Error("expected MatrixInitialRule = false")
	}
}

func TestLoadRejectsUnknownTokenizerType(t *testing.T) {
	path := writeParamFile(t, "inputFileName=records.txt\ntokenizerType=Bogus\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown tokenizerType")
	}
}

func TestLoadRejectsUnknownComparator(t *testing.T) {
	path := writeParamFile(t, "inputFileName=records.txt\ncomparator=bogus\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown comparator")
	}
}

func TestLoadRequiresInputFileName(t *testing.T) {
	path := writeParamFile(t, "mu=0.8\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing inputFileName")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/params.txt"); err == nil {
		t.Error("expected error for missing parameter file")
	}
}

func TestLoadIgnoresCommentsAndBlankLines(t *testing.T) {
	content := "# a comment\ninputFileName=records.txt\n\n# another\nmu=0.9\n"
	path := writeParamFile(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mu != 0.9 {
		t.Errorf("Mu = %f, want 0.9", cfg.Mu)
	}
}

func TestLoadTuningMissingPathReturnsEmpty(t *testing.T) {
	tuning, err := LoadTuning("")
	if err != nil {
		t.Fatal(err)
	}
	if len(tuning.KrisWeightOverrides) != 0 {
		t.Errorf("expected empty overrides, got %v", tuning.KrisWeightOverrides)
	}
}

func TestLoadTuningParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	content := "krisWeightOverrides:\n  3: 1.5\n  5: 0.8\nwordListExemptions:\n  - SAINT\n  - VON\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatal(err)
	}
	if tuning.KrisWeightOverrides[3] != 1.5 {
		t.Errorf("KrisWeightOverrides[3] = %f, want 1.5", tuning.KrisWeightOverrides[3])
	}
	if len(tuning.WordListExemptions) != 2 {
		t.Errorf("expected 2 exemptions, got %v", tuning.WordListExemptions)
	}
}
