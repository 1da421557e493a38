// Package config loads the flat key=value parameter file that drives a
// washing-machine run (spec §6), applies defaults, and validates the
// handful of fields that can only be checked against an enum
// (tokenizer type, comparator name).
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oysterer/dwm/pkg/dwm/internalerr"
)

// Config is the immutable, fully-resolved set of parameters for one
// run. It is built once at startup and threaded through every stage
// constructor — no package reaches back into a global for a parameter
// value (spec §9 redesign note: explicit Config + RunState instead of
// global mutable state).
type Config struct {
	InputFileName string
	HasHeader     bool
	Delimiter     string

	TokenizerType         string
	RemoveDuplicateTokens bool

	RunGlobalCorrection    bool
	MinFreqStdToken        int64
	MinLenStdToken         int
	MaxFreqErrToken        int64
	LearnTokenVariants     bool
	GlobalCorrectionDetail bool

	Sigma                   int64
	MinBlkTokenLen          int
	ExcludeNumericBlocks    bool
	RemoveExcludedBlkTokens bool
	BlockByPairs            bool
	AddRefsToLinkIndex      bool

	BlockCorrection       bool
	BlockCorrectionDetail bool

	Comparator         string
	MatrixNumTokenRule bool
	MatrixInitialRule  bool

	Mu             float64
	MuIterate      float64
	Epsilon        float64
	EpsilonIterate float64

	RunIterationProfile bool
	TruthFileName       string

	WordListPath    string
	VariantMapPath  string
	LinkIndexOutput string
	LogFilePath     string
}

// defaults mirrors the source system's conservative out-of-the-box
// behavior: correction passes off, pair-scoring tolerant of all but
// exact tokenizer/comparator misconfiguration.
func defaults() Config {
	return Config{
		HasHeader:             true,
		Delimiter:             ",",
		TokenizerType:         "Splitter",
		RemoveDuplicateTokens: false,
		MinFreqStdToken:       5,
		MinLenStdToken:        3,
		MaxFreqErrToken:       1,
		Sigma:                 1000,
		MinBlkTokenLen:        3,
		Comparator:            "cosine",
		MatrixNumTokenRule:    true,
		MatrixInitialRule:     true,
		Mu:                    0.8,
		MuIterate:             0.1,
		Epsilon:               0.0,
		EpsilonIterate:        0.0,
		LinkIndexOutput:       "linkindex.out",
	}
}

var validTokenizerTypes = map[string]bool{
	"Splitter": true, "Compress": true, "CompressNbr": true,
}

var validComparators = map[string]bool{
	"cosine": true, "monge_elkan": true, "scoring_matrix_std": true, "scoring_matrix_kris": true,
}

// Load reads a flat key=value parameter file, applies defaults for any
// option the file omits, and validates the enum-valued options. Per
// §7, an unknown tokenizerType or comparator is a fatal configuration
// error; a missing parameter file is also fatal, since there is no
// sensible default input file to fall back to.
func Load(path string) (*Config, error) {
	cfg := defaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open parameter file: %w: %w", internalerr.ErrInvalidConfig, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := cfg.set(key, value); err != nil {
			return nil, fmt.Errorf("config: parameter %q: %w", key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read parameter file: %w", err)
	}

	if cfg.InputFileName == "" {
		return nil, fmt.Errorf("config: inputFileName is required: %w", internalerr.ErrInvalidConfig)
	}
	if !validTokenizerTypes[cfg.TokenizerType] {
		return nil, fmt.Errorf("config: unknown tokenizerType %q: %w", cfg.TokenizerType, internalerr.ErrInvalidConfig)
	}
	if !validComparators[cfg.Comparator] {
		return nil, fmt.Errorf("config: unknown comparator %q: %w", cfg.Comparator, internalerr.ErrInvalidConfig)
	}

	return &cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "inputFileName":
		c.InputFileName = value
	case "hasHeader":
		return setBool(&c.HasHeader, value)
	case "delimiter":
		c.Delimiter = value
	case "tokenizerType":
		c.TokenizerType = value
	case "removeDuplicateTokens":
		return setBool(&c.RemoveDuplicateTokens, value)
	case "runGlobalCorrection":
		return setBool(&c.RunGlobalCorrection, value)
	case "minFreqStdToken":
		return setInt64(&c.MinFreqStdToken, value)
	case "minLenStdToken":
		return setInt(&c.MinLenStdToken, value)
	case "maxFreqErrToken":
		return setInt64(&c.MaxFreqErrToken, value)
	case "learnTokenVariants":
		return setBool(&c.LearnTokenVariants, value)
	case "globalCorrectionDetail":
		return setBool(&c.GlobalCorrectionDetail, value)
	case "sigma":
		return setInt64(&c.Sigma, value)
	case "minBlkTokenLen":
		return setInt(&c.MinBlkTokenLen, value)
	case "excludeNumericBlocks":
		return setBool(&c.ExcludeNumericBlocks, value)
	case "removeExcludedBlkTokens":
		return setBool(&c.RemoveExcludedBlkTokens, value)
	case "blockByPairs":
		return setBool(&c.BlockByPairs, value)
	case "addRefsToLinkIndex":
		return setBool(&c.AddRefsToLinkIndex, value)
	case "blockCorrection":
		return setBool(&c.BlockCorrection, value)
	case "blockCorrectionDetail":
		return setBool(&c.BlockCorrectionDetail, value)
	case "comparator":
		c.Comparator = value
	case "matrixNumTokenRule":
		return setBool(&c.MatrixNumTokenRule, value)
	case "matrixInitialRule":
		return setBool(&c.MatrixInitialRule, value)
	case "mu":
		return setFloat(&c.Mu, value)
	case "muIterate":
		return setFloat(&c.MuIterate, value)
	case "epsilon":
		return setFloat(&c.Epsilon, value)
	case "epsilonIterate":
		return setFloat(&c.EpsilonIterate, value)
	case "runIterationProfile":
		return setBool(&c.RunIterationProfile, value)
	case "truthFileName":
		c.TruthFileName = value
	case "wordListPath":
		c.WordListPath = value
	case "variantMapPath":
		c.VariantMapPath = value
	case "linkIndexOutput":
		c.LinkIndexOutput = value
	case "logFilePath":
		c.LogFilePath = value
	default:
		// Unknown keys are ignored rather than fatal: parameter files
		// are hand-edited and forward-compatibility with newer options
		// matters more than catching a typo'd key.
	}
	return nil
}

func setBool(dst *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid bool %q", value)
	}
	*dst = b
	return nil
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid int %q", value)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, value string) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid int %q", value)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, value string) error {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid float %q", value)
	}
	*dst = n
	return nil
}
