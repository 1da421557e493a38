package reftoken

import (
	"fmt"
	"strings"
	"unicode"
)

// Type selects one of the three tokenizer strategies a parameter file can
// request via tokenizerType.
type Type string

const (
	// Splitter uppercases the body and replaces every run of non-word
	// characters with a single space before splitting on whitespace.
	Splitter Type = "Splitter"
	// Compress splits the body on the delimiter into fields, then on
	// whitespace within fields, eliding (not replacing) punctuation
	// inside each token.
	Compress Type = "Compress"
	// CompressNbr behaves like Compress but concatenates adjacent
	// all-digit tokens within a field into a single numeric token.
	CompressNbr Type = "CompressNbr"
)

// Tokenizer turns a record body into an ordered list of normalized
// tokens. Construct with New; the strategy and options are fixed for the
// life of the tokenizer so every reference in a run is treated uniformly.
type Tokenizer struct {
	kind                  Type
	delimiter             string
	removeDuplicateTokens bool
}

// New creates a Tokenizer for the given strategy and field delimiter. An
// unknown kind is a configuration error — fatal per spec §6/§7.
func New(kind Type, delimiter string, removeDuplicateTokens bool) (*Tokenizer, error) {
	switch kind {
	case Splitter, Compress, CompressNbr:
	default:
		return nil, fmt.Errorf("reftoken: invalid tokenizerType %q", kind)
	}
	return &Tokenizer{kind: kind, delimiter: delimiter, removeDuplicateTokens: removeDuplicateTokens}, nil
}

// Tokenize splits one record body into tokens per the tokenizer's
// strategy. Tokens are uppercase and made of word characters (letters,
// digits, underscore), length >= 1.
func (t *Tokenizer) Tokenize(body string) []string {
	var tokens []string
	switch t.kind {
	case Splitter:
		tokens = t.splitter(body)
	case Compress:
		tokens = t.compress(body, false)
	case CompressNbr:
		tokens = t.compress(body, true)
	}
	if t.removeDuplicateTokens {
		tokens = dedupPreserveOrder(tokens)
	}
	return tokens
}

// splitter replaces every run of non-word characters with a single
// space, then splits on whitespace.
func (t *Tokenizer) splitter(body string) []string {
	upper := strings.ToUpper(body)
	var b strings.Builder
	lastWasSpace := false
	for _, r := range upper {
		if isWordRune(r) {
			b.WriteRune(r)
			lastWasSpace = false
		} else if !lastWasSpace {
			b.WriteRune(' ')
			lastWasSpace = true
		}
	}
	return strings.Fields(b.String())
}

// compress splits the body on the field delimiter, then on whitespace
// within each field, eliding non-word characters from every token
// (punctuation is dropped, not replaced with a space). When collapseNbr
// is set, adjacent all-digit tokens within a field are concatenated into
// a single numeric token.
func (t *Tokenizer) compress(body string, collapseNbr bool) []string {
	upper := strings.ToUpper(body)
	fields := strings.Split(upper, t.delimiter)

	var out []string
	for _, field := range fields {
		rawTokens := strings.Fields(field)
		numeric := false
		var numBuilder strings.Builder
		for _, raw := range rawTokens {
			tok := stripNonWord(raw)
			if tok == "" {
				continue
			}
			if collapseNbr && isAllDigits(tok) {
				numeric = true
				numBuilder.WriteString(tok)
				continue
			}
			if numeric {
				out = append(out, numBuilder.String())
				numBuilder.Reset()
				numeric = false
			}
			out = append(out, tok)
		}
		if numeric {
			out = append(out, numBuilder.String())
		}
	}
	return out
}

func stripNonWord(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isWordRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func dedupPreserveOrder(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
