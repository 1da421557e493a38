package correct

import (
	"bufio"
	"os"
	"strings"
)

// WordList is a set of known words. A high-frequency token that also
// appears in the word list is never treated as an error candidate, even
// if its frequency is at or below maxFreqErrToken.
type WordList map[string]struct{}

// LoadWordList reads a plain-text word list, one token per line. A
// missing file is not an error — per §7, missing optional inputs warn
// and continue with an empty default.
func LoadWordList(path string) (WordList, error) {
	wl := make(WordList)
	if path == "" {
		return wl, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return wl, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		wl[word] = struct{}{}
	}
	return wl, scanner.Err()
}

// Contains reports whether word is in the list.
func (wl WordList) Contains(word string) bool {
	_, ok := wl[word]
	return ok
}
