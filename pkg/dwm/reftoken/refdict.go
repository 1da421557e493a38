package reftoken

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// BuildRefDict reads the input file and constructs a RefDict. Each line's
// first field (up to the first occurrence of delimiter) is the RefID;
// the remainder is tokenized as the reference body. A malformed line
// (one with no delimiter at all) is skipped and logged, not fatal.
func BuildRefDict(path string, hasHeader bool, delimiter string, tok *Tokenizer, logger *log.Logger) (RefDict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reftoken: open input file: %w", err)
	}
	defer f.Close()

	refDict := make(RefDict)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	refCnt := 0
	tokenCnt := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if hasHeader && lineNum == 1 {
			continue
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		idx := strings.Index(line, delimiter)
		if idx < 0 {
			logLine(logger, "reftoken: skipping malformed line %d (no delimiter found)", lineNum)
			continue
		}
		refID := line[:idx]
		body := line[idx+len(delimiter):]
		tokens := tok.Tokenize(body)
		refDict[refID] = tokens
		refCnt++
		tokenCnt += len(tokens)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reftoken: read input file: %w", err)
	}

	logLine(logger, "reftoken: read %d references, %d tokens total", refCnt, tokenCnt)
	return refDict, nil
}

func logLine(logger *log.Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
