package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bkyoung/gridbench/internal/domain"
)

var (
	// Compile regex once and reuse (thread-safe). Greedy match from the
	// first fence to the last handles answers that embed nested fences.
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")
)

// ParseAnswerGrid extracts the answer grid from the model's final
// message text. Models are instructed to end their answer with the
// grid as a JSON array of arrays, but in practice wrap it in markdown
// fences or trail it after prose, so try the fenced block first and
// then scan backwards for the last complete JSON array.
func ParseAnswerGrid(text string) (domain.Grid, bool) {
	if fenced := extractFencedBlock(text); fenced != "" {
		if grid, ok := unmarshalGrid(fenced); ok {
			return grid, true
		}
	}

	return extractTrailingGrid(text)
}

// extractFencedBlock returns the content of a ```json code block, or
// "" when the text has none.
func extractFencedBlock(text string) string {
	matches := jsonBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// extractTrailingGrid scans backwards from the end of the text for the
// last balanced top-level JSON array that parses as a grid. Models put
// the answer last, so later candidates are preferred.
func extractTrailingGrid(text string) (domain.Grid, bool) {
	end := strings.LastIndexByte(text, ']')
	for tries := 0; end >= 0 && tries < 8; tries++ {
		depth := 0
		for i := end; i >= 0; i-- {
			switch text[i] {
			case ']':
				depth++
			case '[':
				depth--
			}
			if depth == 0 {
				if grid, ok := unmarshalGrid(text[i : end+1]); ok {
					return grid, true
				}
				break
			}
		}
		end = strings.LastIndexByte(text[:end], ']')
	}
	return nil, false
}

func unmarshalGrid(candidate string) (domain.Grid, bool) {
	var grid domain.Grid
	if err := json.Unmarshal([]byte(candidate), &grid); err != nil {
		return nil, false
	}
	if len(grid) == 0 {
		return nil, false
	}
	for _, row := range grid {
		if len(row) == 0 {
			return nil, false
		}
	}
	return grid, true
}
