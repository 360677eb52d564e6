package solve

import (
	"fmt"
	"strings"

	"github.com/bkyoung/gridbench/internal/domain"
)

// BuildPrompt renders the natural-language prompt for one test input:
// every training pair as a demonstration, then the test grid, then the
// answer-format instructions the adapter's grid parser depends on.
func BuildPrompt(task domain.Task, testIndex int) string {
	var sb strings.Builder

	sb.WriteString("You are solving a grid transformation puzzle. ")
	sb.WriteString("Each grid is a JSON array of rows; each row is an array of integers 0-9 representing colors.\n\n")
	sb.WriteString("Below are input/output pairs demonstrating a single hidden transformation rule.\n\n")

	for i, pair := range task.Train {
		fmt.Fprintf(&sb, "## Example %d\n\nInput:\n%s\n\nOutput:\n%s\n\n", i+1, FormatGrid(pair.Input), FormatGrid(pair.Output))
	}

	sb.WriteString("## Test\n\n")
	sb.WriteString("Apply the same transformation rule to this input:\n\n")
	sb.WriteString(FormatGrid(task.Test[testIndex]))
	sb.WriteString("\n\nExplain your reasoning if you wish, but end your reply with the output grid ")
	sb.WriteString("as a JSON array of arrays of integers, with no text after it.\n")

	return sb.String()
}

// FormatGrid serializes a grid one row per line, JSON-compatible.
func FormatGrid(grid domain.Grid) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range grid {
		if i > 0 {
			sb.WriteString(",\n ")
		}
		sb.WriteByte('[')
		for j, cell := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", cell)
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
