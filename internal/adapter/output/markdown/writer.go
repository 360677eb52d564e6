// Package markdown renders corpus run reports as Markdown files.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

// Writer renders run reports into Markdown files. It implements the
// solve.ReportWriter interface.
type Writer struct {
	dir string
}

// NewWriter constructs a report writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists a Markdown report to disk.
func (w *Writer) Write(ctx context.Context, report solve.RunReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(w.dir, report.RunID+".md")
	content := buildContent(report)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

func buildContent(report solve.RunReport) string {
	var builder strings.Builder
	caser := cases.Title(language.English)

	builder.WriteString(fmt.Sprintf("# %s\n\n", caser.String("benchmark run report")))
	builder.WriteString(fmt.Sprintf("- Run: %s\n", report.RunID))
	builder.WriteString(fmt.Sprintf("- Model: %s\n", report.Model))
	if report.CorpusRev != "" {
		builder.WriteString(fmt.Sprintf("- Corpus revision: %s\n", report.CorpusRev))
	}
	builder.WriteString(fmt.Sprintf("- Started: %s\n", report.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	builder.WriteString(fmt.Sprintf("- Duration: %s\n", report.Duration.Round(1e6)))
	builder.WriteString(fmt.Sprintf("- Total cost: $%.4f\n\n", report.TotalCost))

	builder.WriteString("## Tasks\n\n")
	builder.WriteString("| Task | Answered | Null | Cost |\n")
	builder.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, result := range report.Results {
		answered, null := countSlots(result)
		builder.WriteString(fmt.Sprintf("| %s | %d | %d | $%.4f |\n",
			result.TaskID, answered, null, result.TotalCost()))
	}

	return builder.String()
}

func countSlots(result domain.TaskResult) (answered, null int) {
	for _, attempts := range result.Attempts {
		for _, a := range attempts {
			if a != nil {
				answered++
			} else {
				null++
			}
		}
	}
	return answered, null
}
