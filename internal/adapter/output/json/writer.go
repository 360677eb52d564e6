// Package json persists task results as submission artifacts, one
// JSON file per task.
package json

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

// Writer implements the solve.SubmissionWriter interface. A single
// mutex serializes writes so concurrent task goroutines never
// interleave output files or stdout mirroring.
type Writer struct {
	dir    string
	stdout io.Writer
	mu     sync.Mutex
}

// NewWriter creates a submission writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, stdout: os.Stdout}
}

// SetStdout redirects the Print mirror (for testing).
func (w *Writer) SetStdout(out io.Writer) {
	w.stdout = out
}

// Write persists one task result to <dir>/<task_id>.json. An existing
// artifact is kept untouched unless Overwrite is set; the skip is
// reported through the written flag, not an error.
func (w *Writer) Write(ctx context.Context, artifact solve.SubmissionArtifact) (string, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create submissions dir: %w", err)
	}

	data, err := marshalResult(artifact)
	if err != nil {
		return "", false, err
	}

	path := filepath.Join(w.dir, artifact.TaskID+".json")

	if artifact.Print {
		fmt.Fprintln(w.stdout, string(data))
	}

	if !artifact.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", false, fmt.Errorf("write submission %s: %w", path, err)
	}
	return path, true, nil
}

// marshalResult serializes the attempts list. Nil slots become JSON
// null; map keys sort lexically which keeps attempt_1..attempt_9
// ordered within each entry.
func marshalResult(artifact solve.SubmissionArtifact) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(artifact.Result.Attempts); err != nil {
		return nil, fmt.Errorf("encode submission for %s: %w", artifact.TaskID, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
