// Package corpus loads puzzle tasks from a directory of JSON files,
// one task per file, named <task_id>.json.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bkyoung/gridbench/internal/domain"
)

// taskFile is the on-disk task shape.
type taskFile struct {
	Train []struct {
		Input  domain.Grid `json:"input"`
		Output domain.Grid `json:"output"`
	} `json:"train"`
	Test []struct {
		Input domain.Grid `json:"input"`
	} `json:"test"`
}

// Loader reads tasks from a data directory. It implements
// solve.TaskSource.
type Loader struct {
	dataDir string
}

// NewLoader creates a loader over the given directory.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// Load reads one task by ID.
func (l *Loader) Load(ctx context.Context, taskID string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	path := filepath.Join(l.dataDir, taskID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Task{}, fmt.Errorf("read task %s: %w", taskID, err)
	}

	var file taskFile
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.Task{}, fmt.Errorf("parse task %s: %w", taskID, err)
	}
	if len(file.Test) == 0 {
		return domain.Task{}, fmt.Errorf("task %s has no test inputs", taskID)
	}

	task := domain.Task{ID: taskID}
	for _, pair := range file.Train {
		task.Train = append(task.Train, domain.TrainPair{Input: pair.Input, Output: pair.Output})
	}
	for _, test := range file.Test {
		task.Test = append(task.Test, test.Input)
	}
	return task, nil
}

// List returns every task ID in the directory, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %s: %w", l.dataDir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
