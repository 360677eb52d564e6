package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTask = `{
  "train": [
    {"input": [[1, 0], [0, 1]], "output": [[0, 1], [1, 0]]},
    {"input": [[2, 2]], "output": [[2, 2]]}
  ],
  "test": [
    {"input": [[3, 0]]},
    {"input": [[0, 3]]}
  ]
}`

func writeTask(t *testing.T, dir, id, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "0a1b2c3d", sampleTask)

	loader := NewLoader(dir)
	task, err := loader.Load(context.Background(), "0a1b2c3d")
	require.NoError(t, err)

	assert.Equal(t, "0a1b2c3d", task.ID)
	require.Len(t, task.Train, 2)
	assert.Equal(t, domain.Grid{{1, 0}, {0, 1}}, task.Train[0].Input)
	assert.Equal(t, domain.Grid{{0, 1}, {1, 0}}, task.Train[0].Output)
	require.Len(t, task.Test, 2)
	assert.Equal(t, domain.Grid{{3, 0}}, task.Test[0])
	assert.Equal(t, domain.Grid{{0, 3}}, task.Test[1])
}

func TestLoadMissingTask(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, err := loader.Load(context.Background(), "nope")
	assert.Error(t, err)
}

func TestLoadMalformedTask(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "bad", `{"train": "not an array"}`)

	loader := NewLoader(dir)
	_, err := loader.Load(context.Background(), "bad")
	assert.Error(t, err)
}

func TestLoadRejectsNoTestInputs(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "empty", `{"train": [], "test": []}`)

	loader := NewLoader(dir)
	_, err := loader.Load(context.Background(), "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no test inputs")
}

func TestListSorted(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "zzz", sampleTask)
	writeTask(t, dir, "aaa", sampleTask)
	writeTask(t, dir, "mmm", sampleTask)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	loader := NewLoader(dir)
	ids, err := loader.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"aaa", "mmm", "zzz"}, ids)
}

func TestRevisionOutsideRepository(t *testing.T) {
	assert.Empty(t, Revision(os.TempDir()))
}
