package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bkyoung/gridbench/internal/adapter/cli"
	"github.com/bkyoung/gridbench/internal/adapter/store/sqlite"
	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSolver struct {
	taskReq   *solve.TaskRequest
	corpusReq *solve.CorpusRequest
	corpus    solve.CorpusResult
}

func (f *fakeSolver) SolveTask(ctx context.Context, req solve.TaskRequest) (domain.TaskResult, error) {
	f.taskReq = &req
	return domain.TaskResult{
		TaskID: req.TaskID,
		Attempts: []domain.AttemptMap{
			{"attempt_1": &domain.Attempt{Answer: domain.Grid{{1}}}, "attempt_2": nil},
		},
	}, nil
}

func (f *fakeSolver) SolveCorpus(ctx context.Context, req solve.CorpusRequest) (solve.CorpusResult, error) {
	f.corpusReq = &req
	return f.corpus, nil
}

func newCLI(solver cli.TaskSolver) *cli.Dependencies {
	return &cli.Dependencies{
		Solver:   solver,
		Defaults: cli.SolveDefaults{Attempts: 2, Retries: 3, Parallel: 4},
		Model:    "gpt-5-nano-high",
		Version:  "v1.2.3",
	}
}

func execute(t *testing.T, deps *cli.Dependencies, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	deps.Args = cli.Arguments{OutWriter: &out, ErrWriter: &errOut}
	root := cli.NewRootCommand(*deps)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionFlag(t *testing.T) {
	solver := &fakeSolver{}
	out, _, err := execute(t, newCLI(solver), "--version")
	assert.ErrorIs(t, err, cli.ErrVersionRequested)
	assert.Contains(t, out, "v1.2.3")
}

func TestSolveSingleTask(t *testing.T) {
	solver := &fakeSolver{}
	out, _, err := execute(t, newCLI(solver), "solve", "0a1b2c3d", "--print", "--overwrite")
	require.NoError(t, err)

	require.NotNil(t, solver.taskReq)
	assert.Equal(t, "0a1b2c3d", solver.taskReq.TaskID)
	assert.Equal(t, 2, solver.taskReq.NumAttempts, "config default flows into the flag")
	assert.Equal(t, 3, solver.taskReq.RetryAttempts)
	assert.True(t, solver.taskReq.Overwrite)
	assert.True(t, solver.taskReq.Print)

	assert.Contains(t, out, "task 0a1b2c3d: 1 answered, 1 null")
}

func TestSolveFlagsOverrideDefaults(t *testing.T) {
	solver := &fakeSolver{}
	_, _, err := execute(t, newCLI(solver), "solve", "t1", "--attempts", "5", "--retries", "7")
	require.NoError(t, err)

	assert.Equal(t, 5, solver.taskReq.NumAttempts)
	assert.Equal(t, 7, solver.taskReq.RetryAttempts)
}

func TestSolveAll(t *testing.T) {
	solver := &fakeSolver{
		corpus: solve.CorpusResult{
			Results: []domain.TaskResult{{TaskID: "t1"}},
		},
	}
	out, _, err := execute(t, newCLI(solver), "solve", "--all")
	require.NoError(t, err)

	require.NotNil(t, solver.corpusReq)
	assert.Empty(t, solver.corpusReq.TaskIDs, "empty means the whole corpus")
	assert.Equal(t, 4, solver.corpusReq.Parallel)
	assert.Contains(t, out, "1 tasks")
}

func TestSolveMultipleTasksUsesCorpus(t *testing.T) {
	solver := &fakeSolver{
		corpus: solve.CorpusResult{
			Results: []domain.TaskResult{{TaskID: "t1"}, {TaskID: "t2"}},
		},
	}
	_, _, err := execute(t, newCLI(solver), "solve", "t1", "t2")
	require.NoError(t, err)

	require.NotNil(t, solver.corpusReq)
	assert.Equal(t, []string{"t1", "t2"}, solver.corpusReq.TaskIDs)
}

func TestSolveRequiresTasksOrAll(t *testing.T) {
	solver := &fakeSolver{}
	_, _, err := execute(t, newCLI(solver), "solve")
	assert.Error(t, err)
}

func TestSolveRejectsAllWithExplicitTasks(t *testing.T) {
	solver := &fakeSolver{}
	_, _, err := execute(t, newCLI(solver), "solve", "t1", "--all")
	assert.Error(t, err)
}

func TestSolveReportsFailedTasks(t *testing.T) {
	solver := &fakeSolver{
		corpus: solve.CorpusResult{
			Results:     []domain.TaskResult{{TaskID: "t1"}},
			FailedTasks: []string{"t2"},
		},
	}
	_, errOut, err := execute(t, newCLI(solver), "solve", "t1", "t2")
	require.Error(t, err)
	assert.Contains(t, errOut, "task t2: failed")
}

type fakeRunLister struct {
	runs []sqlite.RunSummary
}

func (f *fakeRunLister) ListRuns(ctx context.Context, limit int) ([]sqlite.RunSummary, error) {
	return f.runs, nil
}

func TestRunsCommand(t *testing.T) {
	deps := newCLI(&fakeSolver{})
	deps.Runs = &fakeRunLister{
		runs: []sqlite.RunSummary{
			{RunID: "run-1", Model: "gpt-5-nano-high", Attempts: 4, Succeeded: 3, TotalCost: 0.05},
		},
	}

	out, _, err := execute(t, deps, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "3/4 attempts ok")
}

func TestRunsCommandHiddenWithoutStore(t *testing.T) {
	deps := newCLI(&fakeSolver{})
	_, _, err := execute(t, deps, "runs")
	assert.Error(t, err, "runs command only registers when a store exists")
}
