package solve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	llmhttp "github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/domain"
)

// Provider defines the outbound port to the model adapter layer.
// One Predict call is exactly one provider round-trip: retries, slot
// numbering and persistence all belong to the orchestrator.
type Provider interface {
	Predict(ctx context.Context, req ProviderRequest) (domain.Attempt, error)
}

// ProviderRequest describes the payload the model adapter expects.
type ProviderRequest struct {
	Prompt       string
	Seed         uint64
	TaskID       string
	AttemptIndex int
}

// TaskSource loads puzzle tasks from the corpus.
type TaskSource interface {
	// Load reads one task by ID.
	Load(ctx context.Context, taskID string) (domain.Task, error)

	// List returns every task ID in the corpus, sorted.
	List(ctx context.Context) ([]string, error)
}

// SubmissionArtifact encapsulates one task's persistable result.
type SubmissionArtifact struct {
	TaskID    string
	Result    domain.TaskResult
	Overwrite bool
	Print     bool
}

// SubmissionWriter persists task results to disk. Written reports
// whether a file was produced; a skipped write (existing artifact,
// Overwrite false) returns false with no error.
type SubmissionWriter interface {
	Write(ctx context.Context, artifact SubmissionArtifact) (path string, written bool, err error)
}

// RunReport aggregates one corpus run for reporting.
type RunReport struct {
	RunID     string
	Model     string
	CorpusRev string
	StartedAt time.Time
	Duration  time.Duration
	Results   []domain.TaskResult
	TotalCost float64
}

// ReportWriter renders a run report artifact.
type ReportWriter interface {
	Write(ctx context.Context, report RunReport) (string, error)
}

// StoreRun represents a benchmark run for persistence.
type StoreRun struct {
	RunID     string
	Timestamp time.Time
	Model     string
	DataDir   string
	CorpusRev string
	TotalCost float64
}

// StoreAttempt represents a per-slot record for persistence.
type StoreAttempt struct {
	RunID           string
	TaskID          string
	TestIndex       int
	Slot            int
	Status          string
	ErrorKind       string
	PromptTokens    int
	OutputTokens    int
	ReasoningTokens int
	Cost            float64
	Duration        time.Duration
	CreatedAt       time.Time
}

// Store defines the outbound port for persisting run history.
type Store interface {
	CreateRun(ctx context.Context, run StoreRun) error
	SaveAttempt(ctx context.Context, attempt StoreAttempt) error
	UpdateRunCost(ctx context.Context, runID string, totalCost float64) error
	Close() error
}

// SeedFunc generates deterministic request seeds per task and slot.
type SeedFunc func(taskID string, attemptIndex int) uint64

// OrchestratorDeps captures the inbound dependencies for the orchestrator.
type OrchestratorDeps struct {
	Provider    Provider
	Tasks       TaskSource
	Submissions SubmissionWriter // Optional: artifact persistence
	Report      ReportWriter     // Optional: corpus run report
	Store       Store            // Optional: run-history persistence
	Logger      Logger           // Optional: structured logging
	Seeder      SeedFunc
	Backoff     llmhttp.RetryConfig
	SlotTimeout time.Duration // Optional: per-attempt deadline, 0 disables
	Model       string        // Registry name of the driven model, for provenance
	DataDir     string        // Corpus directory, for provenance
	CorpusRev   string        // Optional: corpus git revision, for provenance
	Clock       func() time.Time
}

// TaskRequest represents an inbound request to solve one task.
type TaskRequest struct {
	TaskID        string
	NumAttempts   int
	RetryAttempts int
	Overwrite     bool
	Print         bool
}

// CorpusRequest represents an inbound request to solve many tasks.
type CorpusRequest struct {
	TaskIDs       []string // Empty means every task the source lists
	NumAttempts   int
	RetryAttempts int
	Parallel      int
	Overwrite     bool
	Print         bool
}

// CorpusResult captures the corpus-run outcome.
type CorpusResult struct {
	Results     []domain.TaskResult
	ReportPath  string
	TotalCost   float64
	FailedTasks []string
}

// Orchestrator drives multi-attempt, multi-retry evaluation of tasks
// against the model adapter.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Seeder == nil {
		deps.Seeder = func(string, int) uint64 { return 0 }
	}
	if deps.Backoff == (llmhttp.RetryConfig{}) {
		deps.Backoff = llmhttp.DefaultRetryConfig()
	}
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) validateDependencies() error {
	if o.deps.Provider == nil {
		return errors.New("provider is required")
	}
	if o.deps.Tasks == nil {
		return errors.New("task source is required")
	}
	return nil
}

func validateRequest(req TaskRequest) error {
	if req.TaskID == "" {
		return errors.New("task id is required")
	}
	if req.NumAttempts < 1 {
		return fmt.Errorf("num attempts must be >= 1, got %d", req.NumAttempts)
	}
	if req.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be >= 1, got %d", req.RetryAttempts)
	}
	return nil
}

// SolveTask evaluates one task: NumAttempts independent slots per test
// input, each slot protected by a bounded retry loop. Slots that
// exhaust their budget become null entries; an all-null result is a
// valid outcome, not an error.
func (o *Orchestrator) SolveTask(ctx context.Context, req TaskRequest) (domain.TaskResult, error) {
	if err := o.validateDependencies(); err != nil {
		return domain.TaskResult{}, err
	}
	if err := validateRequest(req); err != nil {
		return domain.TaskResult{}, err
	}

	task, err := o.deps.Tasks.Load(ctx, req.TaskID)
	if err != nil {
		return domain.TaskResult{}, fmt.Errorf("load task %s: %w", req.TaskID, err)
	}

	now := o.deps.Clock()
	runID := generateRunID(now, o.deps.Model, req.TaskID)

	if o.deps.Store != nil {
		run := StoreRun{
			RunID:     runID,
			Timestamp: now,
			Model:     o.deps.Model,
			DataDir:   o.deps.DataDir,
			CorpusRev: o.deps.CorpusRev,
		}
		if err := o.deps.Store.CreateRun(ctx, run); err != nil {
			o.warn(ctx, "failed to create run record", map[string]interface{}{
				"runID": runID,
				"error": err.Error(),
			})
		}
	}

	result := o.solveLoaded(ctx, task, req, runID)

	if o.deps.Store != nil {
		if err := o.deps.Store.UpdateRunCost(ctx, runID, result.TotalCost()); err != nil {
			o.warn(ctx, "failed to update run cost", map[string]interface{}{
				"runID": runID,
				"error": err.Error(),
			})
		}
	}

	if o.deps.Submissions != nil {
		if _, err := o.persist(ctx, result, req.Overwrite, req.Print); err != nil {
			return result, err
		}
	}

	return result, nil
}

// solveLoaded runs the attempt slots for an already-loaded task.
func (o *Orchestrator) solveLoaded(ctx context.Context, task domain.Task, req TaskRequest, runID string) domain.TaskResult {
	result := domain.TaskResult{
		TaskID:   task.ID,
		Attempts: make([]domain.AttemptMap, len(task.Test)),
	}

	for testIndex := range task.Test {
		prompt := BuildPrompt(task, testIndex)

		// One goroutine per slot; each writes only its own index, so
		// slots share no mutable state and completion order never
		// shows through the attempt_<k> keys.
		attempts := make([]*domain.Attempt, req.NumAttempts)
		var wg sync.WaitGroup
		for slot := 1; slot <= req.NumAttempts; slot++ {
			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				attempts[slot-1] = o.runSlot(ctx, slotParams{
					prompt:    prompt,
					task:      task.ID,
					testIndex: testIndex,
					slot:      slot,
					retries:   req.RetryAttempts,
					runID:     runID,
				})
			}(slot)
		}
		wg.Wait()

		attemptMap := make(domain.AttemptMap, req.NumAttempts)
		for slot := 1; slot <= req.NumAttempts; slot++ {
			attemptMap[attemptKey(slot)] = attempts[slot-1]
		}
		result.Attempts[testIndex] = attemptMap
	}

	return result
}

type slotParams struct {
	prompt    string
	task      string
	testIndex int
	slot      int
	retries   int
	runID     string
}

// runSlot executes the bounded retry loop for one attempt slot.
// Transient provider failures are retried with backoff up to the
// configured budget; config and parse failures are fatal for the slot
// on first sight. Either way the slot degrades to nil without
// affecting its siblings.
func (o *Orchestrator) runSlot(ctx context.Context, p slotParams) (attempt *domain.Attempt) {
	defer func() {
		if r := recover(); r != nil {
			o.warn(ctx, "attempt slot panicked", map[string]interface{}{
				"taskID": p.task,
				"slot":   p.slot,
				"panic":  fmt.Sprintf("%v", r),
			})
			attempt = nil
		}
	}()

	req := ProviderRequest{
		Prompt:       p.prompt,
		Seed:         o.deps.Seeder(p.task, p.slot),
		TaskID:       p.task,
		AttemptIndex: p.slot,
	}

	for try := 1; try <= p.retries; try++ {
		slotCtx := ctx
		cancel := func() {}
		if o.deps.SlotTimeout > 0 {
			slotCtx, cancel = context.WithTimeout(ctx, o.deps.SlotTimeout)
		}

		started := o.deps.Clock()
		got, err := o.deps.Provider.Predict(slotCtx, req)
		duration := o.deps.Clock().Sub(started)
		cancel()

		if err == nil {
			o.recordAttempt(ctx, p, "success", "", got.Metadata, duration)
			return &got
		}

		kind := llmhttp.KindOf(err)
		o.warn(ctx, "attempt failed", map[string]interface{}{
			"taskID": p.task,
			"slot":   p.slot,
			"try":    try,
			"kind":   kind.String(),
			"error":  err.Error(),
		})

		if !llmhttp.ShouldRetry(err) {
			o.recordAttempt(ctx, p, "failed", kind.String(), domain.AttemptMetadata{}, duration)
			return nil
		}

		if try == p.retries {
			o.recordAttempt(ctx, p, "exhausted", kind.String(), domain.AttemptMetadata{}, duration)
			return nil
		}

		backoff := llmhttp.ExponentialBackoff(try-1, o.deps.Backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			o.recordAttempt(ctx, p, "cancelled", "context", domain.AttemptMetadata{}, duration)
			return nil
		}
	}

	return nil
}

// recordAttempt persists one slot outcome; store failures are logged,
// never propagated.
func (o *Orchestrator) recordAttempt(ctx context.Context, p slotParams, status, errorKind string, meta domain.AttemptMetadata, duration time.Duration) {
	if o.deps.Store == nil {
		return
	}

	rec := StoreAttempt{
		RunID:           p.runID,
		TaskID:          p.task,
		TestIndex:       p.testIndex,
		Slot:            p.slot,
		Status:          status,
		ErrorKind:       errorKind,
		PromptTokens:    meta.Usage.PromptTokens,
		OutputTokens:    meta.Usage.CompletionTokens,
		ReasoningTokens: meta.Usage.CompletionTokensDetails.ReasoningTokens,
		Cost:            meta.Cost.TotalCost,
		Duration:        duration,
		CreatedAt:       o.deps.Clock(),
	}
	if err := o.deps.Store.SaveAttempt(ctx, rec); err != nil {
		o.warn(ctx, "failed to save attempt record", map[string]interface{}{
			"taskID": p.task,
			"slot":   p.slot,
			"error":  err.Error(),
		})
	}
}

// persist writes one task's submission artifact.
func (o *Orchestrator) persist(ctx context.Context, result domain.TaskResult, overwrite, print bool) (string, error) {
	path, written, err := o.deps.Submissions.Write(ctx, SubmissionArtifact{
		TaskID:    result.TaskID,
		Result:    result,
		Overwrite: overwrite,
		Print:     print,
	})
	if err != nil {
		return "", fmt.Errorf("write submission for %s: %w", result.TaskID, err)
	}
	if !written {
		o.warn(ctx, "submission exists, skipping write", map[string]interface{}{
			"taskID": result.TaskID,
			"path":   path,
		})
	}
	return path, nil
}

// SolveCorpus evaluates many tasks with bounded parallelism. One
// task's failure is recorded and logged; sibling tasks always run to
// completion.
func (o *Orchestrator) SolveCorpus(ctx context.Context, req CorpusRequest) (CorpusResult, error) {
	if err := o.validateDependencies(); err != nil {
		return CorpusResult{}, err
	}

	taskIDs := req.TaskIDs
	if len(taskIDs) == 0 {
		listed, err := o.deps.Tasks.List(ctx)
		if err != nil {
			return CorpusResult{}, fmt.Errorf("list corpus: %w", err)
		}
		taskIDs = listed
	}

	parallel := req.Parallel
	if parallel < 1 {
		parallel = 1
	}

	startedAt := o.deps.Clock()
	var out CorpusResult

	results := make([]*domain.TaskResult, len(taskIDs))
	failures := make([]error, len(taskIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)
	for i, taskID := range taskIDs {
		wg.Add(1)
		go func(i int, taskID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := o.SolveTask(ctx, TaskRequest{
				TaskID:        taskID,
				NumAttempts:   req.NumAttempts,
				RetryAttempts: req.RetryAttempts,
				Overwrite:     req.Overwrite,
				Print:         req.Print,
			})
			if err != nil {
				failures[i] = err
				return
			}
			results[i] = &result
		}(i, taskID)
	}
	wg.Wait()

	for i, taskID := range taskIDs {
		if failures[i] != nil {
			out.FailedTasks = append(out.FailedTasks, taskID)
			o.warn(ctx, "task failed", map[string]interface{}{
				"taskID": taskID,
				"error":  failures[i].Error(),
			})
			continue
		}
		out.Results = append(out.Results, *results[i])
		out.TotalCost += results[i].TotalCost()
	}

	if o.deps.Report != nil {
		report := RunReport{
			RunID:     generateRunID(startedAt, o.deps.Model, "corpus"),
			Model:     o.deps.Model,
			CorpusRev: o.deps.CorpusRev,
			StartedAt: startedAt,
			Duration:  o.deps.Clock().Sub(startedAt),
			Results:   out.Results,
			TotalCost: out.TotalCost,
		}
		path, err := o.deps.Report.Write(ctx, report)
		if err != nil {
			o.warn(ctx, "failed to write run report", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			out.ReportPath = path
		}
	}

	return out, nil
}

func (o *Orchestrator) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s: %v", message, fields)
}

func attemptKey(slot int) string {
	return fmt.Sprintf("attempt_%d", slot)
}

// generateRunID creates a unique, time-ordered run ID.
func generateRunID(timestamp time.Time, model, scope string) string {
	ts := timestamp.UTC().Format("20060102T150405Z")

	input := fmt.Sprintf("%s|%s|%d", model, scope, timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	shortHash := hex.EncodeToString(hash[:3])

	return fmt.Sprintf("run-%s-%s", ts, shortHash)
}
