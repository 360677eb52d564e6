package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bkyoung/gridbench/internal/adapter/store/sqlite"
	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// TaskSolver defines the dependency required to run the solve command.
type TaskSolver interface {
	SolveTask(ctx context.Context, req solve.TaskRequest) (domain.TaskResult, error)
	SolveCorpus(ctx context.Context, req solve.CorpusRequest) (solve.CorpusResult, error)
}

// RunLister defines the dependency required to show run history.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]sqlite.RunSummary, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// SolveDefaults holds default solver settings from config.
type SolveDefaults struct {
	Attempts int
	Retries  int
	Parallel int
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Solver   TaskSolver
	Runs     RunLister // Optional: nil hides the runs command
	Args     Arguments
	Defaults SolveDefaults
	Model    string
	Version  string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "gridbench",
		Short: "Grid-puzzle benchmark harness for LLM providers",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(solveCommand(deps.Solver, deps.Defaults, deps.Model))
	if deps.Runs != nil {
		root.AddCommand(runsCommand(deps.Runs))
	}

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func solveCommand(solver TaskSolver, defaults SolveDefaults, model string) *cobra.Command {
	var all bool
	var attempts int
	var retries int
	var parallel int
	var overwrite bool
	var print bool

	cmd := &cobra.Command{
		Use:   "solve [task-id...]",
		Short: "Drive the configured model against puzzle tasks",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !all && len(args) == 0 {
				return fmt.Errorf("no tasks specified; pass task IDs or use --all")
			}
			if all && len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with explicit task IDs")
			}

			if len(args) == 1 {
				result, err := solver.SolveTask(ctx, solve.TaskRequest{
					TaskID:        args[0],
					NumAttempts:   attempts,
					RetryAttempts: retries,
					Overwrite:     overwrite,
					Print:         print,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "task %s: %s, cost $%.4f\n",
					result.TaskID, summarizeResult(result), result.TotalCost())
				return nil
			}

			// Progress chatter only when a human is watching; piped
			// output stays machine-readable.
			if solve.IsOutputTerminal() {
				target := "corpus"
				if len(args) > 0 {
					target = fmt.Sprintf("%d tasks", len(args))
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "solving %s with %s...\n", target, model)
			}

			corpus, err := solver.SolveCorpus(ctx, solve.CorpusRequest{
				TaskIDs:       args,
				NumAttempts:   attempts,
				RetryAttempts: retries,
				Parallel:      parallel,
				Overwrite:     overwrite,
				Print:         print,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, result := range corpus.Results {
				fmt.Fprintf(out, "task %s: %s, cost $%.4f\n",
					result.TaskID, summarizeResult(result), result.TotalCost())
			}
			for _, taskID := range corpus.FailedTasks {
				fmt.Fprintf(cmd.ErrOrStderr(), "task %s: failed\n", taskID)
			}
			if corpus.ReportPath != "" {
				fmt.Fprintf(out, "report: %s\n", corpus.ReportPath)
			}
			fmt.Fprintf(out, "%s: %d tasks, total cost $%.4f\n", model, len(corpus.Results), corpus.TotalCost)

			if len(corpus.FailedTasks) > 0 {
				return fmt.Errorf("%d of %d tasks failed", len(corpus.FailedTasks), len(corpus.FailedTasks)+len(corpus.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Solve every task in the corpus")
	cmd.Flags().IntVar(&attempts, "attempts", defaults.Attempts, "Independent attempts per test input")
	cmd.Flags().IntVar(&retries, "retries", defaults.Retries, "Provider calls allowed per attempt slot")
	cmd.Flags().IntVar(&parallel, "parallel", defaults.Parallel, "Tasks solved concurrently")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing submission files")
	cmd.Flags().BoolVar(&print, "print", false, "Mirror submissions to stdout")

	return cmd
}

func summarizeResult(result domain.TaskResult) string {
	answered, null := 0, 0
	for _, attempts := range result.Attempts {
		for _, a := range attempts {
			if a != nil {
				answered++
			} else {
				null++
			}
		}
	}
	return fmt.Sprintf("%d answered, %d null", answered, null)
}

func runsCommand(lister RunLister) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show benchmark run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := lister.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(out, "%s  %s  %s  %d/%d attempts ok  $%.4f\n",
					run.RunID, run.Timestamp.Format("2006-01-02 15:04"), run.Model,
					run.Succeeded, run.Attempts, run.TotalCost)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")

	return cmd
}
