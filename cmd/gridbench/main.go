package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bkyoung/gridbench/internal/adapter/cli"
	"github.com/bkyoung/gridbench/internal/adapter/corpus"
	"github.com/bkyoung/gridbench/internal/adapter/llm/anthropic"
	llmhttp "github.com/bkyoung/gridbench/internal/adapter/llm/http"
	"github.com/bkyoung/gridbench/internal/adapter/llm/openai"
	"github.com/bkyoung/gridbench/internal/adapter/llm/static"
	"github.com/bkyoung/gridbench/internal/adapter/observability"
	jsonwriter "github.com/bkyoung/gridbench/internal/adapter/output/json"
	"github.com/bkyoung/gridbench/internal/adapter/output/markdown"
	"github.com/bkyoung/gridbench/internal/adapter/store/sqlite"
	"github.com/bkyoung/gridbench/internal/config"
	"github.com/bkyoung/gridbench/internal/determinism"
	"github.com/bkyoung/gridbench/internal/domain"
	"github.com/bkyoung/gridbench/internal/usecase/solve"
	"github.com/bkyoung/gridbench/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "gridbench",
		EnvPrefix:   "GRIDBENCH",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	if cfg.Solver.Model == "" {
		return fmt.Errorf("no model selected; set solver.model in gridbench.yaml or GRIDBENCH_SOLVER_MODEL")
	}

	registry, err := config.LoadRegistry(cfg.Corpus.ModelsFile)
	if err != nil {
		return fmt.Errorf("load model registry: %w", err)
	}
	model, err := registry.Get(cfg.Solver.Model)
	if err != nil {
		return fmt.Errorf("resolve model: %w", err)
	}

	obs := buildObservability(cfg.Observability)

	provider, err := buildProvider(model, cfg, obs)
	if err != nil {
		return err
	}
	defer provider.Close()

	var solveLogger solve.Logger
	if obs.logger != nil {
		solveLogger = observability.NewSolveLogger(obs.logger)
	}

	// Run-history store if enabled
	var store solve.Store
	var runLister cli.RunLister
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0o755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				store = sqliteStore
				runLister = sqliteStore
				defer sqliteStore.Close()
			}
		}
	}

	// Zero means slots run unbounded apart from the per-call HTTP timeout.
	slotTimeout := llmhttp.ParseTimeout(cfg.Solver.SlotTimeout, 0)

	orchestrator := solve.NewOrchestrator(solve.OrchestratorDeps{
		Provider:    provider,
		Tasks:       corpus.NewLoader(cfg.Corpus.DataDir),
		Submissions: jsonwriter.NewWriter(cfg.Submissions.Directory),
		Report:      markdown.NewWriter(cfg.Submissions.ReportDir),
		Store:       store,
		Logger:      solveLogger,
		Seeder:      determinism.GenerateSeed,
		Backoff:     llmhttp.BuildRetryConfig(cfg.HTTP),
		SlotTimeout: slotTimeout,
		Model:       model.Name,
		DataDir:     cfg.Corpus.DataDir,
		CorpusRev:   corpus.Revision(cfg.Corpus.DataDir),
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Solver: orchestrator,
		Runs:   runLister,
		Defaults: cli.SolveDefaults{
			Attempts: cfg.Solver.Attempts,
			Retries:  cfg.Solver.Retries,
			Parallel: cfg.Solver.Parallel,
		},
		Model:   model.Name,
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// provider is the common surface of the per-vendor adapters.
type provider interface {
	solve.Provider
	Close() error
}

// buildProvider constructs the adapter for the model's vendor, with
// observability and HTTP settings applied.
func buildProvider(model domain.ModelConfig, cfg config.Config, obs observabilityComponents) (provider, error) {
	if model.Provider == "static" {
		return static.NewProvider(model.ModelName), nil
	}

	providerCfg := cfg.Providers[model.Provider]
	if providerCfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", model.Provider)
	}

	timeout := llmhttp.ParseTimeout(cfg.HTTP.Timeout, 300*time.Second)
	if providerCfg.Timeout != nil {
		timeout = llmhttp.ParseTimeout(*providerCfg.Timeout, timeout)
	}
	if model.BaseURL == "" && providerCfg.BaseURL != "" {
		model.BaseURL = providerCfg.BaseURL
	}

	switch model.Provider {
	case "openai":
		p := openai.NewProvider(model, providerCfg.APIKey)
		p.Client().SetTimeout(timeout)
		if obs.logger != nil {
			p.Client().SetLogger(obs.logger)
		}
		if obs.metrics != nil {
			p.Client().SetMetrics(obs.metrics)
		}
		return p, nil
	case "anthropic":
		p := anthropic.NewProvider(model, providerCfg.APIKey)
		p.Client().SetTimeout(timeout)
		if obs.logger != nil {
			p.Client().SetLogger(obs.logger)
		}
		if obs.metrics != nil {
			p.Client().SetMetrics(obs.metrics)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", model.Provider)
	}
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "gridbench"))
	}
	return paths
}

// observabilityComponents holds shared observability instances.
type observabilityComponents struct {
	logger  llmhttp.Logger
	metrics llmhttp.Metrics
}

// buildObservability creates observability components based on configuration.
func buildObservability(cfg config.ObservabilityConfig) observabilityComponents {
	var logger llmhttp.Logger
	var metrics llmhttp.Metrics

	if cfg.Logging.Enabled {
		logLevel := llmhttp.LogLevelInfo
		switch cfg.Logging.Level {
		case "debug":
			logLevel = llmhttp.LogLevelDebug
		case "error":
			logLevel = llmhttp.LogLevelError
		}

		logFormat := llmhttp.LogFormatHuman
		if cfg.Logging.Format == "json" {
			logFormat = llmhttp.LogFormatJSON
		}

		logger = llmhttp.NewDefaultLogger(logLevel, logFormat, cfg.Logging.RedactAPIKeys)
	}

	if cfg.Metrics.Enabled {
		metrics = llmhttp.NewDefaultMetrics()
	}

	return observabilityComponents{logger: logger, metrics: metrics}
}
