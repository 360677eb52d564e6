package config

// Config represents the full application configuration.
type Config struct {
	Providers     map[string]ProviderConfig `yaml:"providers"`
	HTTP          HTTPConfig                `yaml:"http"`
	Corpus        CorpusConfig              `yaml:"corpus"`
	Submissions   SubmissionsConfig         `yaml:"submissions"`
	Solver        SolverConfig              `yaml:"solver"`
	Store         StoreConfig               `yaml:"store"`
	Observability ObservabilityConfig       `yaml:"observability"`
}

// ProviderConfig configures a single LLM provider backend.
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`

	// HTTP overrides (optional, use global HTTP config if not set)
	Timeout        *string `yaml:"timeout,omitempty"`
	InitialBackoff *string `yaml:"initialBackoff,omitempty"`
	MaxBackoff     *string `yaml:"maxBackoff,omitempty"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// CorpusConfig configures task loading.
type CorpusConfig struct {
	DataDir    string `yaml:"dataDir"`
	ModelsFile string `yaml:"modelsFile"`
}

// SubmissionsConfig configures where task results land on disk.
type SubmissionsConfig struct {
	Directory string `yaml:"directory"`
	ReportDir string `yaml:"reportDir"`
}

// SolverConfig holds the driven model and the attempt and retry
// budgets.
type SolverConfig struct {
	Model       string `yaml:"model"`
	Attempts    int    `yaml:"attempts"`
	Retries     int    `yaml:"retries"`
	Parallel    int    `yaml:"parallel"`
	SlotTimeout string `yaml:"slotTimeout"`
}

// StoreConfig configures the run-history persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging and metrics.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures request/response logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// MetricsConfig configures token and cost metrics tracking.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.HTTP = chooseHTTP(base.HTTP, overlay.HTTP)
	result.Corpus = chooseCorpus(base.Corpus, overlay.Corpus)
	result.Submissions = chooseSubmissions(base.Submissions, overlay.Submissions)
	result.Solver = chooseSolver(base.Solver, overlay.Solver)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)
	result.Providers = mergeProviders(base.Providers, overlay.Providers)

	return result
}

func mergeProviders(base, overlay map[string]ProviderConfig) map[string]ProviderConfig {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	result := make(map[string]ProviderConfig, len(base)+len(overlay))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range overlay {
		result[key] = value
	}
	return result
}

func chooseHTTP(base, overlay HTTPConfig) HTTPConfig {
	if overlay.Timeout != "" || overlay.InitialBackoff != "" || overlay.MaxBackoff != "" || overlay.BackoffMultiplier != 0 {
		return overlay
	}
	return base
}

func chooseCorpus(base, overlay CorpusConfig) CorpusConfig {
	result := base
	if overlay.DataDir != "" {
		result.DataDir = overlay.DataDir
	}
	if overlay.ModelsFile != "" {
		result.ModelsFile = overlay.ModelsFile
	}
	return result
}

func chooseSubmissions(base, overlay SubmissionsConfig) SubmissionsConfig {
	result := base
	if overlay.Directory != "" {
		result.Directory = overlay.Directory
	}
	if overlay.ReportDir != "" {
		result.ReportDir = overlay.ReportDir
	}
	return result
}

func chooseSolver(base, overlay SolverConfig) SolverConfig {
	result := base
	if overlay.Model != "" {
		result.Model = overlay.Model
	}
	if overlay.Attempts != 0 {
		result.Attempts = overlay.Attempts
	}
	if overlay.Retries != 0 {
		result.Retries = overlay.Retries
	}
	if overlay.Parallel != 0 {
		result.Parallel = overlay.Parallel
	}
	if overlay.SlotTimeout != "" {
		result.SlotTimeout = overlay.SlotTimeout
	}
	return result
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base

	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	if overlay.Metrics.Enabled {
		result.Metrics = overlay.Metrics
	}

	return result
}
