package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/bkyoung/gridbench/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrUnknownModel is returned when a registry lookup misses.
var ErrUnknownModel = errors.New("unknown model")

// Registry holds the named model configurations loaded from the models
// file. Names are unique; several entries may share the same underlying
// model_name with different reasoning settings.
type Registry struct {
	models map[string]domain.ModelConfig
	names  []string
}

type modelsFile struct {
	Models []domain.ModelConfig `yaml:"models"`
}

// LoadRegistry reads and validates the model registry from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read models file %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry builds a registry from raw YAML.
func ParseRegistry(data []byte) (*Registry, error) {
	var file modelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse models file: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, errors.New("models file declares no models")
	}

	registry := &Registry{models: make(map[string]domain.ModelConfig, len(file.Models))}
	for i, model := range file.Models {
		if err := validateModel(model); err != nil {
			return nil, fmt.Errorf("model %d (%q): %w", i, model.Name, err)
		}
		if _, exists := registry.models[model.Name]; exists {
			return nil, fmt.Errorf("duplicate model name %q", model.Name)
		}
		registry.models[model.Name] = model
		registry.names = append(registry.names, model.Name)
	}
	return registry, nil
}

func validateModel(model domain.ModelConfig) error {
	if model.Name == "" {
		return errors.New("name is required")
	}
	if model.ModelName == "" {
		return errors.New("model_name is required")
	}
	if model.Provider == "" {
		return errors.New("provider is required")
	}

	switch model.APIType {
	case domain.APITypeChatCompletions, domain.APITypeResponses:
	case "":
		return errors.New("api_type is required")
	default:
		return fmt.Errorf("unsupported api_type %q", model.APIType)
	}

	// OpenAI reasoning summaries only exist on the responses flavor;
	// asking the chat flavor for one would fail at request time, so
	// reject it here. Anthropic surfaces traces through thinking
	// blocks on its single flavor.
	if model.Provider == "openai" && model.Reasoning != nil && model.Reasoning.Summary != "" && model.Reasoning.Summary != domain.SummaryNone {
		if model.APIType != domain.APITypeResponses {
			return fmt.Errorf("reasoning summary %q requires api_type %q", model.Reasoning.Summary, domain.APITypeResponses)
		}
	}

	return nil
}

// Get returns the configuration registered under name.
func (r *Registry) Get(name string) (domain.ModelConfig, error) {
	model, ok := r.models[name]
	if !ok {
		return domain.ModelConfig{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return model, nil
}

// Names returns the registered model names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
