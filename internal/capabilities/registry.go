package capabilities

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

var (
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrUnknownModel     = errors.New("unknown model")
	ErrToolsUnsupported = errors.New("model does not support tool calling")
)

// Registry manages model capabilities across all providers
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry creates a registry from every embedded provider file
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	files, err := configFiles.ReadDir("config")
	if err != nil {
		return nil, fmt.Errorf("read capability files: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || path.Ext(f.Name()) != ".yaml" {
			continue
		}
		if err := r.loadProviderFile(path.Join("config", f.Name())); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// loadProviderFile loads a provider's capability YAML file
func (r *Registry) loadProviderFile(filename string) error {
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var providerCaps ProviderCapabilities
	if err := yaml.Unmarshal(data, &providerCaps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if providerCaps.Provider == "" {
		providerCaps.Provider = strings.TrimSuffix(path.Base(filename), ".yaml")
	}

	r.mu.Lock()
	r.providers[providerCaps.Provider] = &providerCaps
	r.mu.Unlock()

	return nil
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	for i := range providerCaps.Models {
		if providerCaps.Models[i].ID == model {
			m := providerCaps.Models[i]
			return &m, nil
		}
	}

	return nil, fmt.Errorf("%w %s for provider %s", ErrUnknownModel, model, provider)
}

// CheckToolSupport fails with ErrToolsUnsupported for a known model without
// tool calling. Unknown providers and models return their lookup error.
func (r *Registry) CheckToolSupport(provider, model string) (*ModelCapabilities, error) {
	caps, err := r.GetModelCapabilities(provider, model)
	if err != nil {
		return nil, err
	}
	if !caps.SupportsTools {
		return caps, fmt.Errorf("%w: %s/%s", ErrToolsUnsupported, provider, model)
	}
	return caps, nil
}

// ListProviderModels returns all models for a provider (ordered as defined in YAML)
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	return append([]ModelCapabilities(nil), providerCaps.Models...), nil
}

// GetAllProviders returns the registered providers, sorted
func (r *Registry) GetAllProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.providers))
	for provider := range r.providers {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

// Providers returns a copy of every provider's capabilities, sorted by name
func (r *Registry) Providers() []ProviderCapabilities {
	names := r.GetAllProviders()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderCapabilities, 0, len(names))
	for _, name := range names {
		p := *r.providers[name]
		p.Models = append([]ModelCapabilities(nil), p.Models...)
		out = append(out, p)
	}
	return out
}
