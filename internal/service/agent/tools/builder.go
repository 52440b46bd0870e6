package tools

import (
	"log/slog"

	"staffdesk/internal/domain/repositories"
)

// ToolRegistryBuilder provides a fluent API for building tool registries.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder(logger *slog.Logger) *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(logger),
		config:   DefaultToolConfig(),
	}
}

// WithConfig sets custom tool configuration.
// If not called, defaults will be used.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithEmployeeTools registers the catalog tools against the given data store.
func (b *ToolRegistryBuilder) WithEmployeeTools(store repositories.DataStore) *ToolRegistryBuilder {
	for _, def := range Catalog() {
		switch def.Name {
		case QueryDatabase:
			b.registry.Register(def, NewQueryTool(store, def, b.config))
		case AddEmployee:
			b.registry.Register(def, NewAddEmployeeTool(store, def))
		case DeleteEmployee:
			b.registry.Register(def, NewDeleteEmployeeTool(store, def))
		case UpdateEmployee:
			b.registry.Register(def, NewUpdateEmployeeTool(store, def))
		}
	}
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}

// BuildWithDefaults builds a registry with every employee tool and the default config.
func BuildWithDefaults(store repositories.DataStore, logger *slog.Logger) *ToolRegistry {
	return NewToolRegistryBuilder(logger).
		WithEmployeeTools(store).
		Build()
}
