package capabilities

import "gopkg.in/yaml.v3"

// ToolCallQuality represents how well a model handles function calling
type ToolCallQuality string

const (
	ToolCallQualityExcellent ToolCallQuality = "excellent"
	ToolCallQualityGood      ToolCallQuality = "good"
	ToolCallQualityBasic     ToolCallQuality = "basic"
	ToolCallQualityNone      ToolCallQuality = "none"
)

// Pricing is the list price per million tokens
type Pricing struct {
	Input       float64 `yaml:"input" json:"input"`
	CachedInput float64 `yaml:"cached_input" json:"cached_input,omitempty"`
	Output      float64 `yaml:"output" json:"output"`
}

// ModelCapabilities represents all metadata for a specific model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	// SupportsTools is required by the employee agent
	SupportsTools bool `yaml:"supports_tools" json:"supports_tools"`
	// SupportsParallelTools means one response may carry several tool calls
	SupportsParallelTools bool            `yaml:"supports_parallel_tools" json:"supports_parallel_tools"`
	ToolCallQuality       ToolCallQuality `yaml:"tool_call_quality" json:"tool_call_quality"`

	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`

	Pricing *Pricing `yaml:"pricing" json:"pricing,omitempty"`
}

// ProviderCapabilities represents all models for a provider
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	BaseURL  string              `yaml:"base_url" json:"base_url"`
	Models   []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML keeps models in file order
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	type header struct {
		Provider string                       `yaml:"provider"`
		BaseURL  string                       `yaml:"base_url"`
		Models   map[string]ModelCapabilities `yaml:"models"`
	}
	var h header
	if err := node.Decode(&h); err != nil {
		return err
	}
	p.Provider = h.Provider
	p.BaseURL = h.BaseURL

	// Mapping content alternates key, value
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			id := modelsNode.Content[j].Value
			if model, ok := h.Models[id]; ok {
				model.ID = id
				p.Models = append(p.Models, model)
			}
		}
		break
	}
	return nil
}
