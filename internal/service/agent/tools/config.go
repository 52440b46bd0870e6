package tools

// ToolConfig centralizes configuration for all tools.
type ToolConfig struct {
	// MaxResultSize caps the serialized query_database output (characters)
	MaxResultSize int
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		MaxResultSize: 20000, // ~5k tokens
	}
}
