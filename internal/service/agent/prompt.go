package agent

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var promptYAML []byte

// PromptTemplate is the fixed part of the instruction turn.
type PromptTemplate struct {
	Role         string   `yaml:"role"`
	Capabilities []string `yaml:"capabilities"`
	Rules        []string `yaml:"rules"`
}

// LoadPromptTemplate parses the embedded instruction template.
func LoadPromptTemplate() (*PromptTemplate, error) {
	var tmpl PromptTemplate
	if err := yaml.Unmarshal(promptYAML, &tmpl); err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	if tmpl.Role == "" {
		return nil, fmt.Errorf("prompt template has no role")
	}
	return &tmpl, nil
}

// Build renders the instruction text around the current schema description.
func (p *PromptTemplate) Build(schema string) string {
	var b strings.Builder
	b.WriteString(p.Role)
	b.WriteString("\n\n")
	b.WriteString(schema)

	if len(p.Capabilities) > 0 {
		b.WriteString("\n\nWhat you can do:")
		for i, c := range p.Capabilities {
			fmt.Fprintf(&b, "\n%d. %s", i+1, c)
		}
	}
	if len(p.Rules) > 0 {
		b.WriteString("\n\nHow to reply:")
		for _, r := range p.Rules {
			b.WriteString("\n- ")
			b.WriteString(r)
		}
	}
	return b.String()
}
