package templates

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a parsed instruction template: an optional YAML frontmatter
// block describing it, plus the markdown body that gets rendered.
type Template struct {
	Name        string         `yaml:"name" json:"name,omitempty"`
	Description string         `yaml:"description" json:"description,omitempty"`
	Variables   []VariableSpec `yaml:"variables" json:"variables,omitempty"`

	Body string `yaml:"-" json:"body"` // template text below the frontmatter
	Path string `yaml:"-" json:"path"` // file the template was loaded from, if any
}

// VariableSpec describes a template variable.
type VariableSpec struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
}

// Parse parses template content with optional YAML frontmatter:
//
//	---
//	description: Instructions for backend agents
//	variables:
//	  - name: agent_role
//	    default: assistant
//	---
//	The template body with {{agent_name}} placeholders.
//
// Content without a frontmatter block is used as the body verbatim.
func Parse(content string) (*Template, error) {
	tmpl := &Template{}

	if strings.HasPrefix(content, "---") {
		parts := strings.SplitN(content, "---", 3)
		if len(parts) >= 3 {
			if err := yaml.Unmarshal([]byte(parts[1]), tmpl); err != nil {
				return nil, err
			}
			tmpl.Body = strings.TrimSpace(parts[2])
			return tmpl, nil
		}
	}
	tmpl.Body = strings.TrimSpace(content)
	return tmpl, nil
}

// Render renders the template body. Frontmatter defaults seed the variable
// map and caller values override them when non-empty, so a declared default
// also makes the matching conditional span truthy for callers that left the
// variable unset.
func (t *Template) Render(vars map[string]string) string {
	if len(t.Variables) == 0 {
		return Render(t.Body, vars)
	}
	merged := make(map[string]string, len(t.Variables)+len(vars))
	for _, v := range t.Variables {
		if v.Default != "" {
			merged[v.Name] = v.Default
		}
	}
	for k, v := range vars {
		if v != "" || merged[k] == "" {
			merged[k] = v
		}
	}
	return Render(t.Body, merged)
}

// HasVariable reports whether the template body references name, either as a
// placeholder or a conditional.
func (t *Template) HasVariable(name string) bool {
	for _, v := range ExtractVariables(t.Body) {
		if v == name {
			return true
		}
	}
	return false
}
