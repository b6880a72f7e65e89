package templates

import (
	"testing"
)

func TestParse_WithFrontmatter(t *testing.T) {
	content := `---
description: Instructions for backend agents
variables:
  - name: agent_role
    description: What the agent is responsible for
    default: assistant
---
You are {{agent_name}}.`

	tmpl, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tmpl.Description != "Instructions for backend agents" {
		t.Errorf("Description = %q", tmpl.Description)
	}
	if len(tmpl.Variables) != 1 || tmpl.Variables[0].Name != "agent_role" || tmpl.Variables[0].Default != "assistant" {
		t.Errorf("Variables = %+v", tmpl.Variables)
	}
	if tmpl.Body != "You are {{agent_name}}." {
		t.Errorf("Body = %q", tmpl.Body)
	}
}

func TestParse_WithoutFrontmatter(t *testing.T) {
	tmpl, err := Parse("Just a body with {{agent_id}}.\n")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tmpl.Body != "Just a body with {{agent_id}}." {
		t.Errorf("Body = %q", tmpl.Body)
	}
	if tmpl.Description != "" || len(tmpl.Variables) != 0 {
		t.Errorf("frontmatter fields populated: %+v", tmpl)
	}
}

func TestParse_DanglingFrontmatterFence(t *testing.T) {
	// A single fence never closes, so the whole content is the body.
	content := "---\nnot frontmatter, just text"
	tmpl, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tmpl.Body != content {
		t.Errorf("Body = %q, want original content", tmpl.Body)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	content := "---\n: [broken\n---\nbody"
	if _, err := Parse(content); err == nil {
		t.Error("Parse() accepted invalid frontmatter")
	}
}

func TestTemplate_Render_DefaultsFillUnsetVariables(t *testing.T) {
	content := `---
variables:
  - name: agent_role
    default: assistant
---
{{#agent_role}}Role: {{agent_role}}{{/agent_role}}`

	tmpl, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	// Caller left the role empty: the default applies and the span stays.
	got := tmpl.Render(map[string]string{"agent_role": ""})
	if got != "Role: assistant" {
		t.Errorf("Render() = %q, want default-filled role", got)
	}

	// A real value overrides the default.
	got = tmpl.Render(map[string]string{"agent_role": "backend"})
	if got != "Role: backend" {
		t.Errorf("Render() = %q, want caller value", got)
	}
}

func TestTemplate_HasVariable(t *testing.T) {
	tmpl := &Template{Body: "{{agent_name}} {{#agent_role}}x{{/agent_role}}"}
	for _, name := range []string{"agent_name", "agent_role"} {
		if !tmpl.HasVariable(name) {
			t.Errorf("HasVariable(%q) = false", name)
		}
	}
	if tmpl.HasVariable("port") {
		t.Error("HasVariable(port) = true for a body that never mentions it")
	}
}
