package templates

import (
	"reflect"
	"testing"
)

func TestRenderConditionals(t *testing.T) {
	tests := []struct {
		name string
		body string
		vars map[string]string
		want string
	}{
		{
			name: "truthy keeps content",
			body: "A{{#r}}B{{/r}}C",
			vars: map[string]string{"r": "x"},
			want: "ABC",
		},
		{
			name: "empty value removes span",
			body: "A{{#r}}B{{/r}}C",
			vars: map[string]string{"r": ""},
			want: "AC",
		},
		{
			name: "unrecognized name removes span",
			body: "A{{#r}}B{{/r}}C",
			vars: map[string]string{},
			want: "AC",
		},
		{
			name: "multiline content",
			body: "start\n{{#role}}line one\nline two\n{{/role}}end",
			vars: map[string]string{"role": "backend"},
			want: "start\nline one\nline two\nend",
		},
		{
			name: "same name twice substitutes independently",
			body: "A{{#r}}B{{/r}}M{{#r}}N{{/r}}Z",
			vars: map[string]string{"r": "x"},
			want: "ABMNZ",
		},
		{
			name: "same name twice removed independently",
			body: "A{{#r}}B{{/r}}M{{#r}}N{{/r}}Z",
			vars: map[string]string{},
			want: "AMZ",
		},
		{
			name: "distinct names nested, outer truthy inner falsy",
			body: "{{#a}}x{{#b}}y{{/b}}z{{/a}}",
			vars: map[string]string{"a": "1", "b": ""},
			want: "xz",
		},
		{
			name: "distinct names nested, outer falsy",
			body: "{{#a}}x{{#b}}y{{/b}}z{{/a}}",
			vars: map[string]string{"a": "", "b": "1"},
			want: "",
		},
		{
			name: "unknown outer removes known inner",
			body: "{{#u}}x{{#a}}y{{/a}}z{{/u}}",
			vars: map[string]string{"a": "1"},
			want: "",
		},
		{
			name: "open tag without close left untouched",
			body: "A{{#r}}B",
			vars: map[string]string{"r": "x"},
			want: "A{{#r}}B",
		},
		{
			name: "unmatched open does not block later spans",
			body: "A{{#q}}B{{#r}}C{{/r}}D",
			vars: map[string]string{"r": "x"},
			want: "A{{#q}}BCD",
		},
		{
			name: "close without open left untouched",
			body: "A{{/r}}B",
			vars: map[string]string{"r": "x"},
			want: "A{{/r}}B",
		},
		{
			name: "empty tag name left untouched",
			body: "A{{#}}B{{/}}C",
			vars: map[string]string{},
			want: "A{{#}}B{{/}}C",
		},
		{
			name: "name starting with digit left untouched",
			body: "A{{#1a}}B{{/1a}}C",
			vars: map[string]string{"1a": "x"},
			want: "A{{#1a}}B{{/1a}}C",
		},
		{
			name: "close of a different name does not end the span",
			body: "A{{#r}}B{{/other}}C{{/r}}D",
			vars: map[string]string{"r": "x"},
			want: "AB{{/other}}CD",
		},
		{
			name: "empty body",
			body: "",
			vars: map[string]string{"r": "x"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderConditionals(tt.body, tt.vars); got != tt.want {
				t.Errorf("renderConditionals(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	tests := []struct {
		name string
		body string
		vars map[string]string
		want string
	}{
		{
			name: "literal substitution",
			body: "id={{agent_id}} port={{port}}",
			vars: map[string]string{"agent_id": "a1", "port": "8100"},
			want: "id=a1 port=8100",
		},
		{
			name: "unknown token left as-is",
			body: "hello {{whoever}}",
			vars: map[string]string{"agent_id": "a1"},
			want: "hello {{whoever}}",
		},
		{
			name: "repeated token replaced everywhere",
			body: "{{agent_id}} and {{agent_id}}",
			vars: map[string]string{"agent_id": "a1"},
			want: "a1 and a1",
		},
		{
			name: "empty value replaces with nothing",
			body: "role:{{agent_role}}.",
			vars: map[string]string{"agent_role": ""},
			want: "role:.",
		},
		{
			name: "conditional leftovers untouched",
			body: "{{#x}}y{{/x}}",
			vars: map[string]string{"x": "v"},
			want: "{{#x}}y{{/x}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substitutePlaceholders(tt.body, tt.vars); got != tt.want {
				t.Errorf("substitutePlaceholders(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	body := "You are {{agent_name}}.{{#agent_role}}\nRole: {{agent_role}}{{/agent_role}}\nPort {{port}}, id {{agent_id}}."
	vars := map[string]string{
		"agent_id":   "synapse-claude-8100",
		"agent_name": "builder",
		"agent_role": "backend",
		"port":       "8100",
	}
	want := "You are builder.\nRole: backend\nPort 8100, id synapse-claude-8100."
	if got := Render(body, vars); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	// Without a role the whole span disappears before substitution runs.
	vars["agent_role"] = ""
	want = "You are builder.\nPort 8100, id synapse-claude-8100."
	if got := Render(body, vars); got != want {
		t.Errorf("Render() without role = %q, want %q", got, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	body := "{{#a}}{{x}}{{/a}}{{#b}}{{y}}{{/b}}"
	vars := map[string]string{"a": "1", "b": "1", "x": "X", "y": "Y"}
	first := Render(body, vars)
	for i := 0; i < 20; i++ {
		if got := Render(body, vars); got != first {
			t.Fatalf("Render() varied across runs: %q vs %q", got, first)
		}
	}
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "placeholders and conditionals in appearance order",
			body: "{{agent_name}} {{#agent_role}}{{agent_role}}{{/agent_role}} {{port}}",
			want: []string{"agent_name", "agent_role", "port"},
		},
		{
			name: "close tags are not references",
			body: "{{/only_close}}",
			want: nil,
		},
		{
			name: "malformed tokens skipped",
			body: "{{}} {{#}} {{9bad}} {{good}}",
			want: []string{"good"},
		},
		{
			name: "no references",
			body: "plain text",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractVariables(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}
