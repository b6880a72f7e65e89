package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/reinst/internal/registry"
)

type fakeEnv struct {
	vars map[string]string
	ppid int
}

func (f fakeEnv) Getenv(key string) string { return f.vars[key] }
func (f fakeEnv) ParentPID() int           { return f.ppid }

func writeRecord(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestResolver_EnvVarsUsedVerbatim(t *testing.T) {
	// A registry that does not exist proves the env path never scans it.
	reg := registry.New(filepath.Join(t.TempDir(), "absent"))
	env := fakeEnv{
		vars: map[string]string{
			EnvAgentID:   "synapse-claude-8100",
			EnvAgentType: "claude",
			EnvPort:      "8100",
		},
		ppid: 4242,
	}

	id, err := NewResolver(env, reg).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.AgentID != "synapse-claude-8100" || id.AgentType != "claude" || id.Port != 8100 {
		t.Errorf("Resolve() = %+v", id)
	}
	if id.Name != "" || id.Role != "" {
		t.Errorf("Resolve() picked up name/role from nowhere: %+v", id)
	}
}

func TestResolver_PIDFallback(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a1.json", `{"agent_id":"a1","agent_type":"gemini","port":"8200","pid":4242,"name":"scout","role":"research"}`)
	writeRecord(t, dir, "a2.json", `{"agent_id":"a2","agent_type":"claude","port":8300,"pid":9}`)

	env := fakeEnv{vars: map[string]string{}, ppid: 4242}
	id, err := NewResolver(env, registry.New(dir)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.AgentID != "a1" || id.AgentType != "gemini" || id.Port != 8200 {
		t.Errorf("Resolve() = %+v, want record a1", id)
	}
	if id.Name != "scout" || id.Role != "research" {
		t.Errorf("Resolve() name/role = %q/%q, want scout/research", id.Name, id.Role)
	}
}

func TestResolver_PartialEnvTriggersRegistry(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a1.json", `{"agent_id":"a1","agent_type":"claude","port":8100,"pid":4242}`)

	// Port is missing from the environment, so the matching record wins
	// for every field it carries.
	env := fakeEnv{
		vars: map[string]string{
			EnvAgentID:   "env-agent",
			EnvAgentType: "claude",
		},
		ppid: 4242,
	}
	id, err := NewResolver(env, registry.New(dir)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.AgentID != "a1" {
		t.Errorf("AgentID = %q, want record value a1", id.AgentID)
	}
	if id.Port != 8100 {
		t.Errorf("Port = %d, want 8100", id.Port)
	}
}

func TestResolver_PartialEnvNoMatchKeepsEnvValues(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a1.json", `{"agent_id":"a1","agent_type":"claude","port":8100,"pid":1}`)

	env := fakeEnv{
		vars: map[string]string{
			EnvAgentID:   "env-agent",
			EnvAgentType: "claude",
		},
		ppid: 4242,
	}
	id, err := NewResolver(env, registry.New(dir)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.AgentID != "env-agent" || id.AgentType != "claude" || id.Port != 0 {
		t.Errorf("Resolve() = %+v, want env values with port 0", id)
	}
}

func TestResolver_UnparseablePortDegradesToZero(t *testing.T) {
	reg := registry.New(filepath.Join(t.TempDir(), "absent"))
	env := fakeEnv{
		vars: map[string]string{
			EnvAgentID:   "a1",
			EnvAgentType: "claude",
			EnvPort:      "not-a-port",
		},
	}
	id, err := NewResolver(env, reg).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.Port != 0 {
		t.Errorf("Port = %d, want 0", id.Port)
	}
}

func TestResolver_MissingIdentity(t *testing.T) {
	reg := registry.New(t.TempDir())
	env := fakeEnv{vars: map[string]string{}, ppid: 4242}

	_, err := NewResolver(env, reg).Resolve()
	if err == nil {
		t.Fatal("Resolve() succeeded with no identity sources")
	}
	var missing *MissingIdentityError
	if !errors.As(err, &missing) {
		t.Errorf("Resolve() error = %T, want *MissingIdentityError", err)
	}
}

func TestResolver_NameRoleEnrichment(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a1.json", `{"agent_id":"a1","agent_type":"claude","port":8100,"pid":1,"name":"builder","role":"backend"}`)

	env := fakeEnv{
		vars: map[string]string{
			EnvAgentID:   "a1",
			EnvAgentType: "claude",
			EnvPort:      "8100",
		},
	}
	id, err := NewResolver(env, registry.New(dir)).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.Name != "builder" || id.Role != "backend" {
		t.Errorf("enrichment = %q/%q, want builder/backend", id.Name, id.Role)
	}
}

func TestIdentity_TemplateVars(t *testing.T) {
	id := Identity{AgentID: "a1", AgentType: "claude", Port: 8100}
	vars := id.TemplateVars()
	if vars["agent_name"] != "a1" {
		t.Errorf("agent_name = %q, want fallback to id", vars["agent_name"])
	}
	if vars["agent_role"] != "" {
		t.Errorf("agent_role = %q, want empty", vars["agent_role"])
	}
	if vars["port"] != "8100" {
		t.Errorf("port = %q, want \"8100\"", vars["port"])
	}

	id.Name = "builder"
	id.Role = "backend"
	vars = id.TemplateVars()
	if vars["agent_name"] != "builder" || vars["agent_role"] != "backend" {
		t.Errorf("vars = %v", vars)
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"8100", 8100},
		{" 8100 ", 8100},
		{"", 0},
		{"abc", 0},
		{"8100.5", 0},
		{"-1", -1},
	}
	for _, tt := range tests {
		if got := ParsePort(tt.input); got != tt.want {
			t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestOverlay(t *testing.T) {
	base := fakeEnv{vars: map[string]string{EnvAgentID: "base-id", EnvPort: "8100"}, ppid: 7}
	env := Overlay(base, map[string]string{EnvAgentID: "override-id", EnvAgentType: ""})

	if got := env.Getenv(EnvAgentID); got != "override-id" {
		t.Errorf("Getenv(EnvAgentID) = %q, want override", got)
	}
	if got := env.Getenv(EnvPort); got != "8100" {
		t.Errorf("Getenv(EnvPort) = %q, want base value", got)
	}
	// Empty overrides fall through to the base.
	if got := env.Getenv(EnvAgentType); got != "" {
		t.Errorf("Getenv(EnvAgentType) = %q, want empty", got)
	}
	if env.ParentPID() != 7 {
		t.Errorf("ParentPID() = %d, want 7", env.ParentPID())
	}
}
