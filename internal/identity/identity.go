// Package identity resolves which synapse agent the current process belongs
// to: from environment variables set by the runtime at startup, or failing
// that by matching the parent pid against the agent registry.
package identity

import (
	"os"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/reinst/internal/registry"
)

// Environment variables set by the synapse runtime when it launches an agent.
const (
	EnvAgentID   = "SYNAPSE_AGENT_ID"
	EnvAgentType = "SYNAPSE_AGENT_TYPE"
	EnvPort      = "SYNAPSE_PORT"
)

// Env is the slice of the process environment the resolver reads. Tests
// substitute a fake instead of mutating the real environment.
type Env interface {
	Getenv(key string) string
	ParentPID() int
}

// OSEnv reads the real process environment.
type OSEnv struct{}

func (OSEnv) Getenv(key string) string { return os.Getenv(key) }
func (OSEnv) ParentPID() int           { return os.Getppid() }

// Overlay returns an Env that serves values from overrides first and falls
// back to base for everything else. Empty override values are ignored.
func Overlay(base Env, overrides map[string]string) Env {
	return overlayEnv{base: base, values: overrides}
}

type overlayEnv struct {
	base   Env
	values map[string]string
}

func (o overlayEnv) Getenv(key string) string {
	if v, ok := o.values[key]; ok && v != "" {
		return v
	}
	return o.base.Getenv(key)
}

func (o overlayEnv) ParentPID() int { return o.base.ParentPID() }

// Identity is the resolved agent identity for one invocation. It is built
// once per run and never persisted.
type Identity struct {
	AgentID   string `json:"agent_id"`
	AgentType string `json:"agent_type"`
	Port      int    `json:"port"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
}

// DisplayName returns the agent's name, falling back to its id.
func (id Identity) DisplayName() string {
	if id.Name != "" {
		return id.Name
	}
	return id.AgentID
}

// TemplateVars returns the substitution values for instruction templates:
// agent_id, agent_name (falls back to the id), agent_role (falls back to
// empty), and port as a decimal string.
func (id Identity) TemplateVars() map[string]string {
	return map[string]string{
		"agent_id":   id.AgentID,
		"agent_name": id.DisplayName(),
		"agent_role": id.Role,
		"port":       strconv.Itoa(id.Port),
	}
}

// FromRecord builds an Identity directly from a registry record, bypassing
// environment resolution. Used when the caller has already chosen an agent.
func FromRecord(rec *registry.Record) Identity {
	return Identity{
		AgentID:   rec.AgentID,
		AgentType: rec.AgentType,
		Port:      rec.Port.Int(),
		Name:      rec.Name,
		Role:      rec.Role,
	}
}

// MissingIdentityError reports that the agent id or type could not be
// resolved from either the environment or the registry.
type MissingIdentityError struct{}

func (e *MissingIdentityError) Error() string {
	return "synapse environment not found"
}

// Resolver resolves the current agent identity.
type Resolver struct {
	env      Env
	registry *registry.Registry
}

// NewResolver returns a Resolver reading from env and reg. A nil env means
// the real process environment.
func NewResolver(env Env, reg *registry.Registry) *Resolver {
	if env == nil {
		env = OSEnv{}
	}
	return &Resolver{env: env, registry: reg}
}

// Resolve resolves the agent identity:
//
//  1. If SYNAPSE_AGENT_ID, SYNAPSE_AGENT_TYPE, and SYNAPSE_PORT are all set,
//     they are used directly and the registry is not scanned.
//  2. Otherwise the first registry record whose pid matches the parent pid
//     fills in the missing pieces, record values taking precedence.
//  3. Name and role still unset afterwards are read from the agent's own
//     {agent_id}.json; a missing or unreadable file is not an error.
//
// An unparseable port degrades to zero. A still-unresolved agent id or type
// is a *MissingIdentityError.
func (r *Resolver) Resolve() (Identity, error) {
	agentID := r.env.Getenv(EnvAgentID)
	agentType := r.env.Getenv(EnvAgentType)
	portStr := r.env.Getenv(EnvPort)

	var id Identity
	if agentID == "" || agentType == "" || portStr == "" {
		if rec, ok := r.registry.FindByPID(r.env.ParentPID()); ok {
			if rec.AgentID != "" {
				agentID = rec.AgentID
			}
			if rec.AgentType != "" {
				agentType = rec.AgentType
			}
			portStr = strconv.Itoa(rec.Port.Int())
			id.Name = rec.Name
			id.Role = rec.Role
		}
	}

	if agentID == "" || agentType == "" {
		return Identity{}, &MissingIdentityError{}
	}

	id.AgentID = agentID
	id.AgentType = agentType
	id.Port = ParsePort(portStr)

	if id.Name == "" {
		if rec, ok := r.registry.Load(id.AgentID); ok {
			id.Name = rec.Name
			id.Role = rec.Role
		}
	}
	return id, nil
}

// ParsePort parses a port value, degrading to zero on any parse failure
// rather than aborting resolution.
func ParsePort(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
