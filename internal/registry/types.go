package registry

import (
	"strconv"
	"strings"
)

// FlexInt is an integer that external writers sometimes serialize as a JSON
// number and sometimes as a numeric string. Any value that cannot be read as
// an integer decodes to zero instead of failing the containing record, so a
// file with an oddly typed port still yields its name and role.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the value as a plain int.
func (f FlexInt) Int() int {
	return int(f)
}

// Record is one agent's entry in the registry: a single JSON object stored
// as {agent_id}.json. Records are written by the synapse runtime; this tool
// only reads them.
type Record struct {
	AgentID   string  `json:"agent_id"`
	AgentType string  `json:"agent_type"`
	Port      FlexInt `json:"port"`
	PID       FlexInt `json:"pid"`
	Name      string  `json:"name,omitempty"`
	Role      string  `json:"role,omitempty"`
}

// DisplayName returns the human-facing name, falling back to the agent id.
func (r *Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.AgentID
}
