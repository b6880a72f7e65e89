// Package registry reads the on-disk agent registry: a directory of one JSON
// file per agent, maintained by the synapse runtime and treated as read-only
// here. Malformed or unreadable entries are skipped, never fatal.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnvRegistryDir overrides the registry location when set.
const EnvRegistryDir = "SYNAPSE_REGISTRY_DIR"

// DefaultDir returns the hardcoded fallback registry location (~/.a2a/registry).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".a2a", "registry")
	}
	return filepath.Join(home, ".a2a", "registry")
}

// ResolveDir picks the registry directory: the SYNAPSE_REGISTRY_DIR override,
// then the configured value, then the hardcoded default.
func ResolveDir(getenv func(string) string, configured string) string {
	if dir := getenv(EnvRegistryDir); dir != "" {
		return dir
	}
	if configured != "" {
		return expandPath(configured)
	}
	return DefaultDir()
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Registry reads agent records from a single directory.
type Registry struct {
	dir string
}

// New returns a Registry rooted at dir. The directory does not need to exist;
// lookups against a missing directory simply find nothing.
func New(dir string) *Registry {
	return &Registry{dir: dir}
}

// Dir returns the directory this registry reads from.
func (r *Registry) Dir() string {
	return r.dir
}

// Load reads the record stored as {agentID}.json. The second return is false
// when the file is missing, unreadable, or not valid JSON.
func (r *Registry) Load(agentID string) (*Record, bool) {
	if agentID == "" {
		return nil, false
	}
	rec, err := readRecord(filepath.Join(r.dir, agentID+".json"))
	if err != nil {
		return nil, false
	}
	return rec, true
}

// FindByPID scans the registry for the first record whose pid field equals
// pid. Iteration order follows the directory listing and is not guaranteed.
// Records with a missing or non-numeric pid never match.
func (r *Registry) FindByPID(pid int) (*Record, bool) {
	if pid <= 0 {
		return nil, false
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, false
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := readRecord(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			continue
		}
		// A zero pid means the field was absent or malformed.
		if rec.PID.Int() == pid {
			return rec, true
		}
	}
	return nil, false
}

// List returns every readable record sorted by agent id, plus a count of
// entries that were skipped because they could not be parsed. A missing
// directory yields an empty list, not an error.
func (r *Registry) List() ([]*Record, int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading registry %s: %w", r.dir, err)
	}

	var records []*Record
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := readRecord(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			skipped++
			continue
		}
		if rec.AgentID == "" {
			// Keep the row addressable even when the file omits its own id.
			rec.AgentID = strings.TrimSuffix(entry.Name(), ".json")
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].AgentID < records[j].AgentID
	})
	return records, skipped, nil
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &rec, nil
}
