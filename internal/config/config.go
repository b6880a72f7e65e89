// Package config loads and writes the reinst configuration file.
//
// The file lives at $XDG_CONFIG_HOME/reinst/config.toml (falling back to
// ~/.config/reinst/config.toml) and every field is optional: values absent
// from the file are filled from Default. REINST_CONFIG overrides the path
// entirely.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root of the reinst configuration file.
type Config struct {
	// RegistryDir overrides the Synapse registry location. Empty means the
	// SYNAPSE_REGISTRY_DIR environment variable or ~/.a2a/registry.
	RegistryDir string `toml:"registry_dir"`

	// TemplateDirs lists extra directories searched for instruction
	// templates after ./.synapse and ~/.synapse.
	TemplateDirs []string `toml:"template_dirs"`

	Synapse SynapseConfig `toml:"synapse"`
	Output  OutputConfig  `toml:"output"`
}

// SynapseConfig controls how the synapse binary is invoked.
type SynapseConfig struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured invocation timeout as a duration.
func (s SynapseConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// OutputConfig controls terminal output behavior.
type OutputConfig struct {
	// Color is one of "auto", "always", or "never".
	Color string `toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Synapse: SynapseConfig{
			Binary:         "synapse",
			TimeoutSeconds: 5,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// DefaultPath returns the config file path.
// REINST_CONFIG takes precedence, then $XDG_CONFIG_HOME/reinst/config.toml,
// then ~/.config/reinst/config.toml.
func DefaultPath() string {
	if p := os.Getenv("REINST_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reinst", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reinst", "config.toml")
}

// Load loads configuration from a file.
// An empty path means DefaultPath. Missing values are filled with defaults,
// REINST_SYNAPSE_BIN overrides the configured binary, and template_dirs
// entries have a leading ~ expanded.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	for i, dir := range cfg.TemplateDirs {
		cfg.TemplateDirs[i] = expandPath(dir)
	}

	return &cfg, nil
}

// LoadOrDefault loads the config file at path, falling back to defaults when
// the file does not exist. Parse errors are still reported so a broken file
// is not silently ignored.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Synapse.Binary == "" {
		cfg.Synapse.Binary = def.Synapse.Binary
	}
	if cfg.Synapse.TimeoutSeconds <= 0 {
		cfg.Synapse.TimeoutSeconds = def.Synapse.TimeoutSeconds
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = def.Output.Color
	}
}

func applyEnvOverrides(cfg *Config) {
	if bin := os.Getenv("REINST_SYNAPSE_BIN"); bin != "" {
		cfg.Synapse.Binary = bin
	}
}

// Validate checks fields that have a closed set of accepted values.
func (c *Config) Validate() error {
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always, or never (got %q)", c.Output.Color)
	}
	return nil
}

// CreateDefault creates a default config file at DefaultPath.
// It refuses to overwrite an existing file.
func CreateDefault() (string, error) {
	path := DefaultPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}

	return path, nil
}

// Print writes config to a writer in TOML format
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# reinst configuration")
	fmt.Fprintln(w, "# https://github.com/Dicklesworthstone/reinst")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Synapse registry directory (optional)")
	fmt.Fprintln(w, "# Defaults to SYNAPSE_REGISTRY_DIR, then ~/.a2a/registry")
	if cfg.RegistryDir != "" {
		fmt.Fprintf(w, "registry_dir = %q\n", cfg.RegistryDir)
	} else {
		fmt.Fprintln(w, `# registry_dir = "~/.a2a/registry"`)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Extra template directories, searched after ./.synapse and ~/.synapse")
	if len(cfg.TemplateDirs) > 0 {
		fmt.Fprint(w, "template_dirs = [")
		for i, dir := range cfg.TemplateDirs {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%q", dir)
		}
		fmt.Fprintln(w, "]")
	} else {
		fmt.Fprintln(w, `# template_dirs = ["~/templates/synapse"]`)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[synapse]")
	fmt.Fprintln(w, "# Binary consulted for provider-managed instructions")
	fmt.Fprintln(w, "# Override with REINST_SYNAPSE_BIN")
	fmt.Fprintf(w, "binary = %q\n", cfg.Synapse.Binary)
	fmt.Fprintf(w, "timeout_seconds = %d\n", cfg.Synapse.TimeoutSeconds)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[output]")
	fmt.Fprintln(w, "# Color output: auto, always, or never (NO_COLOR is also honored)")
	fmt.Fprintf(w, "color = %q\n", cfg.Output.Color)

	return nil
}

func expandPath(path string) string {
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
