// Package synapse shells out to the synapse CLI, the external settings
// provider for instruction text. The provider is optional: a missing
// binary or a failing call is a normal fallback condition for callers,
// never something surfaced to the user.
package synapse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNotInstalled is returned when the synapse binary is not found.
var ErrNotInstalled = fmt.Errorf("synapse is not installed")

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 5 * time.Second

// Executor interface allows mocking the synapse binary execution.
type Executor interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// DefaultExecutor runs the actual binary.
type DefaultExecutor struct {
	BinaryPath string
}

func (e *DefaultExecutor) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("synapse execution failed: %w (stderr: %s)", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Client interacts with the synapse CLI.
type Client struct {
	executor Executor
	timeout  time.Duration
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBinaryPath sets the path to the synapse binary.
func WithBinaryPath(path string) ClientOption {
	return func(c *Client) {
		if path == "" {
			return
		}
		if execImpl, ok := c.executor.(*DefaultExecutor); ok {
			execImpl.BinaryPath = path
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithExecutor sets a custom executor (for testing).
func WithExecutor(e Executor) ClientOption {
	return func(c *Client) {
		c.executor = e
	}
}

// NewClient creates a new synapse client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		executor: &DefaultExecutor{BinaryPath: "synapse"},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsInstalled checks if the synapse binary is available.
func (c *Client) IsInstalled() bool {
	if execImpl, ok := c.executor.(*DefaultExecutor); ok {
		path, err := exec.LookPath(execImpl.BinaryPath)
		return err == nil && path != ""
	}
	return true // Assume custom executor is working
}

// Instruction asks the provider to compute the instruction text for an
// agent. An empty result counts as a failure so callers fall through to
// their next source.
func (c *Client) Instruction(ctx context.Context, agentType, agentID string, port int, name, role string) (string, error) {
	if !c.IsInstalled() {
		return "", ErrNotInstalled
	}

	args := []string{
		"instruction",
		"--agent-type", agentType,
		"--agent-id", agentID,
		"--port", strconv.Itoa(port),
		"--plain",
	}
	if name != "" {
		args = append(args, "--name", name)
	}
	if role != "" {
		args = append(args, "--role", role)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.executor.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	text := strings.TrimRight(string(out), "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("synapse returned no instruction for agent type %q", agentType)
	}
	return text, nil
}

// Settings loads the provider's settings document. Shape is owned by the
// provider, so it stays an untyped map.
func (c *Client) Settings(ctx context.Context) (map[string]any, error) {
	if !c.IsInstalled() {
		return nil, ErrNotInstalled
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.executor.Run(ctx, "settings", "--json")
	if err != nil {
		return nil, err
	}
	var settings map[string]any
	if err := json.Unmarshal(out, &settings); err != nil {
		return nil, fmt.Errorf("parsing synapse settings: %w", err)
	}
	return settings, nil
}
