// Package scaffold creates starter instruction templates for reinst init.
package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/reinst/internal/templates"
)

// StarterTemplate is the default.md written by reinst init.
// It demonstrates placeholder substitution and a role conditional.
const StarterTemplate = `---
name: default
description: Starter instruction for Synapse agents
---
A2A AGENT INSTRUCTION
=====================

YOU ARE AGENT: {{agent_name}}
AGENT ID: {{agent_id}}
{{#agent_role}}
ROLE: {{agent_role}}
{{/agent_role}}
YOUR A2A PORT: {{port}}

WHAT THIS MEANS:
- You are part of a multi-agent Synapse network
- Other agents can send you messages
- You can send messages to other agents

Edit this file to change the instruction reinst delivers.
Available variables: agent_id, agent_name, agent_role, port.
Spans wrapped in a conditional are kept when the variable is
non-empty and removed otherwise.
`

// ActionKind describes what Apply will do with a path.
type ActionKind string

const (
	// CreateDir creates a missing .synapse directory.
	CreateDir ActionKind = "create-dir"
	// CreateFile writes a template that does not exist yet.
	CreateFile ActionKind = "create-file"
	// Overwrite replaces an existing template (requires force).
	Overwrite ActionKind = "overwrite"
	// Skip leaves an existing template alone.
	Skip ActionKind = "skip"
)

// Action is one step of a scaffold plan.
type Action struct {
	Path string     `json:"path"`
	Kind ActionKind `json:"kind"`
}

// Plan inspects dir and returns the actions needed to scaffold a starter
// template under dir/.synapse. It performs no writes.
func Plan(dir string, force bool) ([]Action, error) {
	if dir == "" {
		return nil, fmt.Errorf("scaffold: target directory is empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var actions []Action

	target := filepath.Join(abs, templates.DirName)
	if info, err := os.Stat(target); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		actions = append(actions, Action{Path: target, Kind: CreateDir})
	} else if !info.IsDir() {
		return nil, fmt.Errorf("scaffold: %s exists and is not a directory", target)
	}

	file := filepath.Join(target, templates.DefaultFileName)
	if _, err := os.Stat(file); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		actions = append(actions, Action{Path: file, Kind: CreateFile})
	} else if force {
		actions = append(actions, Action{Path: file, Kind: Overwrite})
	} else {
		actions = append(actions, Action{Path: file, Kind: Skip})
	}

	return actions, nil
}

// Apply executes a plan produced by Plan.
func Apply(actions []Action) error {
	for _, a := range actions {
		switch a.Kind {
		case CreateDir:
			if err := os.MkdirAll(a.Path, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", a.Path, err)
			}
		case CreateFile, Overwrite:
			if err := os.WriteFile(a.Path, []byte(StarterTemplate), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", a.Path, err)
			}
		case Skip:
			// Existing template is left alone.
		}
	}
	return nil
}

// Describe prints a human-readable plan, one line per action.
func Describe(actions []Action, w io.Writer) {
	for _, a := range actions {
		switch a.Kind {
		case CreateDir:
			fmt.Fprintf(w, "Would create: %s%c\n", a.Path, os.PathSeparator)
		case CreateFile:
			fmt.Fprintf(w, "Would create: %s\n", a.Path)
		case Overwrite:
			fmt.Fprintf(w, "Would overwrite: %s\n", a.Path)
		case Skip:
			fmt.Fprintf(w, "Would skip: %s (exists; use --force to overwrite)\n", a.Path)
		}
	}
}
