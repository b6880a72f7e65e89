// Package instruction produces the instruction text for an agent by walking
// a prioritized source chain: the external settings provider, then the local
// default.md template, then a builtin fallback that always succeeds. Source
// failures are swallowed; the chain only errors when every source fails.
package instruction

import (
	"context"
	"errors"

	"github.com/Dicklesworthstone/reinst/internal/identity"
)

// ErrNoInstruction is returned when every source in the chain fails. With
// the builtin fallback in place this is unreachable; it exists so the
// process boundary still has defined behavior if the chain is assembled
// without it.
var ErrNoInstruction = errors.New("no instruction available")

// Provider is one source of instruction text.
type Provider interface {
	// Name identifies the source in diagnostics and JSON output.
	Name() string
	// Instruction computes the text for id. Any error means "unavailable"
	// and sends the caller to the next source.
	Instruction(ctx context.Context, id identity.Identity) (string, error)
}

// Result is the produced instruction plus which source produced it.
type Result struct {
	Text   string `json:"instruction"`
	Source string `json:"source"`
}

// Chain walks providers in priority order.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain over the given providers. Nil entries are skipped.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Resolve returns the first source's non-empty instruction text. Source
// errors and empty results fall through silently.
func (c *Chain) Resolve(ctx context.Context, id identity.Identity) (Result, error) {
	for _, p := range c.providers {
		if p == nil {
			continue
		}
		text, err := p.Instruction(ctx, id)
		if err != nil || text == "" {
			continue
		}
		return Result{Text: text, Source: p.Name()}, nil
	}
	return Result{}, ErrNoInstruction
}
