package instruction

import (
	"context"
	_ "embed"
	"strings"

	"github.com/Dicklesworthstone/reinst/internal/identity"
	"github.com/Dicklesworthstone/reinst/internal/synapse"
	"github.com/Dicklesworthstone/reinst/internal/templates"
)

// SettingsProvider delegates to the external synapse settings provider.
// Absence of the binary and a failing call behave identically.
type SettingsProvider struct {
	Client *synapse.Client
}

func (p *SettingsProvider) Name() string { return "synapse" }

func (p *SettingsProvider) Instruction(ctx context.Context, id identity.Identity) (string, error) {
	if p.Client == nil {
		return "", synapse.ErrNotInstalled
	}
	return p.Client.Instruction(ctx, id.AgentType, id.AgentID, id.Port, id.Name, id.Role)
}

// TemplateProvider renders the local default.md found by its loader.
type TemplateProvider struct {
	Loader *templates.Loader
}

func (p *TemplateProvider) Name() string { return "template" }

func (p *TemplateProvider) Instruction(_ context.Context, id identity.Identity) (string, error) {
	tmpl, err := p.Loader.Load()
	if err != nil {
		return "", err
	}
	return tmpl.Render(id.TemplateVars()), nil
}

//go:embed fallback.md
var fallbackBody string

// FallbackProvider returns the builtin instruction text, the terminal source
// in the chain. It never fails.
type FallbackProvider struct{}

func (FallbackProvider) Name() string { return "builtin" }

func (FallbackProvider) Instruction(_ context.Context, id identity.Identity) (string, error) {
	body := strings.TrimRight(fallbackBody, "\n")
	return templates.Render(body, id.TemplateVars()), nil
}

// DefaultChain builds the standard source order: settings provider, local
// template, builtin fallback. A nil client still yields a working chain;
// the settings tier just reports itself unavailable.
func DefaultChain(client *synapse.Client, loader *templates.Loader) *Chain {
	return NewChain(
		&SettingsProvider{Client: client},
		&TemplateProvider{Loader: loader},
		FallbackProvider{},
	)
}
