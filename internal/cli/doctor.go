package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/reinst/internal/config"
	"github.com/Dicklesworthstone/reinst/internal/identity"
	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/templates"
	"github.com/Dicklesworthstone/reinst/internal/tui/theme"
)

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkError
)

func (s checkStatus) String() string {
	switch s {
	case checkOK:
		return "ok"
	case checkWarn:
		return "warning"
	default:
		return "error"
	}
}

// doctorCheck is one row of the diagnosis.
type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type doctorSummary struct {
	OK      int `json:"ok"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

type doctorReport struct {
	output.TimestampedResponse
	Checks  []doctorCheck `json:"checks"`
	Summary doctorSummary `json:"summary"`
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the resolver environment",
		Long: `Run every check the resolver depends on and report what it finds: the
config file, the identity environment variables, the agent registry, the
template search path, and the synapse provider binary.

Warnings are normal (most setups rely on only one identity source); the
command exits 0 as long as the diagnosis itself could run.

Examples:
  reinst doctor           # Human-readable report
  reinst doctor --json    # Machine-readable checks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks(cmd.Context())

			var summary doctorSummary
			for _, c := range checks {
				switch c.Status {
				case checkOK.String():
					summary.OK++
				case checkWarn.String():
					summary.Warning++
				default:
					summary.Error++
				}
			}

			if jsonOutput {
				return output.PrintJSON(doctorReport{
					TimestampedResponse: output.NewTimestamped(),
					Checks:              checks,
					Summary:             summary,
				})
			}
			renderDoctorReport(checks, summary)
			return nil
		},
	}
}

func runChecks(ctx context.Context) []doctorCheck {
	return []doctorCheck{
		checkConfigFile(),
		checkEnvironment(),
		checkRegistry(),
		checkParentPID(),
		checkIdentity(),
		checkTemplate(),
		checkProvider(ctx),
	}
}

func checkConfigFile() doctorCheck {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.LoadOrDefault(cfgFile)
	if err == nil {
		err = loaded.Validate()
	}
	if err != nil {
		return doctorCheck{Name: "config", Status: checkError.String(), Detail: err.Error()}
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return doctorCheck{Name: "config", Status: checkOK.String(), Detail: "no config file (defaults in effect)"}
	}
	return doctorCheck{Name: "config", Status: checkOK.String(), Detail: path}
}

func checkEnvironment() doctorCheck {
	var missing []string
	for _, key := range []string{identity.EnvAgentID, identity.EnvAgentType, identity.EnvPort} {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return doctorCheck{Name: "environment", Status: checkOK.String(), Detail: "identity variables set"}
	}
	return doctorCheck{
		Name:   "environment",
		Status: checkWarn.String(),
		Detail: strings.Join(missing, ", ") + " not set (registry scan will be used)",
	}
}

func checkRegistry() doctorCheck {
	reg := openRegistry()
	if _, err := os.Stat(reg.Dir()); os.IsNotExist(err) {
		return doctorCheck{Name: "registry", Status: checkWarn.String(), Detail: reg.Dir() + " does not exist"}
	}
	records, skipped, err := reg.List()
	if err != nil {
		return doctorCheck{Name: "registry", Status: checkError.String(), Detail: err.Error()}
	}
	detail := fmt.Sprintf("%s in %s", output.CountStr(len(records), "agent", "agents"), reg.Dir())
	if skipped > 0 {
		detail += fmt.Sprintf(" (%d malformed)", skipped)
	}
	if len(records) == 0 {
		return doctorCheck{Name: "registry", Status: checkWarn.String(), Detail: detail}
	}
	return doctorCheck{Name: "registry", Status: checkOK.String(), Detail: detail}
}

func checkParentPID() doctorCheck {
	ppid := os.Getppid()
	rec, ok := openRegistry().FindByPID(ppid)
	if !ok {
		return doctorCheck{
			Name:   "parent pid",
			Status: checkWarn.String(),
			Detail: fmt.Sprintf("no registry record for pid %d", ppid),
		}
	}
	return doctorCheck{
		Name:   "parent pid",
		Status: checkOK.String(),
		Detail: fmt.Sprintf("pid %d → %s", ppid, rec.DisplayName()),
	}
}

func checkIdentity() doctorCheck {
	id, err := resolveIdentity()
	if err != nil {
		return doctorCheck{
			Name:   "identity",
			Status: checkError.String(),
			Detail: "unresolvable: set the environment variables or start via synapse",
		}
	}
	return doctorCheck{
		Name:   "identity",
		Status: checkOK.String(),
		Detail: fmt.Sprintf("%s (%s) port %d", id.DisplayName(), id.AgentType, id.Port),
	}
}

func checkTemplate() doctorCheck {
	candidates := templateLoader().Probe()
	invalid := 0
	for _, c := range candidates {
		switch c.State {
		case templates.CandidateOK:
			return doctorCheck{Name: "template", Status: checkOK.String(), Detail: c.Path}
		case templates.CandidateInvalid, templates.CandidateUnreadable:
			invalid++
		}
	}
	detail := "no default.md found (builtin fallback active)"
	if invalid > 0 {
		detail = fmt.Sprintf("no usable default.md (%d unreadable or invalid)", invalid)
	}
	return doctorCheck{Name: "template", Status: checkWarn.String(), Detail: detail}
}

func checkProvider(ctx context.Context) doctorCheck {
	client := synapseClient()
	if !client.IsInstalled() {
		return doctorCheck{
			Name:   "synapse",
			Status: checkWarn.String(),
			Detail: fmt.Sprintf("binary %q not on PATH (template/builtin fallback active)", cfg.Synapse.Binary),
		}
	}
	if _, err := client.Settings(ctx); err != nil {
		return doctorCheck{
			Name:   "synapse",
			Status: checkWarn.String(),
			Detail: "installed, but settings not loadable",
		}
	}
	return doctorCheck{Name: "synapse", Status: checkOK.String(), Detail: "installed, settings loadable"}
}

func renderDoctorReport(checks []doctorCheck, summary doctorSummary) {
	t := theme.Current()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	okStyle := lipgloss.NewStyle().Foreground(t.Success)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning)
	errorStyle := lipgloss.NewStyle().Foreground(t.Error)
	mutedStyle := lipgloss.NewStyle().Foreground(t.Overlay)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Overlay).
		Padding(0, 1)

	// Pad before styling so escape sequences do not skew the columns.
	statusIcon := func(status string) string {
		switch status {
		case checkOK.String():
			return okStyle.Render(fmt.Sprintf("%-7s", "✓ OK"))
		case checkWarn.String():
			return warnStyle.Render(fmt.Sprintf("%-7s", "⚠ WARN"))
		default:
			return errorStyle.Render(fmt.Sprintf("%-7s", "✗ ERROR"))
		}
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("reinst environment"))
	fmt.Println()

	header := fmt.Sprintf("%-12s │ %-7s │ %s", "Check", "Status", "Detail")
	fmt.Println(mutedStyle.Render(header))
	fmt.Println(mutedStyle.Render(strings.Repeat("─", 70)))

	for _, c := range checks {
		fmt.Printf("%-12s │ %s │ %s\n", c.Name, statusIcon(c.Status), c.Detail)
	}

	fmt.Println()
	overall := fmt.Sprintf("Overall: %d ok, %d %s, %d %s",
		summary.OK,
		summary.Warning, output.Pluralize(summary.Warning, "warning", "warnings"),
		summary.Error, output.Pluralize(summary.Error, "error", "errors"))
	fmt.Println(boxStyle.Render(overall))
	fmt.Println()
}
