package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/reinst/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
	Code    string // Error code for programmatic handling (optional)
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithCode adds an error code to the error.
func (e *CLIError) WithCode(code string) *CLIError {
	e.Code = code
	return e
}

// isStderrTerminal checks if stderr is a terminal (for color output).
func isStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// FormatCLIError formats a CLIError for terminal output with colors.
// Returns plain text if stderr is not a terminal or NO_COLOR is set.
func FormatCLIError(e *CLIError) string {
	useColor := isStderrTerminal() && os.Getenv("NO_COLOR") == ""

	var sb strings.Builder

	if useColor {
		t := theme.Current()
		errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
		causeStyle := lipgloss.NewStyle().Foreground(t.Subtext)
		hintStyle := lipgloss.NewStyle().Foreground(t.Info)
		codeStyle := lipgloss.NewStyle().Foreground(t.Overlay)

		sb.WriteString(errorStyle.Render("Error: "))
		sb.WriteString(e.Message)

		if e.Code != "" {
			sb.WriteString(" ")
			sb.WriteString(codeStyle.Render("[" + e.Code + "]"))
		}
		sb.WriteString("\n")

		if e.Cause != "" {
			sb.WriteString(causeStyle.Render("  Cause: "))
			sb.WriteString(e.Cause)
			sb.WriteString("\n")
		}

		if e.Hint != "" {
			sb.WriteString(hintStyle.Render("  Hint: "))
			sb.WriteString(e.Hint)
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(e.Message)
		if e.Code != "" {
			sb.WriteString(" [")
			sb.WriteString(e.Code)
			sb.WriteString("]")
		}
		sb.WriteString("\n")

		if e.Cause != "" {
			sb.WriteString("  Cause: ")
			sb.WriteString(e.Cause)
			sb.WriteString("\n")
		}

		if e.Hint != "" {
			sb.WriteString("  Hint: ")
			sb.WriteString(e.Hint)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// PrintCLIError prints a CLIError to stderr with formatting.
func PrintCLIError(e *CLIError) {
	fmt.Fprint(os.Stderr, FormatCLIError(e))
}

// PrintCLIErrorOrJSON prints a CLIError to stderr (text) or stdout (JSON).
func PrintCLIErrorOrJSON(e *CLIError, jsonMode bool) error {
	if jsonMode {
		resp := ErrorResponse{
			Error:   e.Message,
			Code:    e.Code,
			Details: e.Cause,
			Hint:    e.Hint,
		}
		return WriteJSON(os.Stdout, resp, true)
	}
	PrintCLIError(e)
	return e
}

// PrintError writes an error to stderr and returns an error for JSON mode
func PrintError(err error, jsonMode bool) error {
	if jsonMode {
		return WriteJSON(os.Stdout, NewError(err.Error()), true)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}

// Common error hints for frequent scenarios
var (
	// Identity errors
	HintStartAgent = "Start an agent with: synapse claude"

	// Template errors
	HintInitTemplate = "Run 'reinst init' to scaffold .synapse/default.md"
	HintTemplatePath = "Run 'reinst template path' to see the search order"

	// Config errors
	HintConfigInvalid = "Check syntax with 'reinst config show' or edit ~/.config/reinst/config.toml"

	// Interactivity errors
	HintNonInteractive = "Use 'reinst agents --json' when scripting"
)

// MissingIdentityError creates the error for an unresolvable agent identity.
func MissingIdentityError() *CLIError {
	return NewCLIError("synapse environment not found").
		WithCode("MISSING_IDENTITY").
		WithCause("SYNAPSE_AGENT_ID, SYNAPSE_AGENT_TYPE, and SYNAPSE_PORT are not set and no registry record matches this process").
		WithHint(HintStartAgent)
}

// NoInstructionError creates the error for an exhausted provider chain.
func NoInstructionError(agentType string) *CLIError {
	return NewCLIError(fmt.Sprintf("no instruction found for agent type '%s'", agentType)).
		WithCode("NO_INSTRUCTION").
		WithHint(HintInitTemplate)
}

// NoAgentsError creates the error for an empty or missing registry.
func NoAgentsError(dir string) *CLIError {
	return NewCLIError("no agents registered").
		WithCode("REGISTRY_NOT_FOUND").
		WithCause(fmt.Sprintf("registry %s is empty or missing", dir)).
		WithHint(HintStartAgent)
}

// TemplateNotFoundError creates the error for a failed template lookup.
func TemplateNotFoundError(searched []string) *CLIError {
	return NewCLIError("no instruction template found").
		WithCode("TEMPLATE_NOT_FOUND").
		WithCause("searched: " + strings.Join(searched, ", ")).
		WithHint(HintInitTemplate)
}

// NotInteractiveError creates the error for TUI commands run without a terminal.
func NotInteractiveError(action string) *CLIError {
	return NewCLIError(fmt.Sprintf("%s requires an interactive terminal", action)).
		WithCode("NOT_INTERACTIVE").
		WithHint(HintNonInteractive)
}

// ConfigInvalidError creates the error for a config file that fails to parse
// or validate.
func ConfigInvalidError(cause string) *CLIError {
	return NewCLIError("invalid configuration").
		WithCode("CONFIG_INVALID").
		WithCause(cause).
		WithHint(HintConfigInvalid)
}
