package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/reinst/internal/tui/theme"
)

// Suggestion represents a "what next" command suggestion
type Suggestion struct {
	Command     string // The command to run (e.g., "reinst preview")
	Description string // Brief description (e.g., "Render the new template")
}

// SuccessFooter prints a "What's next?" section with suggested commands.
// Returns without printing if stdout is not a terminal (piped output).
func SuccessFooter(suggestions ...Suggestion) {
	PrintSuccessFooter(os.Stdout, suggestions...)
}

// PrintSuccessFooter prints a "What's next?" footer to the given writer.
// Skips output if w is not a terminal or is piped.
func PrintSuccessFooter(w io.Writer, suggestions ...Suggestion) {
	if len(suggestions) == 0 {
		return
	}

	if f, ok := w.(*os.File); ok {
		if !term.IsTerminal(int(f.Fd())) {
			return
		}
	}

	useColor := IsTerminal() && os.Getenv("NO_COLOR") == ""

	fmt.Fprintln(w)

	if useColor {
		t := theme.Current()
		headerStyle := lipgloss.NewStyle().Foreground(t.Subtext).Bold(true)
		cmdStyle := lipgloss.NewStyle().Foreground(t.Info)
		descStyle := lipgloss.NewStyle().Foreground(t.Overlay)

		fmt.Fprintln(w, headerStyle.Render("What's next?"))
		for _, s := range suggestions {
			fmt.Fprintf(w, "  %s  %s\n",
				cmdStyle.Render(s.Command),
				descStyle.Render("# "+s.Description),
			)
		}
	} else {
		fmt.Fprintln(w, "What's next?")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  %s  # %s\n", s.Command, s.Description)
		}
	}
	fmt.Fprintln(w)
}

// InitSuggestions returns suggestions for after scaffolding a template
func InitSuggestions() []Suggestion {
	return []Suggestion{
		{Command: "reinst preview", Description: "Render the new template"},
		{Command: "reinst template vars", Description: "List placeholders it uses"},
	}
}

// ConfigInitSuggestions returns suggestions for after creating a config file
func ConfigInitSuggestions() []Suggestion {
	return []Suggestion{
		{Command: "reinst config show", Description: "Review the effective configuration"},
		{Command: "reinst doctor", Description: "Check the resolver environment"},
	}
}

// SuccessCheck prints a success message with a checkmark
func SuccessCheck(msg string) {
	PrintSuccessCheck(os.Stdout, msg)
}

// PrintSuccessCheck prints a success message with a checkmark to the given writer
func PrintSuccessCheck(w io.Writer, msg string) {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	}

	if useColor {
		t := theme.Current()
		checkStyle := lipgloss.NewStyle().Foreground(t.Success)
		fmt.Fprintf(w, "%s %s\n", checkStyle.Render("✓"), msg)
	} else {
		fmt.Fprintf(w, "✓ %s\n", msg)
	}
}
