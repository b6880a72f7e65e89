package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/reinst/internal/output"
	"github.com/Dicklesworthstone/reinst/internal/tui/theme"
	"github.com/Dicklesworthstone/reinst/internal/watcher"
)

func newPreviewCmd() *cobra.Command {
	var (
		raw         bool
		watch       bool
		showDiff    bool
		skipSynapse bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the instruction for human reading",
		Long: `Resolve the instruction exactly like the root command, then render it as
markdown for reading instead of piping.

With --watch the preview re-renders whenever the template search directories
or the agent registry change, which makes editing default.md a live loop.

Examples:
  reinst preview                  # Rendered instruction
  reinst preview --raw            # Skip markdown rendering
  reinst preview --no-provider    # Force the template tier while editing
  reinst preview --watch --diff   # Re-render on change, show what changed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveIdentity()
			if err != nil {
				return identityError(err)
			}

			chain := instructionChain(skipSynapse)
			res, err := chain.Resolve(cmd.Context(), id)
			if err != nil {
				return output.NoInstructionError(id.AgentType)
			}

			if watch {
				if !IsInteractive(os.Stdout) {
					return output.NotInteractiveError("preview --watch")
				}
				return watchPreview(cmd, raw, showDiff, skipSynapse, res.Text)
			}

			if jsonOutput {
				return printResolution(id, res)
			}
			printPreview(res.Text, raw)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the instruction text without markdown rendering")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render when templates or the registry change")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "With --watch, print a patch of each change")
	cmd.Flags().BoolVar(&skipSynapse, "no-provider", false, "Skip the synapse settings provider (template/builtin only)")
	return cmd
}

// printPreview writes the instruction, glamour-rendered when stdout is a
// terminal and raw was not requested.
func printPreview(text string, raw bool) {
	if raw || !IsInteractive(os.Stdout) {
		fmt.Println(text)
		return
	}
	fmt.Print(renderMarkdown(text))
}

// renderMarkdown renders markdown for the terminal. Any renderer failure
// falls back to the raw text; the preview must never lose content.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		return text + "\n"
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return rendered
}

// terminalWidth returns the stdout width for word wrapping, capped for
// readability, with a default for non-terminals.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	if width > 120 {
		width = 120
	}
	return width
}

// watchPreview re-resolves and re-renders until interrupted. The initial
// text is rendered immediately; later renders only repaint when the
// resolved text actually changed.
func watchPreview(cmd *cobra.Command, raw, showDiff, skipSynapse bool, initial string) error {
	// Rebuilt per render: identity enrichment and the winning template can
	// both change while watching.
	render := func() (string, bool) {
		id, err := resolveIdentity()
		if err != nil {
			return "", false
		}
		res, err := instructionChain(skipSynapse).Resolve(cmd.Context(), id)
		if err != nil {
			return "", false
		}
		return res.Text, true
	}

	out := termenv.NewOutput(os.Stdout)
	footerStyle := lipgloss.NewStyle().Foreground(theme.Current().Overlay)

	display := func(text string, diff *output.DiffResult) {
		out.ClearScreen()
		printPreview(text, raw)
		if diff != nil && diff.Patch != "" {
			fmt.Println()
			fmt.Println(footerStyle.Render("Changed:"))
			fmt.Print(diff.Patch)
		}
		fmt.Println()
		fmt.Println(footerStyle.Render("Watching for changes. Press Ctrl+C to stop."))
	}

	events := make(chan struct{}, 1)
	w, err := watcher.New(func([]watcher.Event) {
		select {
		case events <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch directories rather than files so editor save-by-rename and a
	// default.md appearing in a higher-priority dir are both caught. Paths
	// that do not exist yet are skipped.
	for _, dir := range templateLoader().Dirs() {
		_ = w.Add(dir)
	}
	_ = w.Add(openRegistry().Dir())

	last := initial
	display(last, nil)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case <-sig:
			return nil
		case <-events:
			text, ok := render()
			if !ok || text == last {
				continue
			}
			var diff *output.DiffResult
			if showDiff {
				diff = output.ComputeDiff("instruction", last, text)
			}
			display(text, diff)
			last = text
		}
	}
}
