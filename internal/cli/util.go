package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractive returns true when the writer is a terminal.
// The picker relies on user input; in tests or piped execution it should not run.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
