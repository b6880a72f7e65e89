// Package output provides unified output formatting for text and JSON output.
// All commands should use this package for consistent output across the CLI.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Format represents the output format type
type Format int

const (
	// FormatText is human-readable formatted text (default)
	FormatText Format = iota
	// FormatJSON is machine-readable JSON output
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// Formatter handles output formatting for commands
type Formatter struct {
	format Format
	writer io.Writer
	pretty bool // For JSON: whether to indent
}

// New creates a new Formatter with the given options
func New(opts ...Option) *Formatter {
	f := &Formatter{
		format: FormatText,
		writer: os.Stdout,
		pretty: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option is a functional option for Formatter
type Option func(*Formatter)

// WithJSON sets the output format to JSON
func WithJSON(enabled bool) Option {
	return func(f *Formatter) {
		if enabled {
			f.format = FormatJSON
		} else {
			f.format = FormatText
		}
	}
}

// WithWriter sets the output writer
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithPretty sets whether JSON should be indented
func WithPretty(pretty bool) Option {
	return func(f *Formatter) {
		f.pretty = pretty
	}
}

// IsJSON returns true if the output format is JSON
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// DetectFormat determines the output format based on environment.
// Priority: explicit flag > REINST_OUTPUT_FORMAT > default text.
// There is no pipe detection here: resolved instructions are normally
// consumed through a pipe, so piped stdout must stay plain text.
func DetectFormat(jsonFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}

	if envFormat := os.Getenv("REINST_OUTPUT_FORMAT"); envFormat != "" {
		switch envFormat {
		case "json", "JSON":
			return FormatJSON
		case "text", "TEXT":
			return FormatText
		}
	}

	return FormatText
}

// OutputOrText outputs JSON if in JSON mode, otherwise calls the text function
func OutputOrText(jsonMode bool, jsonData interface{}, textFn func() error) error {
	if jsonMode {
		return PrintJSON(jsonData)
	}
	return textFn()
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
