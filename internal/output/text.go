package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Text outputs plain text to the formatter's writer
func (f *Formatter) Text(format string, args ...interface{}) {
	fmt.Fprintf(f.writer, format, args...)
}

// Textln outputs plain text with a newline to the formatter's writer
func (f *Formatter) Textln(format string, args ...interface{}) {
	fmt.Fprintf(f.writer, format+"\n", args...)
}

// Line outputs a blank line
func (f *Formatter) Line() {
	fmt.Fprintln(f.writer)
}

// Println writes text with newline to the formatter's writer
func (f *Formatter) Println(v ...interface{}) {
	fmt.Fprintln(f.writer, v...)
}

// Printf writes formatted text to the formatter's writer
func (f *Formatter) Printf(format string, v ...interface{}) {
	fmt.Fprintf(f.writer, format, v...)
}

// Table outputs tabular data in text format.
// Column widths use display width so wide characters stay aligned.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with headers
func NewTable(w io.Writer, headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	return &Table{
		writer:  w,
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cols ...string) {
	for i, c := range cols {
		if i < len(t.widths) {
			if w := runewidth.StringWidth(c); w > t.widths[i] {
				t.widths[i] = w
			}
		}
	}
	t.rows = append(t.rows, cols)
}

// Render outputs the table
func (t *Table) Render() {
	t.printRow(t.headers)

	seps := make([]string, len(t.widths))
	for i, w := range t.widths {
		seps[i] = strings.Repeat("-", w)
	}
	t.printRow(seps)

	for _, row := range t.rows {
		t.printRow(row)
	}
}

func (t *Table) printRow(cols []string) {
	var b strings.Builder
	b.WriteString("  ")
	for i := range t.headers {
		c := ""
		if i < len(cols) {
			c = cols[i]
		}
		b.WriteString(c)
		// Last column is left unpadded to avoid trailing spaces
		if i < len(t.headers)-1 {
			pad := t.widths[i] - runewidth.StringWidth(c)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(strings.Repeat(" ", pad+2))
		}
	}
	b.WriteString("\n")
	fmt.Fprint(t.writer, b.String())
}

// Truncate truncates a string to max display width, adding "..." if needed
func Truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

// Pluralize returns singular or plural form based on count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// CountStr returns "N item(s)" string
func CountStr(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, singular, plural))
}
