package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatString(t *testing.T) {
	if FormatText.String() != "text" {
		t.Errorf("FormatText.String() = %q", FormatText.String())
	}
	if FormatJSON.String() != "json" {
		t.Errorf("FormatJSON.String() = %q", FormatJSON.String())
	}
}

func TestDetectFormat(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("REINST_OUTPUT_FORMAT", "text")
		if got := DetectFormat(true); got != FormatJSON {
			t.Errorf("DetectFormat(true) = %v, want JSON", got)
		}
	})

	t.Run("env variable", func(t *testing.T) {
		t.Setenv("REINST_OUTPUT_FORMAT", "json")
		if got := DetectFormat(false); got != FormatJSON {
			t.Errorf("DetectFormat(false) with env json = %v, want JSON", got)
		}
	})

	t.Run("unknown env value is ignored", func(t *testing.T) {
		t.Setenv("REINST_OUTPUT_FORMAT", "yaml")
		if got := DetectFormat(false); got != FormatText {
			t.Errorf("DetectFormat(false) with env yaml = %v, want Text", got)
		}
	})

	t.Run("default is text even when piped", func(t *testing.T) {
		// Test binaries never run attached to a TTY, so this asserts the
		// no-pipe-detection contract directly.
		t.Setenv("REINST_OUTPUT_FORMAT", "")
		if got := DetectFormat(false); got != FormatText {
			t.Errorf("DetectFormat(false) = %v, want Text", got)
		}
	})
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithJSON(true), WithWriter(&buf))

	if !f.IsJSON() {
		t.Fatal("IsJSON() = false after WithJSON(true)")
	}

	if err := f.JSON(map[string]string{"agent_id": "a1"}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["agent_id"] != "a1" {
		t.Errorf("decoded = %v", decoded)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("pretty output is not indented")
	}
}

func TestFormatterJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithJSON(true), WithWriter(&buf), WithPretty(false))

	if err := f.JSON(map[string]int{"port": 8100}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"port":8100}` {
		t.Errorf("compact output = %q", got)
	}
}

func TestFormatterText(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithWriter(&buf))

	f.Textln("agent %s", "a1")
	f.Line()
	f.Printf("port %d", 8100)
	f.Text(" role %s", "reviewer")
	f.Println()

	want := "agent a1\n\nport 8100 role reviewer\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "AGENT", "TYPE", "PORT")
	tbl.AddRow("synapse-solo-claude-1", "claude", "8100")
	tbl.AddRow("a2", "gemini", "8200")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("table has %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "AGENT") || !strings.Contains(lines[0], "PORT") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "-----") {
		t.Errorf("separator = %q", lines[1])
	}

	// TYPE column must start at the same offset in every row.
	col := strings.Index(lines[0], "TYPE")
	if strings.Index(lines[2], "claude") != col {
		t.Errorf("claude misaligned:\n%s", buf.String())
	}
	if strings.Index(lines[3], "gemini") != col {
		t.Errorf("gemini misaligned:\n%s", buf.String())
	}
}

func TestTable_ShortRow(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	tbl.AddRow("only")
	tbl.Render()

	if !strings.Contains(buf.String(), "only") {
		t.Errorf("short row missing:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exact fit!", 10, "exact fit!"},
		{"this is too long", 10, "this is..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "agent", "agents"); got != "agent" {
		t.Errorf("Pluralize(1) = %q", got)
	}
	if got := Pluralize(3, "agent", "agents"); got != "agents" {
		t.Errorf("Pluralize(3) = %q", got)
	}
	if got := CountStr(0, "agent", "agents"); got != "0 agents" {
		t.Errorf("CountStr(0) = %q", got)
	}
}
