package output

import (
	"strings"
	"testing"
)

func TestComputeDiff_Identical(t *testing.T) {
	text := "You are agent a1.\nSend messages on port 8100.\n"
	d := ComputeDiff("default.md", text, text)

	if d.Similarity != 1.0 {
		t.Errorf("Similarity = %f, want 1.0", d.Similarity)
	}
	if d.Patch != "" {
		t.Errorf("Patch = %q, want empty", d.Patch)
	}
	if d.LinesOld != d.LinesNew {
		t.Errorf("line counts differ: %d vs %d", d.LinesOld, d.LinesNew)
	}
}

func TestComputeDiff_Changed(t *testing.T) {
	oldText := "INSTRUCTION FOR AGENT a1\nROLE: scout\n"
	newText := "INSTRUCTION FOR AGENT a1\nROLE: researcher\nEXTRA LINE\n"
	d := ComputeDiff("default.md", oldText, newText)

	if d.Label != "default.md" {
		t.Errorf("Label = %q", d.Label)
	}
	if d.Similarity >= 1.0 || d.Similarity < 0 {
		t.Errorf("Similarity = %f, want in [0, 1)", d.Similarity)
	}
	if d.Patch == "" {
		t.Error("Patch is empty for changed text")
	}
	if !strings.Contains(d.Patch, "researcher") {
		t.Errorf("Patch does not mention the new text:\n%s", d.Patch)
	}
	if d.LinesNew != d.LinesOld+1 {
		t.Errorf("LinesNew = %d, LinesOld = %d", d.LinesNew, d.LinesOld)
	}
}

func TestComputeDiff_EmptyInputs(t *testing.T) {
	d := ComputeDiff("x", "", "")
	if d.Similarity != 0.0 {
		t.Errorf("Similarity for two empty strings = %f, want 0.0", d.Similarity)
	}
}
