package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult describes how a rendered instruction changed between two renders
type DiffResult struct {
	Label      string  `json:"label"`
	LinesOld   int     `json:"lines_old"`
	LinesNew   int     `json:"lines_new"`
	Similarity float64 `json:"similarity"`
	Patch      string  `json:"patch,omitempty"`
}

// ComputeDiff compares two renders of an instruction
func ComputeDiff(label, oldText, newText string) *DiffResult {
	dmp := diffmatchpatch.New()

	// Character-based diff for precision
	diffs := dmp.DiffMain(oldText, newText, true)

	// Compute similarity (0-1)
	dist := dmp.DiffLevenshtein(diffs)
	maxLen := len(oldText)
	if len(newText) > maxLen {
		maxLen = len(newText)
	}
	similarity := 0.0
	if maxLen > 0 {
		similarity = 1.0 - (float64(dist) / float64(maxLen))
	}

	patches := dmp.PatchMake(oldText, diffs)
	unified := dmp.PatchToText(patches)

	return &DiffResult{
		Label:      label,
		LinesOld:   len(strings.Split(oldText, "\n")),
		LinesNew:   len(strings.Split(newText, "\n")),
		Similarity: similarity,
		Patch:      unified,
	}
}
