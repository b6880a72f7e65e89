package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the config directory searched for instruction templates.
	DirName = ".synapse"
	// DefaultFileName is the instruction template file name.
	DefaultFileName = "default.md"
)

// TemplateNotFoundError is returned when no search location holds a usable
// template file.
type TemplateNotFoundError struct {
	Searched []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no %s found (searched %s)", DefaultFileName, strings.Join(e.Searched, ", "))
}

// SearchDirs returns the template search order for cwd: the working
// directory's .synapse, then the home .synapse, then any extra directories.
// Extras are used as given; callers expand ~ before passing them in.
func SearchDirs(cwd string, extras []string) []string {
	var dirs []string
	if cwd != "" {
		dirs = append(dirs, filepath.Join(cwd, DirName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, DirName))
	}
	dirs = append(dirs, extras...)
	return dirs
}

// Loader resolves the instruction template from an ordered directory list.
// The first directory holding a readable, parseable default.md wins.
type Loader struct {
	dirs []string
}

// NewLoader creates a loader over the given search directories.
func NewLoader(dirs []string) *Loader {
	return &Loader{dirs: dirs}
}

// Dirs returns the search order.
func (l *Loader) Dirs() []string {
	return l.dirs
}

// Load returns the first usable template. Missing, unreadable, and
// unparseable candidates are skipped; if every location fails the error is a
// *TemplateNotFoundError listing what was searched.
func (l *Loader) Load() (*Template, error) {
	searched := make([]string, 0, len(l.dirs))
	for _, dir := range l.dirs {
		path := filepath.Join(dir, DefaultFileName)
		searched = append(searched, path)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		tmpl, err := Parse(string(data))
		if err != nil {
			continue
		}
		tmpl.Path = path
		return tmpl, nil
	}
	return nil, &TemplateNotFoundError{Searched: searched}
}

// CandidateState classifies one search location.
type CandidateState int

const (
	CandidateMissing CandidateState = iota
	CandidateUnreadable
	CandidateInvalid
	CandidateOK
)

func (s CandidateState) String() string {
	switch s {
	case CandidateMissing:
		return "missing"
	case CandidateUnreadable:
		return "unreadable"
	case CandidateInvalid:
		return "invalid"
	case CandidateOK:
		return "ok"
	default:
		return "unknown"
	}
}

// Candidate reports the state of one search location.
type Candidate struct {
	Path  string         `json:"path"`
	State CandidateState `json:"-"`
}

// Probe inspects every search location without stopping at the first hit.
// Diagnostic commands use it to show where a template would load from and
// why other candidates lose.
func (l *Loader) Probe() []Candidate {
	candidates := make([]Candidate, 0, len(l.dirs))
	for _, dir := range l.dirs {
		path := filepath.Join(dir, DefaultFileName)
		c := Candidate{Path: path}
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			c.State = CandidateMissing
		case err != nil:
			c.State = CandidateUnreadable
		default:
			if _, perr := Parse(string(data)); perr != nil {
				c.State = CandidateInvalid
			} else {
				c.State = CandidateOK
			}
		}
		candidates = append(candidates, c)
	}
	return candidates
}
