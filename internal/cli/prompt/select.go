// Package prompt provides interactive project selection.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

// Sentinel errors for project selection.
var (
	ErrNoProjects         = errors.New("no projects to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector prompts for a project with a numbered list. It works on any
// reader, so it is used when no full terminal is available.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{reader: r, writer: w}
}

// SelectProjects prompts the user to choose one or more projects. The
// answer is a comma or space separated list of numbers; "*" selects every
// project and an empty answer selects the first.
//
// Returns:
//   - ErrNoProjects if the list is empty
//   - the only project if just one exists (without prompting)
//   - ErrInvalidSelection if a number is malformed or out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectProjects(projects []appconfig.Project) ([]appconfig.Project, error) {
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}
	if len(projects) == 1 {
		return projects[:1], nil
	}

	fmt.Fprintln(s.writer, "Projects:")
	for i, p := range projects {
		fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, p.Key(), p.Version)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	switch input {
	case "":
		return projects[:1], nil
	case "*":
		return projects, nil
	}

	seen := map[int]bool{}
	var picked []int
	for _, field := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", field)
		}
		if n < 1 || n > len(projects) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(projects))
		}
		if !seen[n] {
			seen[n] = true
			picked = append(picked, n-1)
		}
	}
	sort.Ints(picked)

	out := make([]appconfig.Project, 0, len(picked))
	for _, i := range picked {
		out = append(out, projects[i])
	}
	return out, nil
}

// FuzzySelectProjects opens a full-screen fuzzy finder over the projects.
// Tab marks several entries. Aborting returns ErrSelectionCancelled.
func FuzzySelectProjects(projects []appconfig.Project) ([]appconfig.Project, error) {
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}

	idxs, err := fuzzyfinder.FindMulti(
		projects,
		func(i int) string {
			return projects[i].Key()
		},
		fuzzyfinder.WithPromptString("project> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return Describe(projects[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	sort.Ints(idxs)
	out := make([]appconfig.Project, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, projects[i])
	}
	return out, nil
}

// Describe renders a project summary for previews.
func Describe(p appconfig.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Organization: %s\nProject:      %s\nVersion:      %s\n\nGenerators:\n", p.Org, p.Name, p.Version)
	for _, g := range p.Generators {
		fmt.Fprintf(&sb, "  %s -> %s\n", g.Name, strings.Join(g.Targets, ", "))
	}
	return sb.String()
}
