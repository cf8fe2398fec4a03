package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/apibuilder/apibuilder-cli/internal/appconfig"
)

var projects = []appconfig.Project{
	{Org: "acme", Name: "svc", Version: "1.0.0", Generators: []appconfig.Generator{{Name: "play", Targets: []string{"app"}}}},
	{Org: "acme", Name: "billing", Version: "latest"},
	{Org: "other", Name: "web", Version: "2.0"},
}

func keys(ps []appconfig.Project) string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Key())
	}
	return strings.Join(out, " ")
}

func TestSelectProjects_EmptyList(t *testing.T) {
	t.Parallel()

	s := NewSelectorWithIO(strings.NewReader(""), io.Discard)
	if _, err := s.SelectProjects(nil); !errors.Is(err, ErrNoProjects) {
		t.Fatalf("expected ErrNoProjects, got %v", err)
	}
}

func TestSelectProjects_SingleProject(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	got, err := s.SelectProjects(projects[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys(got) != "acme/svc" {
		t.Errorf("got %q", keys(got))
	}
	if buf.Len() > 0 {
		t.Errorf("expected no output for a single project, got: %s", buf.String())
	}
}

func TestSelectProjects_ValidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"default on empty", "\n", "acme/svc"},
		{"explicit second", "2\n", "acme/billing"},
		{"whitespace trimmed", "  3  \n", "other/web"},
		{"several in file order", "3,1\n", "acme/svc other/web"},
		{"duplicates collapsed", "2 2\n", "acme/billing"},
		{"all", "*\n", "acme/svc acme/billing other/web"},
		{"no trailing newline", "2", "acme/billing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSelectorWithIO(strings.NewReader(tt.input), io.Discard)
			got, err := s.SelectProjects(projects)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if keys(got) != tt.want {
				t.Errorf("SelectProjects() = %q, want %q", keys(got), tt.want)
			}
		})
	}
}

func TestSelectProjects_InvalidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"too low", "0\n", "out of range"},
		{"too high", "4\n", "out of range"},
		{"negative", "-1\n", "out of range"},
		{"not a number", "abc\n", "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSelectorWithIO(strings.NewReader(tt.input), io.Discard)
			_, err := s.SelectProjects(projects)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("expected ErrInvalidSelection, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestSelectProjects_Cancelled(t *testing.T) {
	t.Parallel()

	s := NewSelectorWithIO(&eofReader{}, io.Discard)
	if _, err := s.SelectProjects(projects); !errors.Is(err, ErrSelectionCancelled) {
		t.Fatalf("expected ErrSelectionCancelled, got %v", err)
	}
}

func TestSelectProjects_OutputFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader("1\n"), &buf)
	if _, err := s.SelectProjects(projects); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"Projects:", "[1] acme/svc (1.0.0)", "[3] other/web (2.0)", "Select [1]:"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output: %s", want, output)
		}
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(projects[0])
	if !strings.Contains(got, "Version:      1.0.0") || !strings.Contains(got, "play -> app") {
		t.Errorf("Describe() = %q", got)
	}
}

func TestFuzzySelectProjects_Empty(t *testing.T) {
	if _, err := FuzzySelectProjects(nil); !errors.Is(err, ErrNoProjects) {
		t.Fatalf("expected ErrNoProjects, got %v", err)
	}
}

// eofReader simulates immediate EOF (like Ctrl+D).
type eofReader struct{}

func (r *eofReader) Read(_ []byte) (int, error) {
	return 0, io.EOF
}
