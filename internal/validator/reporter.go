package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", errors.Newf("unknown report format %q (want text or json)", s)
}

// maxValueWidth truncates long values in text reports.
const maxValueWidth = 60

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// jsonReport is the JSON shape of a Result.
type jsonReport struct {
	Path   string  `json:"path,omitempty"`
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	issues := result.Issues
	if issues == nil {
		issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(jsonReport{
		Path:   result.Path,
		Valid:  result.Valid(),
		Issues: issues,
	}), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warnings := result.Warnings()
	infos := result.Infos()

	if len(errs) == 0 {
		name := result.Path
		if name == "" {
			name = "configuration"
		}
		fmt.Fprintln(r.out, color.GreenString("✓ %s is valid", name))
	} else {
		summary := []string{color.RedString("%d error(s)", len(errs))}
		if len(warnings) > 0 {
			summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
		}
		fmt.Fprintf(r.out, "Validation failed: %s\n", strings.Join(summary, ", "))
		if result.Path != "" {
			fmt.Fprintf(r.out, "File: %s\n", result.Path)
		}
	}

	r.section("Errors:", errs, color.FgRed)
	r.section("Warnings:", warnings, color.FgYellow)
	r.section("Notes:", infos, color.FgCyan)
	return nil
}

func (r *Reporter) section(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, title)
	for _, i := range issues {
		r.printIssue(i, c)
	}
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	// Format:  • field: message (context) [value]
	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		var parts []string
		for k, v := range i.Context {
			if v == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(parts)
		if len(parts) > 0 {
			sb.WriteString(" ")
			sb.WriteString(dim.Sprintf("(%s)", strings.Join(parts, ", ")))
		}
	}

	if i.Value != nil {
		val := fmt.Sprintf("%v", i.Value)
		if len(val) > maxValueWidth {
			val = val[:maxValueWidth-3] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", val))
	}

	fmt.Fprintln(r.out, sb.String())
}
