package commands

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

// Terminal styles. fatih/color disables them when output is not a TTY or
// NO_COLOR is set.
var (
	styleHeader = color.New(color.Bold).SprintFunc()
	styleTitle  = color.New(color.FgCyan, color.Bold).SprintFunc()
	styleName   = color.New(color.FgGreen).SprintFunc()
	styleDim    = color.New(color.FgHiBlack).SprintFunc()
	styleWarn   = color.New(color.FgYellow).SprintFunc()
)

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// orDash returns "-" for empty lists.
func orDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// writeJSON encodes v with two-space indentation.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}
