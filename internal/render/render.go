// Package render encodes values for command output as YAML, JSON or TOML.
package render

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/apibuilder/apibuilder-cli/internal/errors"
	"github.com/apibuilder/apibuilder-cli/pkg/fileutil"
)

// Format is an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings for flag help.
func Formats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML)}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.NewUserError(
		errors.Newf("unknown format %q (want one of %s)", s, strings.Join(Formats(), ", ")), "")
}

// Marshal encodes v in the given format.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshaling json")
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return nil, errors.Wrap(err, "marshaling toml")
		}
		return buf.Bytes(), nil
	default:
		return fileutil.MarshalYAML(v)
	}
}

// Write encodes v to w.
func Write(w io.Writer, v any, format Format) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
