// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

// YAMLIndent is the indentation used when encoding YAML documents.
const YAMLIndent = 2

// AtomicWriteFile writes data to path atomically: the content goes to a temp
// file in the same directory, is fsynced, and is then renamed over path.
// Interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithStaticPermissions(perm))
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer pending.Cleanup() //nolint:errcheck // no-op after a successful replace

	if _, err := pending.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(err, "replacing file")
	}
	return nil
}

// MarshalYAML encodes v (a value or a *yaml.Node) with the standard indent.
func MarshalYAML(v any) (data []byte, err error) {
	// yaml encoders panic on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(YAMLIndent)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "flushing YAML")
	}
	return buf.Bytes(), nil
}

// AtomicWriteYAML writes v as YAML to path atomically with the given permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteYAML(path string, v any, perm os.FileMode) error {
	data, err := MarshalYAML(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as two-space indented JSON with a trailing newline.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), perm)
}
