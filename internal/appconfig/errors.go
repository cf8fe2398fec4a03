package appconfig

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Discovery and load failures. All of them are terminal for a normal run.
var (
	// ErrConfigNotFound indicates no project config exists in the working
	// directory or the repository root.
	ErrConfigNotFound = errors.New("could not find apibuilder configuration file")

	// ErrNotARepository indicates discovery resolved to the user-level
	// config, which must never be treated as a project config.
	ErrNotARepository = errors.New("not inside a repository")

	// ErrParse indicates the file is not valid YAML.
	ErrParse = errors.New("invalid YAML")

	// ErrMalformedDocument indicates a top-level section has the wrong shape.
	ErrMalformedDocument = errors.New("malformed configuration document")

	ErrMissingVersion         = errors.New("missing version")
	ErrMissingGenerators      = errors.New("missing generators")
	ErrNoGeneratorsDefined    = errors.New("must have at least one generator")
	ErrMalformedGeneratorSpec = errors.New("malformed generator specification")
	ErrInvalidGeneratorName   = errors.New("invalid generator name")
	ErrInvalidAttributes      = errors.New("invalid generator attributes")
	ErrInvalidSettings        = errors.New("invalid settings")
)

// Mutation failures, returned to the caller rather than terminating.
var (
	ErrEmptyVersion    = errors.New("version missing")
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectError reports a problem with one code.<org>.<project> entry.
type ProjectError struct {
	Path    string
	Org     string
	Project string
	Err     error
}

func (e *ProjectError) Error() string {
	msg := fmt.Sprintf("%s for org[%s] project[%s]", e.Err, e.Org, e.Project)
	if e.Path == "" {
		return msg
	}
	return fmt.Sprintf("file[%s] %s", e.Path, msg)
}

func (e *ProjectError) Unwrap() error {
	return e.Err
}

// GeneratorError reports a generator entry that could not be decoded.
type GeneratorError struct {
	Path      string
	Org       string
	Project   string
	Generator string
	Reason    string
	Err       error
}

func (e *GeneratorError) Error() string {
	msg := fmt.Sprintf("%s for generator[%s]", e.Err, e.Generator)
	if e.Org != "" || e.Project != "" {
		msg += fmt.Sprintf(" in org[%s] project[%s]", e.Org, e.Project)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Path == "" {
		return msg
	}
	return fmt.Sprintf("file[%s] %s", e.Path, msg)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

// SettingsError lists unrecognized or mistyped settings keys, sorted.
type SettingsError struct {
	Keys   []string
	Reason string
}

func (e *SettingsError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %v: %s", ErrInvalidSettings, e.Keys, e.Reason)
	}
	return fmt.Sprintf("%s: %v", ErrInvalidSettings, e.Keys)
}

func (e *SettingsError) Unwrap() error {
	return ErrInvalidSettings
}

// IsInvalid reports whether err means the file exists but its content is
// unusable, as opposed to a discovery or I/O failure.
func IsInvalid(err error) bool {
	for _, target := range []error{
		ErrParse,
		ErrMalformedDocument,
		ErrMissingVersion,
		ErrMissingGenerators,
		ErrNoGeneratorsDefined,
		ErrMalformedGeneratorSpec,
		ErrInvalidGeneratorName,
		ErrInvalidAttributes,
		ErrInvalidSettings,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
