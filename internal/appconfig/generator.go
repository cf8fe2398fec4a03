package appconfig

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generator is a normalized code generation target.
type Generator struct {
	Name string `json:"name" yaml:"name" toml:"name"`

	// Targets are the file or directory paths the generator writes into.
	Targets []string `json:"targets" yaml:"targets" toml:"targets"`

	// Files optionally restricts the generated files copied into each target.
	// Nil means every generated file.
	Files []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`

	// Attributes are the effective attributes after override and rule merging.
	Attributes map[string]any `json:"attributes" yaml:"attributes" toml:"attributes"`
}

// GeneratorSpec is the decoded raw specification of a generator. Exactly one
// of the concrete types below is produced by DecodeGeneratorSpec.
type GeneratorSpec interface {
	targets() []string
	files() []string
}

// TargetList is a sequence of target paths:
//
//	play_2_x_routes: [conf/routes, conf/routes.bak]
type TargetList []string

// SingleTarget is one target path written as a plain string:
//
//	play_2_x_routes: conf/routes
type SingleTarget string

// TargetOnly is a mapping with a target and no files filter:
//
//	play_2_x_routes:
//	  target: conf/routes
type TargetOnly struct {
	Target string
}

// TargetWithFiles restricts the copied files to a list:
//
//	play_2_6_client:
//	  target: app/clients
//	  files: [Client.scala, Mock.scala]
type TargetWithFiles struct {
	Target string
	Files  []string
}

// TargetWithFile restricts the copied files to a single name:
//
//	play_2_6_client:
//	  target: app/clients
//	  files: Client.scala
type TargetWithFile struct {
	Target string
	File   string
}

func (s TargetList) targets() []string { return slices.Clone(s) }
func (s TargetList) files() []string   { return nil }

func (s SingleTarget) targets() []string { return []string{string(s)} }
func (s SingleTarget) files() []string   { return nil }

func (s TargetOnly) targets() []string { return []string{s.Target} }
func (s TargetOnly) files() []string   { return nil }

func (s TargetWithFiles) targets() []string { return []string{s.Target} }
func (s TargetWithFiles) files() []string   { return slices.Clone(s.Files) }

func (s TargetWithFile) targets() []string { return []string{s.Target} }
func (s TargetWithFile) files() []string   { return []string{s.File} }

// specError describes a shape mismatch. The caller adds the generator name
// and file path; errors.Is matches ErrMalformedGeneratorSpec.
type specError string

func (e specError) Error() string { return string(e) }
func (e specError) Unwrap() error { return ErrMalformedGeneratorSpec }

func specErrorf(format string, args ...any) error {
	return specError(fmt.Sprintf(format, args...))
}

// DecodeGeneratorSpec inspects the shape of a raw generator specification.
// Mappings may carry other keys (generator, attributes) which are ignored here.
func DecodeGeneratorSpec(n *yaml.Node) (GeneratorSpec, error) {
	n = deref(n)
	if isNull(n) {
		return nil, specErrorf("specification is empty")
	}

	switch n.Kind {
	case yaml.SequenceNode:
		list, err := stringList(n, "targets")
		if err != nil {
			return nil, err
		}
		return TargetList(list), nil

	case yaml.ScalarNode:
		s, ok := stringValue(n)
		if !ok {
			return nil, specErrorf("expected a target path, got %s", n.ShortTag())
		}
		if err := checkPath("target", s); err != nil {
			return nil, err
		}
		return SingleTarget(s), nil

	case yaml.MappingNode:
		target, ok := stringValue(lookup(n, "target"))
		if !ok {
			return nil, specErrorf("target must be a string")
		}
		if err := checkPath("target", target); err != nil {
			return nil, err
		}

		files := lookup(n, "files")
		switch {
		case isNull(files):
			return TargetOnly{Target: target}, nil
		case files.Kind == yaml.SequenceNode:
			list, err := stringList(files, "files")
			if err != nil {
				return nil, err
			}
			return TargetWithFiles{Target: target, Files: list}, nil
		default:
			file, ok := stringValue(files)
			if !ok {
				return nil, specErrorf("files must be a string or a list of strings")
			}
			if err := checkPath("files", file); err != nil {
				return nil, err
			}
			return TargetWithFile{Target: target, File: file}, nil
		}
	}

	return nil, specErrorf("expected a string, a list of strings or a mapping")
}

func stringList(n *yaml.Node, field string) ([]string, error) {
	if len(n.Content) == 0 {
		return nil, specErrorf("%s must not be empty", field)
	}
	out := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		s, ok := stringValue(item)
		if !ok {
			return nil, specErrorf("%s[%d] must be a string", field, i)
		}
		if err := checkPath(field, s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func checkPath(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return specErrorf("%s must not be blank", field)
	}
	return nil
}

// NewGenerator builds a Generator from a decoded specification and its
// effective attributes.
func NewGenerator(name string, spec GeneratorSpec, attributes map[string]any) (Generator, error) {
	if strings.TrimSpace(name) == "" {
		return Generator{}, ErrInvalidGeneratorName
	}
	if spec == nil {
		return Generator{}, specErrorf("specification is empty")
	}
	if attributes == nil {
		attributes = map[string]any{}
	}
	return Generator{
		Name:       name,
		Targets:    spec.targets(),
		Files:      spec.files(),
		Attributes: attributes,
	}, nil
}
