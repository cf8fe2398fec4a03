package appconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/apibuilder/apibuilder-cli/pkg/fileutil"
)

// defaultFilePerm is used when saving a document whose file no longer exists.
const defaultFilePerm = 0o644

// Document owns the raw YAML tree of a project config file. It is the only
// type that writes the file back to disk.
type Document struct {
	path string
	doc  *yaml.Node
}

// Load reads and parses the config file at path.
func Load(path string) (*Document, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrConfigNotFound, "apibuilder application config file[%s] not found", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Parse(path, data)
}

// Parse parses raw YAML that was read from path. An empty document is
// treated as an empty mapping.
func Parse(path string, data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing YAML file at %s", path), ErrParse)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}

	root := doc.Content[0]
	if isNull(root) {
		doc.Content[0] = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	} else if !isMapping(root) {
		return nil, errors.Wrapf(ErrMalformedDocument, "file[%s] top level must be a mapping", path)
	}

	return &Document{path: path, doc: &doc}, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

func (d *Document) root() *yaml.Node {
	return deref(d.doc.Content[0])
}

// Config walks the raw document and builds the validated model.
func (d *Document) Config() (*Config, error) {
	root := d.root()

	settings, err := parseSettingsSection(lookup(root, "settings"))
	if err != nil {
		return nil, errors.Wrapf(err, "file[%s]", d.path)
	}

	rules, err := parseGeneratorAttributes(d.path, lookup(root, "attributes"))
	if err != nil {
		return nil, err
	}

	code, err := d.code(lookup(root, "code"), rules)
	if err != nil {
		return nil, err
	}

	return &Config{
		Path:       d.path,
		ProjectDir: ProjectDir(d.path),
		Settings:   settings,
		Attributes: rules,
		Code:       code,
	}, nil
}

func (d *Document) code(section *yaml.Node, rules []GeneratorAttribute) (Code, error) {
	if isNull(section) {
		return Code{}, nil
	}
	if !isMapping(section) {
		return Code{}, errors.Wrapf(ErrMalformedDocument,
			"file[%s] code must be a mapping of organization to projects", d.path)
	}

	var projects []Project
	for _, orgEntry := range pairs(section) {
		org := orgEntry.Key.Value
		if isNull(orgEntry.Value) {
			continue
		}
		if !isMapping(orgEntry.Value) {
			return Code{}, errors.Wrapf(ErrMalformedDocument,
				"file[%s] code.%s must be a mapping of project name to settings", d.path, org)
		}
		for _, projectEntry := range pairs(orgEntry.Value) {
			p, err := d.project(org, projectEntry.Key.Value, projectEntry.Value, rules)
			if err != nil {
				return Code{}, err
			}
			projects = append(projects, p)
		}
	}
	return Code{Projects: projects}, nil
}

func (d *Document) project(org, name string, data *yaml.Node, rules []GeneratorAttribute) (Project, error) {
	projectErr := func(err error) error {
		return &ProjectError{Path: d.path, Org: org, Project: name, Err: err}
	}

	if !isNull(data) && !isMapping(data) {
		return Project{}, projectErr(ErrMalformedDocument)
	}

	version, _ := scalarText(lookup(data, "version"))
	if strings.TrimSpace(version) == "" {
		return Project{}, projectErr(ErrMissingVersion)
	}

	var generators []Generator
	raw := lookup(data, "generators")
	switch {
	case isNull(raw):
		return Project{}, projectErr(ErrMissingGenerators)

	case raw.Kind == yaml.MappingNode:
		for _, entry := range pairs(raw) {
			g, err := d.generator(org, name, entry.Key.Value, entry.Value, ResolveAttributes(entry.Key.Value, rules, nil))
			if err != nil {
				return Project{}, err
			}
			generators = append(generators, g)
		}

	case raw.Kind == yaml.SequenceNode:
		for i, item := range raw.Content {
			item = deref(item)
			if !isMapping(item) {
				return Project{}, &GeneratorError{
					Path: d.path, Org: org, Project: name, Generator: fmt.Sprintf("#%d", i),
					Reason: "list entries must be mappings with a generator key",
					Err:    ErrMalformedGeneratorSpec,
				}
			}
			genName, _ := stringValue(lookup(item, "generator"))
			override, ok, err := decodeMap(lookup(item, "attributes"))
			if err != nil || !ok {
				reason := "attributes must be a mapping"
				if err != nil {
					reason = err.Error()
				}
				return Project{}, &GeneratorError{
					Path: d.path, Org: org, Project: name, Generator: genName,
					Reason: reason, Err: ErrInvalidAttributes,
				}
			}
			g, err := d.generator(org, name, genName, item, ResolveAttributes(genName, rules, override))
			if err != nil {
				return Project{}, err
			}
			generators = append(generators, g)
		}

	default:
		return Project{}, projectErr(ErrMissingGenerators)
	}

	p, err := NewProject(org, name, version, generators)
	if err != nil {
		var pe *ProjectError
		if errors.As(err, &pe) {
			pe.Path = d.path
		}
		return Project{}, err
	}
	return p, nil
}

func (d *Document) generator(org, project, name string, raw *yaml.Node, attrs map[string]any) (Generator, error) {
	genErr := func(err error, reason string) error {
		return &GeneratorError{
			Path: d.path, Org: org, Project: project, Generator: name,
			Reason: reason, Err: err,
		}
	}

	if strings.TrimSpace(name) == "" {
		return Generator{}, genErr(ErrInvalidGeneratorName, "name must be a non-empty string")
	}
	spec, err := DecodeGeneratorSpec(raw)
	if err != nil {
		return Generator{}, genErr(ErrMalformedGeneratorSpec, err.Error())
	}
	g, err := NewGenerator(name, spec, attrs)
	if err != nil {
		return Generator{}, genErr(err, "")
	}
	return g, nil
}

// SetVersion overwrites the version of code.<org>.<project> in the raw
// document. The model returned by Config before the call is not updated;
// call Save to persist and Config again for a fresh view.
func (d *Document) SetVersion(org, project, version string) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return ErrEmptyVersion
	}

	entry := lookup(lookup(lookup(d.root(), "code"), org), project)
	if !isMapping(entry) {
		return &ProjectError{Path: d.path, Org: org, Project: project, Err: ErrProjectNotFound}
	}
	setString(entry, "version", version)
	return nil
}

// Save rewrites the whole file from the raw document, keeping the existing
// file permissions.
func (d *Document) Save() error {
	perm := os.FileMode(defaultFilePerm)
	if info, err := os.Stat(d.path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.AtomicWriteYAML(d.path, d.doc, perm); err != nil {
		return errors.Wrapf(err, "saving %s", d.path)
	}
	return nil
}
