package appconfig

import (
	"iter"
	"strings"
)

// Project is one organization-scoped, versioned API with its generators.
type Project struct {
	Org        string      `json:"org" yaml:"org" toml:"org"`
	Name       string      `json:"name" yaml:"name" toml:"name"`
	Version    string      `json:"version" yaml:"version" toml:"version"`
	Generators []Generator `json:"generators" yaml:"generators" toml:"generators"`
}

// NewProject validates and builds a Project. The version is trimmed.
func NewProject(org, name, version string, generators []Generator) (Project, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return Project{}, &ProjectError{Org: org, Project: name, Err: ErrMissingVersion}
	}
	if len(generators) == 0 {
		return Project{}, &ProjectError{Org: org, Project: name, Err: ErrNoGeneratorsDefined}
	}
	return Project{
		Org:        org,
		Name:       name,
		Version:    version,
		Generators: generators,
	}, nil
}

// Key returns "org/name".
func (p Project) Key() string {
	return p.Org + "/" + p.Name
}

// Generator returns the project's generator with the given name.
func (p Project) Generator(name string) (Generator, bool) {
	for _, g := range p.Generators {
		if g.Name == name {
			return g, true
		}
	}
	return Generator{}, false
}

// Code is the ordered list of projects declared in the file.
type Code struct {
	Projects []Project `json:"projects" yaml:"projects" toml:"projects"`
}

// Find returns the project for org and name.
func (c Code) Find(org, name string) (Project, bool) {
	for _, p := range c.Projects {
		if p.Org == org && p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// Config is the parsed, validated view of a project config file. It is
// read-only; mutations go through Document.
type Config struct {
	// Path is the file the config was loaded from.
	Path string `json:"path" yaml:"path" toml:"path"`

	// ProjectDir is the directory generated paths are relative to.
	ProjectDir string `json:"project_dir" yaml:"project_dir" toml:"project_dir"`

	Settings   Settings             `json:"settings" yaml:"settings" toml:"settings"`
	Attributes []GeneratorAttribute `json:"attributes" yaml:"attributes" toml:"attributes"`
	Code       Code                 `json:"code" yaml:"code" toml:"code"`
}

// Generators yields every generator with its project, in file order.
func (c *Config) Generators() iter.Seq2[Project, Generator] {
	return func(yield func(Project, Generator) bool) {
		for _, p := range c.Code.Projects {
			for _, g := range p.Generators {
				if !yield(p, g) {
					return
				}
			}
		}
	}
}

// ParseProjectRef splits "org/name" into its parts.
func ParseProjectRef(ref string) (org, name string, ok bool) {
	org, name, ok = strings.Cut(ref, "/")
	if !ok || org == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return org, name, true
}
