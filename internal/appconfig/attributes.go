package appconfig

import (
	"maps"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Wildcard matches every generator name.
const Wildcard = "*"

// GeneratorAttribute is a global attribute rule: attributes applied to every
// generator whose name matches Pattern.
type GeneratorAttribute struct {
	Pattern    string         `json:"pattern" yaml:"pattern" toml:"pattern"`
	Attributes map[string]any `json:"attributes" yaml:"attributes" toml:"attributes"`
}

// Matches reports whether the rule applies to the named generator.
func (ga GeneratorAttribute) Matches(name string) bool {
	return MatchesPattern(name, ga.Pattern)
}

// MatchesPattern reports whether name matches pattern. "*" matches
// everything, a trailing "*" matches by literal prefix, and anything else
// must be equal.
//
//	MatchesPattern("play_client", "play_*") == true
//	MatchesPattern("play_client", "play")   == false
func MatchesPattern(name, pattern string) bool {
	switch {
	case pattern == Wildcard:
		return true
	case strings.HasSuffix(pattern, Wildcard):
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, Wildcard))
	default:
		return name == pattern
	}
}

// ResolveAttributes computes the effective attributes for the named
// generator. The override mapping wins every conflict; matching rules are
// applied in declaration order and a key set by an earlier matching rule is
// not replaced by a later one. Values are copied shallowly and neither input
// is modified.
func ResolveAttributes(name string, rules []GeneratorAttribute, override map[string]any) map[string]any {
	out := make(map[string]any, len(override))
	maps.Copy(out, override)
	for _, rule := range rules {
		if !rule.Matches(name) {
			continue
		}
		for k, v := range rule.Attributes {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	return out
}

// MatchingRules returns the rules that apply to name, in declaration order.
func MatchingRules(name string, rules []GeneratorAttribute) []GeneratorAttribute {
	var out []GeneratorAttribute
	for _, rule := range rules {
		if rule.Matches(name) {
			out = append(out, rule)
		}
	}
	return out
}

// parseGeneratorAttributes reads the attributes section. Its generators key
// is either a mapping of pattern to attributes or a sequence whose items are
// single-entry mappings ({pattern: attributes}) or {generator, attributes}
// mappings.
func parseGeneratorAttributes(path string, section *yaml.Node) ([]GeneratorAttribute, error) {
	if isNull(section) {
		return nil, nil
	}
	if !isMapping(section) {
		return nil, errors.Wrapf(ErrInvalidAttributes, "file[%s] attributes must be a mapping", path)
	}

	generators := lookup(section, "generators")
	switch {
	case isNull(generators):
		return nil, nil
	case generators.Kind == yaml.MappingNode:
		var rules []GeneratorAttribute
		for _, p := range pairs(generators) {
			rule, err := attributeRule(path, p.Key.Value, p.Value)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
		return rules, nil
	case generators.Kind == yaml.SequenceNode:
		var rules []GeneratorAttribute
		for i, item := range generators.Content {
			item = deref(item)
			entries := pairs(item)
			if hasKey(item, "generator") {
				pattern, ok := stringValue(lookup(item, "generator"))
				if !ok || strings.TrimSpace(pattern) == "" {
					return nil, errors.Wrapf(ErrInvalidAttributes,
						"file[%s] attributes.generators[%d]: generator must be a non-empty string", path, i)
				}
				rule, err := attributeRule(path, pattern, lookup(item, "attributes"))
				if err != nil {
					return nil, err
				}
				rules = append(rules, rule)
				continue
			}
			if len(entries) != 1 {
				return nil, errors.Wrapf(ErrInvalidAttributes,
					"file[%s] attributes.generators[%d]: expected a single pattern: attributes entry", path, i)
			}
			rule, err := attributeRule(path, entries[0].Key.Value, entries[0].Value)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
		return rules, nil
	default:
		return nil, errors.Wrapf(ErrInvalidAttributes,
			"file[%s] attributes.generators must be a mapping or a sequence", path)
	}
}

func attributeRule(path, pattern string, value *yaml.Node) (GeneratorAttribute, error) {
	attrs, ok, err := decodeMap(value)
	if err != nil {
		return GeneratorAttribute{}, errors.Wrapf(ErrInvalidAttributes,
			"file[%s] attributes for %q: %v", path, pattern, err)
	}
	if !ok {
		return GeneratorAttribute{}, errors.Wrapf(ErrInvalidAttributes,
			"file[%s] attributes for %q must be a mapping", path, pattern)
	}
	return GeneratorAttribute{Pattern: pattern, Attributes: attrs}, nil
}
