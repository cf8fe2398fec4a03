package appconfig

import (
	"gopkg.in/yaml.v3"
)

const (
	tagString = "!!str"
	tagNull   = "!!null"
	tagMerge  = "!!merge"
)

// deref follows alias nodes to their anchors.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// isNull reports whether n is absent or an explicit null.
func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull)
}

// isMapping reports whether n is a mapping node.
func isMapping(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// stringValue returns the value of a string scalar. Numbers, booleans and
// nulls are not strings.
func stringValue(n *yaml.Node) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != tagString {
		return "", false
	}
	return n.Value, true
}

// scalarText returns the literal text of any scalar, as written in the file.
func scalarText(n *yaml.Node) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == tagNull {
		return "", false
	}
	return n.Value, true
}

// mappingPair is one key/value entry of a mapping, in file order.
type mappingPair struct {
	Key   *yaml.Node
	Value *yaml.Node
}

// pairs returns the entries of mapping n in file order, or nil if n is not
// a mapping. Merge keys (<<) are expanded in place: explicit keys win over
// merged ones, and earlier merge sources win over later ones.
func pairs(n *yaml.Node) []mappingPair {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	seen := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			seen[n.Content[i].Value] = true
		}
	}

	out := make([]mappingPair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], deref(n.Content[i+1])
		if !isMergeKey(key) {
			out = append(out, mappingPair{Key: key, Value: value})
			continue
		}
		for _, p := range mergeSources(value) {
			if seen[p.Key.Value] {
				continue
			}
			seen[p.Key.Value] = true
			out = append(out, p)
		}
	}
	return out
}

// isMergeKey reports whether k is the YAML merge key.
func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.ShortTag() == tagMerge
}

// mergeSources returns the entries contributed by the value of a merge key:
// one mapping, or a sequence of mappings in precedence order.
func mergeSources(v *yaml.Node) []mappingPair {
	v = deref(v)
	if v == nil {
		return nil
	}
	if v.Kind == yaml.SequenceNode {
		var out []mappingPair
		for _, item := range v.Content {
			out = append(out, pairs(item)...)
		}
		return out
	}
	return pairs(v)
}

// lookup returns the value stored under key in mapping n, or nil.
func lookup(n *yaml.Node, key string) *yaml.Node {
	for _, p := range pairs(n) {
		if p.Key.Value == key {
			return p.Value
		}
	}
	return nil
}

// hasKey reports whether mapping n contains key, even with a null value.
func hasKey(n *yaml.Node, key string) bool {
	for _, p := range pairs(n) {
		if p.Key.Value == key {
			return true
		}
	}
	return false
}

// setString stores value under key in mapping n as a string scalar,
// replacing the existing value node in place or appending a new entry.
func setString(n *yaml.Node, key, value string) {
	n = deref(n)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != key {
			continue
		}
		old := n.Content[i+1]
		style := yaml.Style(0)
		if old.Kind == yaml.ScalarNode {
			style = old.Style & (yaml.SingleQuotedStyle | yaml.DoubleQuotedStyle)
		}
		n.Content[i+1] = &yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         tagString,
			Style:       style,
			Value:       value,
			LineComment: old.LineComment,
		}
		return
	}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tagString, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tagString, Value: value},
	)
}

// decodeMap decodes a mapping node into a generic map. Null decodes to an
// empty map; any other non-mapping node returns ok=false.
func decodeMap(n *yaml.Node) (map[string]any, bool, error) {
	n = deref(n)
	if isNull(n) {
		return map[string]any{}, true, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, false, nil
	}
	out := map[string]any{}
	if err := n.Decode(&out); err != nil {
		return nil, true, err
	}
	return out, true, nil
}
