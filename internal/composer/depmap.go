package composer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DependencyMap is an ordered mapping from package name to version
// constraint, the shape of composer.json's require, require-dev, conflict,
// replace, provide and suggest sections. Key insertion order is preserved
// across decode and encode so documents round-trip without reordering.
type DependencyMap struct {
	keys   []string
	values map[string]string
}

// NewDependencyMap creates an empty dependency map.
func NewDependencyMap() *DependencyMap {
	return &DependencyMap{values: make(map[string]string)}
}

// Len returns the number of entries.
func (m *DependencyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the package names in insertion order.
func (m *DependencyMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the constraint for a package name.
func (m *DependencyMap) Get(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[name]
	return v, ok
}

// Has reports whether the package name is present.
func (m *DependencyMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Set inserts or updates an entry. A new key is appended; an existing key
// keeps its position.
func (m *DependencyMap) Set(name, constraint string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = constraint
}

// Delete removes an entry and reports whether it was present.
func (m *DependencyMap) Delete(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.values[name]; !ok {
		return false
	}
	delete(m.values, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns an independent copy. A nil map clones to nil.
func (m *DependencyMap) Clone() *DependencyMap {
	if m == nil {
		return nil
	}
	out := &DependencyMap{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether two maps hold the same entries in the same order.
func (m *DependencyMap) Equal(other *DependencyMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *DependencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := EncodeString(k)
		if err != nil {
			return nil, err
		}
		val, err := EncodeString(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeString encodes a JSON string without HTML escaping, so constraint
// operators like >= and <= survive rendering verbatim. json.Marshal would
// emit > for '>'.
func EncodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a JSON object of string constraints, preserving key
// order. A duplicate key keeps its first position and takes the last value.
func (m *DependencyMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("dependency map: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependency map: expected object, got %v", tok)
	}

	*m = DependencyMap{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("dependency map: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dependency map: expected string key, got %v", tok)
		}

		var constraint string
		if err := dec.Decode(&constraint); err != nil {
			return fmt.Errorf("dependency map: constraint for %q: %w", key, err)
		}
		m.Set(key, constraint)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("dependency map: %w", err)
	}
	return nil
}

// UnmarshalYAML decodes a YAML mapping of scalar values, preserving key
// order. Non-string scalars keep their source text.
func (m *DependencyMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("dependency map: expected mapping, got %s", yamlKindName(node.Kind))
	}

	*m = DependencyMap{values: make(map[string]string)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("dependency map: value for %q: expected scalar, got %s", key.Value, yamlKindName(val.Kind))
		}
		m.Set(key.Value, val.Value)
	}
	return nil
}

func yamlKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
