package directive

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nicolai-agersbaek/composer-json-modifier/internal/composer"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/pattern"
)

// PatternMap is an ordered mapping from package pattern to version
// constraint, the shape of a directive section's require and require-dev
// maps. Keys are compiled at decode time; identity is the raw pattern
// string, so a duplicate raw key keeps its first position and takes the
// last constraint.
type PatternMap struct {
	entries []Entry
	index   map[string]int
}

// Entry is one pattern/constraint pair of a PatternMap.
type Entry struct {
	Pattern    pattern.Pattern
	Constraint string
}

// NewPatternMap creates an empty pattern map.
func NewPatternMap() *PatternMap {
	return &PatternMap{index: make(map[string]int)}
}

// Len returns the number of entries.
func (m *PatternMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the pattern/constraint pairs in insertion order.
func (m *PatternMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Get returns the constraint stored for a raw pattern string.
func (m *PatternMap) Get(raw string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[raw]
	if !ok {
		return "", false
	}
	return m.entries[i].Constraint, true
}

// Set inserts or updates an entry keyed by the pattern's raw string.
func (m *PatternMap) Set(p pattern.Pattern, constraint string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[p.Raw()]; ok {
		m.entries[i].Constraint = constraint
		return
	}
	m.index[p.Raw()] = len(m.entries)
	m.entries = append(m.entries, Entry{Pattern: p, Constraint: constraint})
}

// MarshalJSON encodes the map as a JSON object of raw pattern strings in
// insertion order.
func (m *PatternMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := composer.EncodeString(e.Pattern.Raw())
		if err != nil {
			return nil, err
		}
		val, err := composer.EncodeString(e.Constraint)
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

// UnmarshalJSON decodes a JSON object, compiling every key into a package
// pattern and preserving key order.
func (m *PatternMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("pattern map: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("pattern map: expected object, got %v", tok)
	}

	*m = PatternMap{index: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("pattern map: %w", err)
		}
		raw, ok := tok.(string)
		if !ok {
			return fmt.Errorf("pattern map: expected string key, got %v", tok)
		}

		p, err := pattern.Compile(raw)
		if err != nil {
			return fmt.Errorf("pattern map: %w", err)
		}

		var constraint string
		if err := dec.Decode(&constraint); err != nil {
			return fmt.Errorf("pattern map: constraint for %q: %w", raw, err)
		}
		m.Set(p, constraint)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("pattern map: %w", err)
	}
	return nil
}

// UnmarshalYAML decodes a YAML mapping, compiling every key into a package
// pattern and preserving key order.
func (m *PatternMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("pattern map: expected mapping, got kind %d", node.Kind)
	}

	*m = PatternMap{index: make(map[string]int)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("pattern map: constraint for %q: expected scalar", key.Value)
		}

		p, err := pattern.Compile(key.Value)
		if err != nil {
			return fmt.Errorf("pattern map: %w", err)
		}
		m.Set(p, val.Value)
	}
	return nil
}
