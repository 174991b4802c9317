package composer

import (
	"encoding/json"
	"fmt"
)

// StringList handles composer.json values that may be a single string or a
// list of strings (license, bin, psr path values). The shape of the source
// document is remembered so it survives a round-trip.
type StringList struct {
	values []string
	many   bool
}

// NewStringList creates a StringList. A single value takes the string shape,
// any other count takes the list shape.
func NewStringList(values ...string) StringList {
	return StringList{values: values, many: len(values) != 1}
}

// Values returns the entries regardless of source shape.
func (l StringList) Values() []string {
	out := make([]string, len(l.values))
	copy(out, l.values)
	return out
}

// Single returns the value and true when the source shape was a single
// string.
func (l StringList) Single() (string, bool) {
	if l.many || len(l.values) != 1 {
		return "", false
	}
	return l.values[0], true
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if s, ok := l.Single(); ok {
		return json.Marshal(s)
	}
	if l.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.values)
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{values: []string{s}}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = StringList{values: list, many: true}
	return nil
}

// Abandoned handles the composer.json "abandoned" field, which is either a
// boolean or the name of a replacement package.
type Abandoned struct {
	flag        bool
	replacement string
	hasPackage  bool
}

// AbandonedFlag creates the boolean shape.
func AbandonedFlag(abandoned bool) Abandoned {
	return Abandoned{flag: abandoned}
}

// AbandonedBy creates the replacement-package shape.
func AbandonedBy(pkg string) Abandoned {
	return Abandoned{replacement: pkg, hasPackage: true}
}

// Bool reports whether the package is abandoned. Naming a replacement
// implies abandonment.
func (a Abandoned) Bool() bool {
	return a.flag || a.hasPackage
}

// Replacement returns the suggested replacement package and true when one
// was named.
func (a Abandoned) Replacement() (string, bool) {
	if !a.hasPackage {
		return "", false
	}
	return a.replacement, true
}

func (a Abandoned) MarshalJSON() ([]byte, error) {
	if a.hasPackage {
		return json.Marshal(a.replacement)
	}
	return json.Marshal(a.flag)
}

func (a *Abandoned) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*a = Abandoned{flag: flag}
		return nil
	}
	var pkg string
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("abandoned: expected boolean or package name: %w", err)
	}
	*a = Abandoned{replacement: pkg, hasPackage: true}
	return nil
}
