package modify

import (
	"fmt"
)

// Section names the directive section a change came from.
type Section string

const (
	SectionModify  Section = "modify"
	SectionAdd     Section = "add"
	SectionRemove  Section = "remove"
	SectionReplace Section = "replace"
)

// MapName names the manifest map a change touched.
type MapName string

const (
	MapRequire    MapName = "require"
	MapRequireDev MapName = "require-dev"
	MapConfig     MapName = "config"
)

// Action is the outcome of one pattern/key pairing.
type Action string

const (
	ActionRemoved   Action = "removed"
	ActionAdded     Action = "added"
	ActionReplaced  Action = "replaced"
	ActionSkipped   Action = "skipped"
	ActionUnmatched Action = "unmatched"
)

// Change records one edit (or non-edit) resolved from the directive.
type Change struct {
	Section Section
	Map     MapName
	Pattern string
	Key     string
	Old     string
	New     string
	Action  Action
}

// Report collects changes in the order they were resolved: sections in
// application order, patterns in directive order, manifest keys in insertion
// order. The order is deterministic for a given manifest/directive pair.
type Report struct {
	changes []Change
}

func (r *Report) add(c Change) {
	r.changes = append(r.changes, c)
}

// Changes returns the recorded changes in resolution order.
func (r *Report) Changes() []Change {
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

// Empty reports whether nothing was resolved, not even an unmatched pattern.
func (r *Report) Empty() bool { return len(r.changes) == 0 }

// Edits counts the changes that altered the manifest.
func (r *Report) Edits() int {
	n := 0
	for _, c := range r.changes {
		if c.Action == ActionRemoved || c.Action == ActionAdded || c.Action == ActionReplaced {
			n++
		}
	}
	return n
}

// Lines renders the report as stable, human-readable lines.
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.changes))
	for _, c := range r.changes {
		lines = append(lines, c.String())
	}
	return lines
}

func (c Change) String() string {
	switch c.Action {
	case ActionRemoved:
		return fmt.Sprintf("%s.%s: pattern %q removed %q (was %q)", c.Section, c.Map, c.Pattern, c.Key, c.Old)
	case ActionAdded:
		return fmt.Sprintf("%s.%s: added %q => %q", c.Section, c.Map, c.Key, c.New)
	case ActionReplaced:
		return fmt.Sprintf("%s.%s: pattern %q set %q => %q (was %q)", c.Section, c.Map, c.Pattern, c.Key, c.New, c.Old)
	case ActionSkipped:
		return fmt.Sprintf("%s.%s: %q already present (kept %q)", c.Section, c.Map, c.Key, c.Old)
	case ActionUnmatched:
		return fmt.Sprintf("%s.%s: pattern %q matched nothing", c.Section, c.Map, c.Pattern)
	default:
		return fmt.Sprintf("%s.%s: pattern %q %s", c.Section, c.Map, c.Pattern, c.Action)
	}
}

// stringifyConfigValue renders an existing config value for report output.
// Config sections hold free-form JSON, so the old value may be any scalar.
func stringifyConfigValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
