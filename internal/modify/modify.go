package modify

import (
	"github.com/iancoleman/orderedmap"

	"github.com/nicolai-agersbaek/composer-json-modifier/internal/composer"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/directive"
)

// policy decides what a matched (or unmatched literal) manifest entry does
// to the dependency map being edited.
type policy int

const (
	policyRemove policy = iota
	policyAdd
	policyReplace
	policyModify
)

// Apply resolves a directive against a manifest and returns a new manifest
// reflecting every edit, plus a report of what changed. The inputs are never
// mutated, so callers can treat a discarded result as a dry run.
//
// Sections apply in a fixed order: remove, add, replace, modify. Within a
// section the require map is edited before require-dev; patterns apply in
// directive order and manifest keys are scanned in insertion order, so the
// report is stable across runs.
func Apply(manifest *composer.ComposerJSON, d *directive.Directive) (*composer.ComposerJSON, *Report) {
	out := manifest.Clone()
	report := &Report{}

	if d.Remove != nil {
		out.Require = applySection(report, SectionRemove, MapRequire, out.Require, d.Remove.Require, policyRemove)
		out.RequireDev = applySection(report, SectionRemove, MapRequireDev, out.RequireDev, d.Remove.RequireDev, policyRemove)
	}
	if d.Add != nil {
		out.Require = applySection(report, SectionAdd, MapRequire, out.Require, d.Add.Require, policyAdd)
		out.RequireDev = applySection(report, SectionAdd, MapRequireDev, out.RequireDev, d.Add.RequireDev, policyAdd)
	}
	if d.Replace != nil {
		out.Require = applySection(report, SectionReplace, MapRequire, out.Require, d.Replace.Require, policyReplace)
		out.RequireDev = applySection(report, SectionReplace, MapRequireDev, out.RequireDev, d.Replace.RequireDev, policyReplace)
	}
	if d.Modify != nil {
		out.Require = applySection(report, SectionModify, MapRequire, out.Require, d.Modify.Require, policyModify)
		out.RequireDev = applySection(report, SectionModify, MapRequireDev, out.RequireDev, d.Modify.RequireDev, policyModify)
		out.Config = applyConfigOverrides(report, out.Config, d.Modify.Config)
	}

	return out, report
}

// applySection edits one dependency map with one pattern map under one merge
// policy. It returns the map to store back on the manifest, which may be a
// newly created one when an insert policy hits a manifest without that
// section. A nil or empty pattern map leaves the dependency map untouched.
func applySection(report *Report, section Section, mapName MapName, deps *composer.DependencyMap, patterns *directive.PatternMap, pol policy) *composer.DependencyMap {
	if patterns.Len() == 0 {
		return deps
	}

	for _, entry := range patterns.Entries() {
		matched := false

		switch pol {
		case policyRemove:
			for _, key := range deps.Keys() {
				if !entry.Pattern.Matches(key) {
					continue
				}
				matched = true
				old, _ := deps.Get(key)
				deps.Delete(key)
				report.add(Change{Section: section, Map: mapName, Pattern: entry.Pattern.Raw(), Key: key, Old: old, Action: ActionRemoved})
			}

		case policyAdd:
			// A wildcard can never name a package to create, so add
			// treats keys literally.
			key := entry.Pattern.Raw()
			if !entry.Pattern.IsLiteral() {
				break
			}
			matched = true
			if old, ok := deps.Get(key); ok {
				report.add(Change{Section: section, Map: mapName, Pattern: key, Key: key, Old: old, New: entry.Constraint, Action: ActionSkipped})
				break
			}
			// Inserting creates an absent section on demand; a section is
			// never materialized without at least one entry.
			if deps == nil {
				deps = composer.NewDependencyMap()
			}
			deps.Set(key, entry.Constraint)
			report.add(Change{Section: section, Map: mapName, Pattern: key, Key: key, New: entry.Constraint, Action: ActionAdded})

		case policyReplace, policyModify:
			for _, key := range deps.Keys() {
				if !entry.Pattern.Matches(key) {
					continue
				}
				matched = true
				old, _ := deps.Get(key)
				deps.Set(key, entry.Constraint)
				report.add(Change{Section: section, Map: mapName, Pattern: entry.Pattern.Raw(), Key: key, Old: old, New: entry.Constraint, Action: ActionReplaced})
			}
			if !matched && pol == policyReplace && entry.Pattern.IsLiteral() {
				// Replace inserts literal keys that are absent.
				matched = true
				if deps == nil {
					deps = composer.NewDependencyMap()
				}
				deps.Set(entry.Pattern.Raw(), entry.Constraint)
				report.add(Change{Section: section, Map: mapName, Pattern: entry.Pattern.Raw(), Key: entry.Pattern.Raw(), New: entry.Constraint, Action: ActionAdded})
			}
		}

		// An unmatched pattern is reported, never an error: directives
		// stay forward-compatible with manifests that no longer contain
		// a given dependency.
		if !matched {
			report.add(Change{Section: section, Map: mapName, Pattern: entry.Pattern.Raw(), Action: ActionUnmatched})
		}
	}

	return deps
}

// applyConfigOverrides merges the directive's config overrides into the
// manifest's config section, creating it when absent. Overrides always win.
func applyConfigOverrides(report *Report, cfg *orderedmap.OrderedMap, overrides *composer.DependencyMap) *orderedmap.OrderedMap {
	if overrides.Len() == 0 {
		return cfg
	}
	if cfg == nil {
		cfg = orderedmap.New()
	}

	for _, key := range overrides.Keys() {
		val, _ := overrides.Get(key)
		change := Change{Section: SectionModify, Map: MapConfig, Pattern: key, Key: key, New: val, Action: ActionReplaced}
		if old, ok := cfg.Get(key); ok {
			change.Old = stringifyConfigValue(old)
		} else {
			change.Action = ActionAdded
		}
		cfg.Set(key, val)
		report.add(change)
	}

	return cfg
}
