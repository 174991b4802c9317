package directive

import (
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/composer"
)

// Directive models a modify-composer.json document: a set of edits to apply
// to a composer.json manifest. All four sections are optional; an empty
// directive is valid and applies no change.
type Directive struct {
	Modify  *ModifySection  `json:"modify,omitempty" yaml:"modify,omitempty"`
	Add     *AddSection     `json:"add,omitempty" yaml:"add,omitempty"`
	Remove  *RemoveSection  `json:"remove,omitempty" yaml:"remove,omitempty"`
	Replace *ReplaceSection `json:"replace,omitempty" yaml:"replace,omitempty"`
}

// ModifySection overwrites constraints of entries already present in the
// manifest and may override keys of the manifest's config section.
type ModifySection struct {
	Require    *PatternMap             `json:"require,omitempty" yaml:"require,omitempty"`
	RequireDev *PatternMap             `json:"require-dev,omitempty" yaml:"require-dev,omitempty"`
	Config     *composer.DependencyMap `json:"config,omitempty" yaml:"config,omitempty"`
}

// AddSection inserts entries absent from the manifest. Keys are taken
// literally: a wildcard can never name a package to create.
type AddSection struct {
	Require    *PatternMap `json:"require,omitempty" yaml:"require,omitempty"`
	RequireDev *PatternMap `json:"require-dev,omitempty" yaml:"require-dev,omitempty"`
}

// RemoveSection deletes every manifest entry matched by any of its patterns.
type RemoveSection struct {
	Require    *PatternMap `json:"require,omitempty" yaml:"require,omitempty"`
	RequireDev *PatternMap `json:"require-dev,omitempty" yaml:"require-dev,omitempty"`
}

// ReplaceSection overwrites constraints of matched entries and inserts
// literal keys that are absent.
type ReplaceSection struct {
	Require    *PatternMap `json:"require,omitempty" yaml:"require,omitempty"`
	RequireDev *PatternMap `json:"require-dev,omitempty" yaml:"require-dev,omitempty"`
}
