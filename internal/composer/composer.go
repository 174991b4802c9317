package composer

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/iancoleman/orderedmap"
)

// nameRe is composer's published package name shape: vendor/project, lower
// case, with inner separators.
var nameRe = regexp.MustCompile(`^[a-z0-9]([_.-]?[a-z0-9]+)*/[a-z0-9](([_.]|-{1,2})?[a-z0-9]+)*$`)

// ComposerJSON models a composer.json manifest. Optional fields are pointers
// or nil-able values so that fields absent on input stay absent on output.
// Field order mirrors the conventional composer.json layout.
type ComposerJSON struct {
	Name               string                 `json:"name"`
	Description        string                 `json:"description,omitempty"`
	Version            string                 `json:"version,omitempty"`
	Type               string                 `json:"type,omitempty"`
	Keywords           []string               `json:"keywords,omitempty"`
	Homepage           string                 `json:"homepage,omitempty"`
	Readme             string                 `json:"readme,omitempty"`
	Time               string                 `json:"time,omitempty"`
	License            *StringList            `json:"license,omitempty"`
	Authors            []Author               `json:"authors,omitempty"`
	Support            *Support               `json:"support,omitempty"`
	Funding            []Funding              `json:"funding,omitempty"`
	Require            *DependencyMap         `json:"require,omitempty"`
	RequireDev         *DependencyMap         `json:"require-dev,omitempty"`
	Conflict           *DependencyMap         `json:"conflict,omitempty"`
	Replace            *DependencyMap         `json:"replace,omitempty"`
	Provide            *DependencyMap         `json:"provide,omitempty"`
	Suggest            *DependencyMap         `json:"suggest,omitempty"`
	Autoload           *Autoload              `json:"autoload,omitempty"`
	AutoloadDev        *Autoload              `json:"autoload-dev,omitempty"`
	MinimumStability   string                 `json:"minimum-stability,omitempty"`
	PreferStable       *bool                  `json:"prefer-stable,omitempty"`
	Repositories       json.RawMessage        `json:"repositories,omitempty"`
	Config             *orderedmap.OrderedMap `json:"config,omitempty"`
	Scripts            *orderedmap.OrderedMap `json:"scripts,omitempty"`
	Extra              *orderedmap.OrderedMap `json:"extra,omitempty"`
	Bin                *StringList            `json:"bin,omitempty"`
	Archive            *Archive               `json:"archive,omitempty"`
	Abandoned          *Abandoned             `json:"abandoned,omitempty"`
	NonFeatureBranches []string               `json:"non-feature-branches,omitempty"`
}

// Author is an entry of the authors list.
type Author struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Homepage string `json:"homepage,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Support holds the contact channels of the support section.
type Support struct {
	Email    string `json:"email,omitempty"`
	Issues   string `json:"issues,omitempty"`
	Forum    string `json:"forum,omitempty"`
	Wiki     string `json:"wiki,omitempty"`
	IRC      string `json:"irc,omitempty"`
	Chat     string `json:"chat,omitempty"`
	Source   string `json:"source,omitempty"`
	Docs     string `json:"docs,omitempty"`
	RSS      string `json:"rss,omitempty"`
	Security string `json:"security,omitempty"`
}

// Funding is an entry of the funding list.
type Funding struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Autoload models the autoload and autoload-dev sections. PSR mappings are
// kept as ordered free-form objects because their values may be a single
// path or a list of paths.
type Autoload struct {
	Psr4                *orderedmap.OrderedMap `json:"psr-4,omitempty"`
	Psr0                *orderedmap.OrderedMap `json:"psr-0,omitempty"`
	Classmap            []string               `json:"classmap,omitempty"`
	Files               []string               `json:"files,omitempty"`
	ExcludeFromClassmap []string               `json:"exclude-from-classmap,omitempty"`
}

// Archive models the archive section.
type Archive struct {
	Name    string   `json:"name,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Validate checks the constraints a manifest must satisfy beyond being
// well-formed JSON.
func (c *ComposerJSON) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("missing required field %q", "name")
	}
	if !nameRe.MatchString(c.Name) {
		return fmt.Errorf("invalid package name %q: must be of the form vendor/project, lower case", c.Name)
	}
	return nil
}

// Clone returns a manifest the caller may mutate without affecting the
// receiver. The dependency maps and the config section are deep-copied;
// sections no modification touches are shared.
func (c *ComposerJSON) Clone() *ComposerJSON {
	out := *c
	out.Require = c.Require.Clone()
	out.RequireDev = c.RequireDev.Clone()
	out.Conflict = c.Conflict.Clone()
	out.Replace = c.Replace.Clone()
	out.Provide = c.Provide.Clone()
	out.Suggest = c.Suggest.Clone()
	out.Config = cloneOrderedMap(c.Config)
	return &out
}

func cloneOrderedMap(m *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	if m == nil {
		return nil
	}
	out := orderedmap.New()
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out.Set(k, v)
	}
	return out
}
