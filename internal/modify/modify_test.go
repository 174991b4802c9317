package modify

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nicolai-agersbaek/composer-json-modifier/internal/composer"
	"github.com/nicolai-agersbaek/composer-json-modifier/internal/directive"
)

func manifest(t *testing.T, src string) *composer.ComposerJSON {
	t.Helper()
	var c composer.ComposerJSON
	if err := json.Unmarshal([]byte(src), &c); err != nil {
		t.Fatalf("manifest fixture: %v", err)
	}
	return &c
}

func direct(t *testing.T, src string) *directive.Directive {
	t.Helper()
	var d directive.Directive
	if err := json.Unmarshal([]byte(src), &d); err != nil {
		t.Fatalf("directive fixture: %v", err)
	}
	return &d
}

func requireKeys(t *testing.T, c *composer.ComposerJSON, want ...string) {
	t.Helper()
	got := c.Require.Keys()
	if len(got) != len(want) {
		t.Fatalf("require keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("require keys = %v, want %v", got, want)
		}
	}
}

func TestApply_RemoveByPattern(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"monolog/monolog":"^2.0","psr/log":"^1.0"}}`)
	d := direct(t, `{"remove":{"require":{"monolog/*":""}}}`)

	out, report := Apply(c, d)

	requireKeys(t, out, "psr/log")
	if report.Edits() != 1 {
		t.Errorf("Edits() = %d, want 1", report.Edits())
	}

	// The input manifest is never mutated.
	requireKeys(t, c, "monolog/monolog", "psr/log")
}

func TestApply_RemoveUnmatchedIsNotAnError(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"psr/log":"^1.0"}}`)
	d := direct(t, `{"remove":{"require":{"acme/missing-pkg":""}}}`)

	out, report := Apply(c, d)

	requireKeys(t, out, "psr/log")
	changes := report.Changes()
	if len(changes) != 1 || changes[0].Action != ActionUnmatched {
		t.Errorf("changes = %+v, want one unmatched", changes)
	}
}

func TestApply_RemoveUnionSemantics(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"monolog/monolog":"^2.0","monolog/handler":"^1.0","psr/log":"^1.0","acme/tool":"dev-main"}}`)
	d := direct(t, `{"remove":{"require":{"monolog/*":"","acme/tool":""}}}`)

	out, _ := Apply(c, d)

	requireKeys(t, out, "psr/log")
}

func TestApply_EmptyDirectiveIsIdentity(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"psr/log":"^1.0"}}`)
	d := direct(t, `{}`)

	out, report := Apply(c, d)

	if !out.Require.Equal(c.Require) {
		t.Errorf("empty directive must leave require unchanged")
	}
	if !report.Empty() {
		t.Errorf("empty directive must produce an empty report")
	}
}

func TestApply_RemoveIsIdempotent(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"monolog/monolog":"^2.0","monolog/handler":"^1.0","psr/log":"^1.0"}}`)
	d := direct(t, `{"remove":{"require":{"monolog/*":""}}}`)

	once, _ := Apply(c, d)
	twice, _ := Apply(once, d)

	if !once.Require.Equal(twice.Require) {
		t.Errorf("removal must be idempotent: once = %v, twice = %v", once.Require.Keys(), twice.Require.Keys())
	}
}

func TestApply_RemoveTouchesOnlyNamedMap(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"monolog/monolog":"^2.0"},"require-dev":{"monolog/test":"^1.0"},"conflict":{"monolog/old":"*"}}`)
	d := direct(t, `{"remove":{"require":{"monolog/*":""}}}`)

	out, _ := Apply(c, d)

	if out.Require.Len() != 0 {
		t.Errorf("require should be emptied")
	}
	if !out.RequireDev.Has("monolog/test") {
		t.Errorf("require-dev must not be touched by remove.require")
	}
	if !out.Conflict.Has("monolog/old") {
		t.Errorf("conflict must never be touched")
	}
}

func TestApply_RemoveRequireDev(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require-dev":{"phpunit/phpunit":"^10.0","mockery/mockery":"^1.6"}}`)
	d := direct(t, `{"remove":{"require-dev":{"phpunit/*":""}}}`)

	out, _ := Apply(c, d)

	if out.RequireDev.Has("phpunit/phpunit") {
		t.Errorf("phpunit/phpunit should be removed from require-dev")
	}
	if !out.RequireDev.Has("mockery/mockery") {
		t.Errorf("mockery/mockery should survive")
	}
}

func TestApply_AddInsertsIfAbsent(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"psr/log":"^1.0"}}`)
	d := direct(t, `{"add":{"require":{"symfony/console":"^6.0","psr/log":"^9.9"}}}`)

	out, report := Apply(c, d)

	requireKeys(t, out, "psr/log", "symfony/console")
	if got, _ := out.Require.Get("psr/log"); got != "^1.0" {
		t.Errorf("add must not overwrite existing entry: got %q", got)
	}

	var skipped bool
	for _, ch := range report.Changes() {
		if ch.Action == ActionSkipped && ch.Key == "psr/log" {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("existing key must be reported as skipped")
	}
}

func TestApply_AddCreatesMissingSection(t *testing.T) {
	c := manifest(t, `{"name":"acme/app"}`)
	d := direct(t, `{"add":{"require-dev":{"phpunit/phpunit":"^10.0"}}}`)

	out, _ := Apply(c, d)

	if out.RequireDev == nil || !out.RequireDev.Has("phpunit/phpunit") {
		t.Fatalf("add must create an absent require-dev section")
	}
	if c.RequireDev != nil {
		t.Errorf("input manifest must stay without require-dev")
	}
}

func TestApply_NoInsertLeavesSectionAbsent(t *testing.T) {
	c := manifest(t, `{"name":"acme/app"}`)
	d := direct(t, `{"add":{"require":{"acme/*":"^1.0"}},"replace":{"require-dev":{"acme/*":"^1.0"}}}`)

	out, _ := Apply(c, d)

	if out.Require != nil {
		t.Errorf("wildcard add must not materialize an absent require section")
	}
	if out.RequireDev != nil {
		t.Errorf("wildcard replace must not materialize an absent require-dev section")
	}
}

func TestApply_AddWildcardIsUnmatched(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"psr/log":"^1.0"}}`)
	d := direct(t, `{"add":{"require":{"acme/*":"^1.0"}}}`)

	out, report := Apply(c, d)

	requireKeys(t, out, "psr/log")
	changes := report.Changes()
	if len(changes) != 1 || changes[0].Action != ActionUnmatched {
		t.Errorf("wildcard add must be reported unmatched, got %+v", changes)
	}
}

func TestApply_ReplaceOverwritesMatches(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"monolog/monolog":"^2.0","monolog/handler":"^1.0","psr/log":"^1.0"}}`)
	d := direct(t, `{"replace":{"require":{"monolog/*":"^3.0"}}}`)

	out, _ := Apply(c, d)

	for _, key := range []string{"monolog/monolog", "monolog/handler"} {
		if got, _ := out.Require.Get(key); got != "^3.0" {
			t.Errorf("%s = %q, want ^3.0", key, got)
		}
	}
	if got, _ := out.Require.Get("psr/log"); got != "^1.0" {
		t.Errorf("psr/log must be untouched, got %q", got)
	}
	requireKeys(t, out, "monolog/monolog", "monolog/handler", "psr/log")
}

func TestApply_ReplaceInsertsAbsentLiteral(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"psr/log":"^1.0"}}`)
	d := direct(t, `{"replace":{"require":{"symfony/console":"^6.0"}}}`)

	out, _ := Apply(c, d)

	if got, _ := out.Require.Get("symfony/console"); got != "^6.0" {
		t.Errorf("absent literal must be inserted by replace, got %q", got)
	}
}

func TestApply_ModifyOverwritesOnlyPresent(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"psr/log":"^1.0"}}`)
	d := direct(t, `{"modify":{"require":{"psr/log":"^3.0","symfony/console":"^6.0"}}}`)

	out, report := Apply(c, d)

	if got, _ := out.Require.Get("psr/log"); got != "^3.0" {
		t.Errorf("psr/log = %q, want ^3.0", got)
	}
	if out.Require.Has("symfony/console") {
		t.Errorf("modify must never insert absent keys")
	}

	var unmatched bool
	for _, ch := range report.Changes() {
		if ch.Action == ActionUnmatched && ch.Pattern == "symfony/console" {
			unmatched = true
		}
	}
	if !unmatched {
		t.Errorf("absent modify key must be reported unmatched")
	}
}

func TestApply_ModifyConfigOverrides(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","config":{"sort-packages":true,"vendor-dir":"vendor"}}`)
	d := direct(t, `{"modify":{"config":{"vendor-dir":"lib","platform-check":"false"}}}`)

	out, _ := Apply(c, d)

	if v, _ := out.Config.Get("vendor-dir"); v != "lib" {
		t.Errorf("vendor-dir = %v, want lib", v)
	}
	if v, _ := out.Config.Get("platform-check"); v != "false" {
		t.Errorf("platform-check = %v, want false", v)
	}
	if v, _ := out.Config.Get("sort-packages"); v != true {
		t.Errorf("untouched config key changed: %v", v)
	}
	if v, _ := c.Config.Get("vendor-dir"); v != "vendor" {
		t.Errorf("input config mutated: %v", v)
	}
}

func TestApply_ModifyConfigCreatesSection(t *testing.T) {
	c := manifest(t, `{"name":"acme/app"}`)
	d := direct(t, `{"modify":{"config":{"sort-packages":"true"}}}`)

	out, _ := Apply(c, d)

	if out.Config == nil {
		t.Fatalf("modify.config must create an absent config section")
	}
	if v, _ := out.Config.Get("sort-packages"); v != "true" {
		t.Errorf("sort-packages = %v, want true", v)
	}
}

func TestApply_ReportOrderIsStable(t *testing.T) {
	c := manifest(t, `{"name":"acme/app","require":{"monolog/monolog":"^2.0","monolog/handler":"^1.0","psr/log":"^1.0"}}`)
	d := direct(t, `{"remove":{"require":{"monolog/*":"","psr/*":""}}}`)

	want := []string{
		`remove.require: pattern "monolog/*" removed "monolog/monolog" (was "^2.0")`,
		`remove.require: pattern "monolog/*" removed "monolog/handler" (was "^1.0")`,
		`remove.require: pattern "psr/*" removed "psr/log" (was "^1.0")`,
	}

	for i := 0; i < 5; i++ {
		_, report := Apply(c, d)
		got := report.Lines()
		if strings.Join(got, "\n") != strings.Join(want, "\n") {
			t.Fatalf("run %d: report lines =\n%s\nwant:\n%s", i, strings.Join(got, "\n"), strings.Join(want, "\n"))
		}
	}
}
