package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a package name matching rule. The character '*' matches any
// sequence of zero or more characters, including '/'; every other character
// matches literally. Patterns are anchored at both ends: a pattern matches a
// candidate only if it consumes the whole string.
//
// Identity is defined by the raw pattern string alone; the compiled matcher
// is derived state and never participates in equality. The type is not
// comparable: native == would compare matcher pointers and report two
// patterns with equal raw strings as unequal. Compare with Equal, and key
// maps on Raw.
type Pattern struct {
	_   [0]func()
	raw string
	re  *regexp.Regexp
}

// CompileError reports a pattern string that could not be compiled into a
// matcher. The current syntax accepts every string, but richer syntaxes may
// not, so Compile stays fallible.
type CompileError struct {
	Raw string
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling package pattern %q: %v", e.Raw, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile builds a Pattern from a raw pattern string.
func Compile(raw string) (Pattern, error) {
	parts := strings.Split(raw, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}

	re, err := regexp.Compile(`\A` + strings.Join(parts, ".*") + `\z`)
	if err != nil {
		return Pattern{}, &CompileError{Raw: raw, Err: err}
	}

	return Pattern{raw: raw, re: re}, nil
}

// MustCompile is like Compile but panics on error. Intended for fixtures and
// tests with known-good patterns.
func MustCompile(raw string) Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether the candidate package name is matched by the
// pattern in its entirety.
func (p Pattern) Matches(candidate string) bool {
	if p.re == nil {
		// Zero value: matches nothing.
		return false
	}
	return p.re.MatchString(candidate)
}

// Raw returns the original pattern string.
func (p Pattern) Raw() string { return p.raw }

// String returns the original pattern string.
func (p Pattern) String() string { return p.raw }

// IsLiteral reports whether the pattern contains no wildcards and therefore
// matches exactly one package name.
func (p Pattern) IsLiteral() bool { return !strings.Contains(p.raw, "*") }

// Equal reports whether two patterns have the same raw string. Patterns with
// equal raw strings match identically.
func (p Pattern) Equal(other Pattern) bool { return p.raw == other.raw }

// MarshalText serializes the pattern as its raw string.
func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.raw), nil
}

// UnmarshalText compiles the pattern from its raw string.
func (p *Pattern) UnmarshalText(text []byte) error {
	compiled, err := Compile(string(text))
	if err != nil {
		return err
	}
	*p = compiled
	return nil
}
