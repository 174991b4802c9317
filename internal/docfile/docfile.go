package docfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a document shape for user-facing messages.
type Kind string

const (
	// KindComposer is a composer.json manifest.
	KindComposer Kind = "composer.json"
	// KindModify is a modify-composer.json directive document.
	KindModify Kind = "modify-composer.json"
)

var (
	// ErrNotFound reports a path that does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNotRegularFile reports a path that exists but is not a regular file.
	ErrNotRegularFile = errors.New("path is not a regular file")
)

// CheckFile asserts that path names an existing regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	return nil
}

// validator is implemented by document shapes with constraints beyond being
// well-formed, like the manifest's mandatory name field.
type validator interface {
	Validate() error
}

// Load reads and parses a JSON document of shape T from path.
func Load[T any](path string) (*T, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes[T](data, path)
}

// LoadBytes parses a JSON document of shape T. The name is only used in
// error messages.
func LoadBytes[T any](data []byte, name string) (*T, error) {
	doc := new(T)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return validated(doc, name)
}

// LoadYAML reads and parses a YAML document of shape T from path. Directive
// documents may be authored in YAML as a convenience.
func LoadYAML[T any](path string) (*T, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return LoadYAMLBytes[T](data, path)
}

// LoadYAMLBytes parses a YAML document of shape T.
func LoadYAMLBytes[T any](data []byte, name string) (*T, error) {
	doc := new(T)
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return validated(doc, name)
}

// IsYAMLPath reports whether a path looks like a YAML document.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Render serializes a document to indented JSON with a trailing newline.
// Fields absent on input stay absent and map key insertion order is
// preserved, so the output parses back to an equal document. HTML escaping
// is disabled: constraint operators like >= must render verbatim.
func Render(doc any, indent int) (string, error) {
	if indent < 0 {
		indent = 0
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return buf.String(), nil
}

// Write renders a document and replaces the file at path atomically, so a
// failed render never leaves a partial document behind.
func Write(path string, doc any, indent int) error {
	text, err := Render(doc, indent)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	if err := CheckFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func validated[T any](doc *T, name string) (*T, error) {
	if v, ok := any(doc).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}
	return doc, nil
}
