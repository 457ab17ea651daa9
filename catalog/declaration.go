// Package catalog builds enumerations from YAML declaration files and serves
// their options over HTTP.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pitabwire/selectable"
)

// File is the content of one declaration file.
type File struct {
	Enumerations []Declaration `json:"enumerations" yaml:"enumerations"`
}

// Declaration describes one enumeration. Ids are strings.
type Declaration struct {
	Name      string   `json:"name"                yaml:"name"`
	Attribute string   `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Scope     []string `json:"scope,omitempty"     yaml:"scope,omitempty"`
	// Accessor replaces the base of derived accessor names, e.g. "type" for
	// product_type_cd read as type_key instead of product_type_key.
	Accessor string `json:"accessor,omitempty" yaml:"accessor,omitempty"`

	Default    *string `json:"default,omitempty"     yaml:"default,omitempty"`
	DefaultKey string  `json:"default_key,omitempty" yaml:"default_key,omitempty"`

	Entries []EntryDeclaration `json:"entries" yaml:"entries"`
	Source  *SourceDeclaration `json:"source,omitempty" yaml:"source,omitempty"`
}

type EntryDeclaration struct {
	ID    string         `json:"id"              yaml:"id"`
	Key   string         `json:"key"             yaml:"key"`
	Name  string         `json:"name,omitempty"  yaml:"name,omitempty"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// SourceDeclaration selects the override rows of an enumeration: either the
// item_masters rows of Category or the result of Query.
type SourceDeclaration struct {
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Query    string `json:"query,omitempty"    yaml:"query,omitempty"`
	// Locale restricts rows to the locale of the read. Queries then bind it to @locale.
	Locale bool   `json:"locale,omitempty" yaml:"locale,omitempty"`
	Policy string `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// Key is the registry key the declaration is built under.
func (d Declaration) Key() string {
	if d.Attribute == "" {
		return d.Name
	}
	return d.Name + "." + d.Attribute
}

// Validate checks what can be checked without building the enumeration.
// Duplicate ids and keys are reported by selectable.New.
func (d Declaration) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	for i, e := range d.Entries {
		if strings.TrimSpace(e.Key) == "" {
			return fmt.Errorf("%s: entries[%d].key is required", d.Key(), i)
		}
	}
	if d.Default != nil && d.DefaultKey != "" {
		return fmt.Errorf("%s: default and default_key are exclusive", d.Key())
	}
	if d.Source == nil {
		return nil
	}
	if (d.Source.Category == "") == (d.Source.Query == "") {
		return fmt.Errorf("%s: source needs exactly one of category or query", d.Key())
	}
	if _, err := selectable.ParsePolicy(d.Source.Policy); err != nil {
		return fmt.Errorf("%s: %w", d.Key(), err)
	}
	return nil
}

func (d Declaration) definitionEntries() []selectable.EntryDef[string] {
	out := make([]selectable.EntryDef[string], len(d.Entries))
	for i, e := range d.Entries {
		out[i] = selectable.EntryDef[string]{ID: e.ID, Key: e.Key, Name: e.Name, Attrs: e.Attrs}
	}
	return out
}

// LoadFile reads and validates the declarations of one YAML file.
func LoadFile(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, d := range f.Enumerations {
		if err = d.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return f.Enumerations, nil
}

// LoadDir reads every .yaml and .yml file of dir in name order.
func LoadDir(dir string) ([]Declaration, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(de.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, de.Name()))
		}
	}
	slices.Sort(paths)

	var out []Declaration
	for _, p := range paths {
		decls, loadErr := LoadFile(p)
		if loadErr != nil {
			return nil, loadErr
		}
		out = append(out, decls...)
	}
	return out, nil
}
