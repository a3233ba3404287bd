// Package manifest loads the declared source list from sources.yaml.
//
// Two independent producers yield the same logical result for the flat
// schema the manifest actually uses (a `sources:` list of scalar mappings):
//
//	Parse     — full YAML parse via gopkg.in/yaml.v3
//	ParseFlat — line-oriented recovery parser over the restricted grammar
//
// ParseFlat handles flat scalar values only; nested structures, lists of
// lists, and quoting are out of its grammar.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSources is returned when the manifest has no top-level `sources` list.
// Callers treat it as fatal: no source list means no report can be produced.
var ErrNoSources = errors.New("manifest must contain top-level 'sources:' list")

// Source is one declared source descriptor. ID holds the source_id field;
// every other scalar field is carried in Fields, unvalidated.
type Source struct {
	ID     string
	Fields map[string]string
}

// Load reads the manifest file at path and parses it with the full parser.
func Load(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sources, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sources, nil
}

// Parse decodes the manifest with yaml.v3 and requires a mapping whose
// `sources` key holds a sequence. Entries are converted to the canonical
// Source shape; scalar extra fields are stringified.
func Parse(data []byte) ([]Source, error) {
	var doc struct {
		Sources []map[string]any `yaml:"sources"`
	}
	var probe any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	root, ok := probe.(map[string]any)
	if !ok {
		return nil, ErrNoSources
	}
	raw, ok := root["sources"]
	if !ok {
		return nil, ErrNoSources
	}
	if _, ok := raw.([]any); !ok {
		return nil, ErrNoSources
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	sources := make([]Source, 0, len(doc.Sources))
	for _, entry := range doc.Sources {
		src := Source{Fields: map[string]string{}}
		for key, value := range entry {
			s := scalarString(value)
			if key == "source_id" {
				src.ID = s
				continue
			}
			src.Fields[key] = s
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// ParseFlat recovers the source list from the restricted flat grammar:
// an entry starts at a `- source_id: <value>` line and subsequent
// `<key>: <value>` lines (not list-item markers) extend it until the next
// entry or end of input. Repeated keys within one entry are last-wins.
func ParseFlat(data []byte) ([]Source, error) {
	lines := strings.Split(string(data), "\n")

	found := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "sources:" {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoSources
	}

	var sources []Source
	var current *Source
	for _, raw := range lines {
		stripped := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(stripped, "- source_id:"):
			if current != nil {
				sources = append(sources, *current)
			}
			_, value, _ := strings.Cut(stripped, ":")
			current = &Source{
				ID:     strings.TrimSpace(value),
				Fields: map[string]string{},
			}
		case current != nil && strings.Contains(stripped, ":") && !strings.HasPrefix(stripped, "- "):
			key, value, _ := strings.Cut(stripped, ":")
			current.Fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	if current != nil {
		sources = append(sources, *current)
	}
	return sources, nil
}

// scalarString renders a parsed YAML scalar the way the flat grammar would
// read it, so both producers agree on flat manifests.
func scalarString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
