package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"adaptercheck/internal/manifest"
)

const flatManifest = `sources:
  - source_id: appen-crowdgen
    crawlability: public_html
    priority: 3
  - source_id: clickworker
    crawlability: public_html
    enabled: true
`

func TestParseFlatSchema(t *testing.T) {
	sources, err := manifest.Parse([]byte(flatManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].ID != "appen-crowdgen" {
		t.Errorf("first source id: got %q", sources[0].ID)
	}
	if sources[0].Fields["crawlability"] != "public_html" {
		t.Errorf("crawlability field: got %q", sources[0].Fields["crawlability"])
	}
	if sources[0].Fields["priority"] != "3" {
		t.Errorf("priority field not stringified: got %q", sources[0].Fields["priority"])
	}
	if sources[1].ID != "clickworker" {
		t.Errorf("second source id: got %q", sources[1].ID)
	}
	if sources[1].Fields["enabled"] != "true" {
		t.Errorf("enabled field: got %q", sources[1].Fields["enabled"])
	}
}

func TestParseMissingSourcesKey(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no sources key", doc: "adapters:\n  - source_id: demo\n"},
		{name: "sources is scalar", doc: "sources: 5\n"},
		{name: "sources is null", doc: "sources:\n"},
		{name: "empty document", doc: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.doc))
			if !errors.Is(err, manifest.ErrNoSources) {
				t.Errorf("expected ErrNoSources, got %v", err)
			}
		})
	}
}

func TestParseEmptySourcesList(t *testing.T) {
	sources, err := manifest.Parse([]byte("sources: []\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected 0 sources, got %d", len(sources))
	}
}

func TestParseEntryWithoutSourceID(t *testing.T) {
	doc := "sources:\n  - description: anonymous entry\n"
	sources, err := manifest.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].ID != "" {
		t.Errorf("expected empty ID, got %q", sources[0].ID)
	}
	if sources[0].Fields["description"] != "anonymous entry" {
		t.Errorf("extra field lost: %+v", sources[0].Fields)
	}
}

// TestParsersAgreeOnFlatManifests is the dual-producer property: both
// parsers must yield the same logical result for the restricted flat
// schema the manifest actually uses.
func TestParsersAgreeOnFlatManifests(t *testing.T) {
	docs := map[string]string{
		"two sources":   flatManifest,
		"single source": "sources:\n  - source_id: demo\n",
		"mixed scalars": "sources:\n  - source_id: demo\n    priority: 3\n    enabled: true\n    note: hello world\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			full, err := manifest.Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			flat, err := manifest.ParseFlat([]byte(doc))
			if err != nil {
				t.Fatalf("ParseFlat: %v", err)
			}
			if !reflect.DeepEqual(full, flat) {
				t.Errorf("parsers disagree:\nfull: %+v\nflat: %+v", full, flat)
			}
		})
	}
}

func TestParseFlatNoSourcesLine(t *testing.T) {
	_, err := manifest.ParseFlat([]byte("adapters:\n  - source_id: demo\n"))
	if !errors.Is(err, manifest.ErrNoSources) {
		t.Errorf("expected ErrNoSources, got %v", err)
	}
}

func TestParseFlatRepeatedKeyLastWins(t *testing.T) {
	doc := "sources:\n  - source_id: demo\n    crawlability: api\n    crawlability: rss\n"
	sources, err := manifest.ParseFlat([]byte(doc))
	if err != nil {
		t.Fatalf("ParseFlat: %v", err)
	}
	if sources[0].Fields["crawlability"] != "rss" {
		t.Errorf("expected last-wins value, got %q", sources[0].Fields["crawlability"])
	}
}

func TestParseFlatIgnoresLeadingContent(t *testing.T) {
	doc := "# manifest of declared sources\nsources:\n  - source_id: demo\n"
	sources, err := manifest.ParseFlat([]byte(doc))
	if err != nil {
		t.Fatalf("ParseFlat: %v", err)
	}
	if len(sources) != 1 || sources[0].ID != "demo" {
		t.Errorf("unexpected result: %+v", sources)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	if err := os.WriteFile(path, []byte(flatManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	sources, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(sources))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := manifest.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestLoadWrapsSchemaError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	if err := os.WriteFile(path, []byte("adapters: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := manifest.Load(path)
	if !errors.Is(err, manifest.ErrNoSources) {
		t.Errorf("expected ErrNoSources, got %v", err)
	}
}
