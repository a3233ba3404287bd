// Package fixture holds the typed fixture bundle model shared with the
// extraction pipeline, and the skeleton writer behind the scaffold
// command. The check pass never uses the writer; it inspects bundles
// generically so a malformed producer-side file still yields per-field
// violations instead of a decode error.
package fixture

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"adaptercheck/internal/contract"
)

// Bundle is a captured sample of a source's raw and parsed output.
type Bundle struct {
	FixtureID               string         `json:"fixture_id"`
	SourceID                string         `json:"source_id"`
	Crawlability            string         `json:"crawlability"`
	CapturedFromURL         string         `json:"captured_from_url"`
	FetchedAt               time.Time      `json:"fetched_at"`
	ExtractorVersion        string         `json:"extractor_version"`
	RawArtifact             RawArtifact    `json:"raw_artifact"`
	ParsedRecords           []ParsedRecord `json:"parsed_records"`
	EvidenceCoveragePercent float64        `json:"evidence_coverage_percent"`
	Notes                   string         `json:"notes,omitempty"`
}

// RawArtifact describes the captured raw content, stored inline or by path.
type RawArtifact struct {
	ContentType string `json:"content_type"`
	Path        string `json:"path,omitempty"`
	InlineText  string `json:"inline_text,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
}

// ParsedRecord maps canonical field names to their extracted values with
// provenance.
type ParsedRecord map[string]Field

// Field is one extracted value plus the selector and snippet that
// evidence it.
type Field struct {
	Value             any    `json:"value"`
	SelectorOrPointer string `json:"selector_or_pointer"`
	Snippet           string `json:"snippet"`
}

// Load reads and decodes a typed bundle from path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &b, nil
}

// SHA256Hex returns the hex-encoded SHA256 of b, the hash format stored
// in raw_artifact.sha256.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Skeleton returns a minimal bundle for sourceID that satisfies the
// contract checks: one placeholder record and full evidence coverage.
// The inline raw artifact is hashed so the bundle is internally consistent.
func Skeleton(sourceID, crawlability, capturedFromURL, extractorVersion string, now time.Time) *Bundle {
	inline := "<placeholder raw artifact>"
	return &Bundle{
		FixtureID:        sourceID + "-sample",
		SourceID:         sourceID,
		Crawlability:     crawlability,
		CapturedFromURL:  capturedFromURL,
		FetchedAt:        now.UTC(),
		ExtractorVersion: extractorVersion,
		RawArtifact: RawArtifact{
			ContentType: "text/html",
			InlineText:  inline,
			SHA256:      SHA256Hex([]byte(inline)),
		},
		ParsedRecords: []ParsedRecord{
			{
				"title": Field{
					Value:             "PLACEHOLDER — replace with a real captured record",
					SelectorOrPointer: "",
					Snippet:           "",
				},
			},
		},
		EvidenceCoveragePercent: 100,
		Notes:                   "scaffolded by adaptercheck; replace placeholder content before relying on it",
	}
}

// WriteSkeleton creates the sample directory for the bundle's source and
// writes bundle.json plus a one-record snapshot.json. Errors if the bundle
// already exists — scaffolding never overwrites captured fixtures.
func WriteSkeleton(layout contract.Layout, b *Bundle) error {
	bundlePath := layout.BundlePath(b.SourceID)
	if _, err := os.Stat(bundlePath); err == nil {
		return fmt.Errorf("fixture bundle already exists: %s", bundlePath)
	}
	if err := os.MkdirAll(layout.SampleDir(b.SourceID), 0o755); err != nil {
		return fmt.Errorf("create sample dir: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	if err := os.WriteFile(bundlePath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", bundlePath, err)
	}

	snapshot := make([]map[string]any, 0, len(b.ParsedRecords))
	for _, rec := range b.ParsedRecords {
		row := make(map[string]any, len(rec))
		for name, field := range rec {
			row[name] = field.Value
		}
		snapshot = append(snapshot, row)
	}
	snapData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	snapPath := layout.SnapshotPath(b.SourceID)
	if err := os.WriteFile(snapPath, append(snapData, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", snapPath, err)
	}
	return nil
}
