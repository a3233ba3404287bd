// Package contract validates the fixture contract for declared sources:
// every source must have a sample fixture bundle with the required shape,
// a non-empty parsed-record snapshot, and at least one textual reference
// in the adapter implementation or its tests.
//
// Expected-missing-file conditions are never errors here; they are
// violations in the returned list, so one run surfaces every problem.
package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// minCoveragePercent is the inclusive lower bound for
// evidence_coverage_percent in a fixture bundle.
const minCoveragePercent = 90

// Checker validates one source's fixture artifacts and adapter references.
// All inputs are read-only; the checker never writes.
type Checker struct {
	Layout Layout

	// AdapterFile is the adapter implementation source file.
	AdapterFile string

	// TestsDir holds the adapter test corpus; files ending in TestSuffix
	// are scanned for source_id references.
	TestsDir   string
	TestSuffix string
}

// AdapterText returns the adapter implementation's full source text, or
// the empty string when the file does not exist. A missing adapter file
// degrades every reference check to "not found" rather than failing.
func (c *Checker) AdapterText() string {
	data, err := os.ReadFile(c.AdapterFile)
	if err != nil {
		return ""
	}
	return string(data)
}

// CheckFixtureBundle validates the bundle and snapshot for sourceID and
// returns every violation found. It short-circuits only when a missing or
// unparseable bundle makes the remaining bundle checks meaningless; all
// field checks run independently so one bundle can contribute several
// violations in a single pass.
func (c *Checker) CheckFixtureBundle(sourceID string) []string {
	bundle := c.Layout.BundlePath(sourceID)
	snapshot := c.Layout.SnapshotPath(sourceID)

	var violations []string
	data, err := os.ReadFile(bundle)
	if err != nil {
		violations = append(violations, fmt.Sprintf("missing fixture bundle: %s", bundle))
		return violations
	}

	snapData, snapErr := os.ReadFile(snapshot)
	if snapErr != nil {
		violations = append(violations, fmt.Sprintf("missing snapshot file: %s", snapshot))
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		violations = append(violations, fmt.Sprintf("invalid JSON in %s: %v", bundle, err))
		return violations
	}

	if id, _ := payload["source_id"].(string); id != sourceID {
		violations = append(violations, fmt.Sprintf("bundle source_id mismatch in %s", bundle))
	}
	if !truthy(payload["extractor_version"]) {
		violations = append(violations, fmt.Sprintf("missing extractor_version in %s", bundle))
	}
	if _, ok := payload["crawlability"]; !ok {
		violations = append(violations, fmt.Sprintf("missing crawlability in %s", bundle))
	}
	if _, ok := payload["raw_artifact"]; !ok {
		violations = append(violations, fmt.Sprintf("missing raw_artifact block in %s", bundle))
	}
	if records, ok := payload["parsed_records"].([]any); !ok {
		violations = append(violations, fmt.Sprintf("parsed_records must be a list in %s", bundle))
	} else if len(records) == 0 {
		violations = append(violations, fmt.Sprintf("parsed_records must contain at least one record in %s", bundle))
	}
	if coverage, ok := payload["evidence_coverage_percent"].(float64); !ok {
		violations = append(violations, fmt.Sprintf("missing or invalid evidence_coverage_percent in %s", bundle))
	} else if coverage < minCoveragePercent {
		violations = append(violations, fmt.Sprintf("evidence_coverage_percent < %d in %s (got %v)", minCoveragePercent, bundle, coverage))
	}

	if snapErr == nil {
		var snap any
		if err := json.Unmarshal(snapData, &snap); err != nil {
			violations = append(violations, fmt.Sprintf("invalid JSON in %s: %v", snapshot, err))
		} else if records, ok := snap.([]any); !ok {
			violations = append(violations, fmt.Sprintf("snapshot must be a JSON array in %s", snapshot))
		} else if len(records) == 0 {
			violations = append(violations, fmt.Sprintf("snapshot must contain at least one parsed record in %s", snapshot))
		}
	}
	return violations
}

// HasTestReference reports whether the literal sourceID appears in the
// adapter implementation text or in any test file under TestsDir. This is
// a coarse substring check: false positives (an id in a comment, or "demo"
// inside "demo2") are accepted in exchange for zero false negatives.
func (c *Checker) HasTestReference(sourceID, adapterText string) bool {
	if strings.Contains(adapterText, sourceID) {
		return true
	}
	entries, err := os.ReadDir(c.TestsDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), c.TestSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.TestsDir, e.Name()))
		if err != nil {
			continue
		}
		if strings.Contains(string(data), sourceID) {
			return true
		}
	}
	return false
}

// truthy mirrors the loose presence check applied to extractor_version:
// a missing key, nil, empty string, zero number, or false all fail.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}
