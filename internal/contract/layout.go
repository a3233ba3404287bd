package contract

import "path/filepath"

// Layout owns the fixture directory convention. The fixed shape
// fixtures/<source_id>/sample/{bundle,snapshot}.json is effectively a
// schema shared with the extraction pipeline, so every path is derived
// here and nowhere else.
type Layout struct {
	// FixturesDir is the root of the fixture tree, usually "fixtures"
	// relative to the checked repository.
	FixturesDir string
}

// SampleDir returns the sample capture directory for a source.
func (l Layout) SampleDir(sourceID string) string {
	return filepath.Join(l.FixturesDir, sourceID, "sample")
}

// BundlePath returns the fixture bundle path for a source.
func (l Layout) BundlePath(sourceID string) string {
	return filepath.Join(l.SampleDir(sourceID), "bundle.json")
}

// SnapshotPath returns the parsed-record snapshot path for a source.
func (l Layout) SnapshotPath(sourceID string) string {
	return filepath.Join(l.SampleDir(sourceID), "snapshot.json")
}
