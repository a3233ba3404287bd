package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// ReferenceScanner locates files in a Go adapter package that mention a
// source id. It loads the package with go/packages so generated or
// build-tagged files the directory glob would miss are still covered; when
// loading fails (no module context, broken package) it falls back to a
// plain *.go scan of the directory.
type ReferenceScanner struct {
	// Dir is the adapter package directory.
	Dir string
}

// References returns the paths of package files whose text contains the
// literal sourceID, sorted for deterministic output.
func (s *ReferenceScanner) References(sourceID string) ([]string, error) {
	files, err := s.packageFiles()
	if err != nil {
		files, err = s.dirFiles()
		if err != nil {
			return nil, err
		}
	}

	var matches []string
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if strings.Contains(string(data), sourceID) {
			matches = append(matches, path)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// packageFiles lists the adapter package's Go files (tests included) via
// go/packages.
func (s *ReferenceScanner) packageFiles() ([]string, error) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles,
		Dir:   s.Dir,
		Tests: true,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("packages.Load: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", s.Dir)
	}

	seen := make(map[string]bool)
	var files []string
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("load %s: %v", s.Dir, pkg.Errors[0])
		}
		for _, f := range pkg.GoFiles {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files in %s", s.Dir)
	}
	return files, nil
}

// dirFiles is the AST-free fallback: every *.go file directly in Dir.
func (s *ReferenceScanner) dirFiles() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".go" {
			continue
		}
		files = append(files, filepath.Join(s.Dir, e.Name()))
	}
	return files, nil
}
