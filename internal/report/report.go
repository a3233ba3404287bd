// Package report runs the fixture contract check over every declared
// source and aggregates the result. The pass never stops at the first
// violation: the exit code is a pure function of whether the accumulated
// violation list is empty.
package report

import (
	"fmt"
	"io"

	"adaptercheck/internal/contract"
	"adaptercheck/internal/manifest"
)

// Runner wires the manifest reader and the contract checker into one pass.
type Runner struct {
	// ManifestPath is the declarative source manifest (sources.yaml).
	ManifestPath string

	Checker *contract.Checker
}

// Report is the outcome of one full check pass.
type Report struct {
	SourcesChecked int
	Violations     []string
}

// Run loads the manifest and checks every declared source in manifest
// order. The returned error covers the fatal tier only (unreadable or
// structurally invalid manifest); every per-source problem lands in the
// report's violation list instead.
func (r *Runner) Run() (*Report, error) {
	sources, err := manifest.Load(r.ManifestPath)
	if err != nil {
		return nil, err
	}

	// One read for the whole pass; "" when the file is absent, which
	// degrades reference checks to not-found instead of aborting.
	adapterText := r.Checker.AdapterText()

	rep := &Report{SourcesChecked: len(sources)}
	for _, src := range sources {
		if src.ID == "" {
			rep.Violations = append(rep.Violations,
				fmt.Sprintf("%s entry missing source_id", r.ManifestPath))
			continue
		}
		rep.Violations = append(rep.Violations, r.Checker.CheckFixtureBundle(src.ID)...)
		if !r.Checker.HasTestReference(src.ID, adapterText) {
			rep.Violations = append(rep.Violations,
				fmt.Sprintf("missing parse test reference for source_id=%s", src.ID))
		}
	}
	return rep, nil
}

// Passed reports whether the pass recorded no violations.
func (rep *Report) Passed() bool { return len(rep.Violations) == 0 }

// ExitCode is 0 when all contracts are satisfied and 1 otherwise.
func (rep *Report) ExitCode() int {
	if rep.Passed() {
		return 0
	}
	return 1
}

// Render writes the one-line success summary to stdout, or a header plus
// one line per violation to stderr.
func (rep *Report) Render(stdout, stderr io.Writer) {
	if rep.Passed() {
		fmt.Fprintf(stdout, "Adapter contract checks passed for %d sources\n", rep.SourcesChecked)
		return
	}
	fmt.Fprintln(stderr, "Adapter contract checks failed:")
	for _, v := range rep.Violations {
		fmt.Fprintf(stderr, "- %s\n", v)
	}
}
