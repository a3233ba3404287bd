package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"adaptercheck/internal/config"
	"adaptercheck/internal/contract"
	"adaptercheck/internal/fixture"
	"adaptercheck/internal/manifest"
	"adaptercheck/internal/report"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "check",
		short: "Run the full fixture contract pass",
		usage: "adaptercheck check",
		long: `Check every source declared in the manifest.

For each source, verifies the sample fixture bundle, the parsed-record
snapshot, and that the source id is referenced by the adapter
implementation or its tests. Prints one line per violation to stderr
and exits 1 if any contract is unsatisfied.
`,
		run: runCheck,
	},
	{
		name:  "sources",
		short: "List the sources declared in the manifest",
		usage: "adaptercheck sources",
		long: `Print each declared source id and its extra manifest fields.

Reads the manifest only; no fixture or adapter files are touched.
`,
		run: runSources,
	},
	{
		name:  "refs",
		short: "Show adapter package files referencing a source id",
		usage: "adaptercheck refs <source-id>",
		long: `Scan the adapter package for files mentioning <source-id>.

Loads the package so build-tagged and test files are covered; falls back
to a plain directory scan when the package cannot be loaded.
`,
		run: runRefs,
	},
	{
		name:  "scaffold",
		short: "Create a skeleton fixture bundle for a new source",
		usage: "adaptercheck scaffold <source-id>",
		long: `Create fixtures/<source-id>/sample/bundle.json and snapshot.json.

Prompts for crawlability, captured-from URL, and extractor version, then
writes a minimal bundle that satisfies the contract checks. Errors if the
bundle already exists.
`,
		run: runScaffold,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "adaptercheck — fixture contract checks for source adapters\n\n")
	fmt.Fprintf(w, "Usage:\n  adaptercheck <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'adaptercheck help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "adaptercheck: unknown command %q\n\nRun 'adaptercheck help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(os.Stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(os.Stdout, args[1])
		} else {
			printUsage(os.Stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'adaptercheck help' for usage.", args[0])
}

// loadChecker builds a contract checker from the optional settings file in
// the current directory.
func loadChecker() (*contract.Checker, string, error) {
	settings, err := config.Load(".")
	if err != nil {
		return nil, "", err
	}
	checker := &contract.Checker{
		Layout:      contract.Layout{FixturesDir: settings.FixturesRoot()},
		AdapterFile: settings.AdapterFile(),
		TestsDir:    settings.AdapterTestsDir(),
		TestSuffix:  settings.AdapterTestSuffix(),
	}
	return checker, settings.ManifestPath(), nil
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func runCheck(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: adaptercheck check")
	}
	checker, manifestPath, err := loadChecker()
	if err != nil {
		return err
	}
	runner := &report.Runner{ManifestPath: manifestPath, Checker: checker}
	rep, err := runner.Run()
	if err != nil {
		// Fatal tier: no source list, no report.
		return err
	}
	rep.Render(os.Stdout, os.Stderr)
	if code := rep.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

// ---------------------------------------------------------------------------
// sources
// ---------------------------------------------------------------------------

func runSources(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: adaptercheck sources")
	}
	settings, err := config.Load(".")
	if err != nil {
		return err
	}
	sources, err := manifest.Load(settings.ManifestPath())
	if err != nil {
		return err
	}
	for _, src := range sources {
		id := src.ID
		if id == "" {
			id = "<missing source_id>"
		}
		fmt.Println(id)
		keys := make([]string, 0, len(src.Fields))
		for key := range src.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("  %s: %s\n", key, src.Fields[key])
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// refs
// ---------------------------------------------------------------------------

func runRefs(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adaptercheck refs <source-id>")
	}
	sourceID := args[0]
	settings, err := config.Load(".")
	if err != nil {
		return err
	}
	scanner := &contract.ReferenceScanner{Dir: settings.AdapterTestsDir()}
	matches, err := scanner.References(sourceID)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no adapter package file references %q", sourceID)
	}
	for _, path := range matches {
		fmt.Println(path)
	}
	return nil
}

// ---------------------------------------------------------------------------
// scaffold
// ---------------------------------------------------------------------------

// scaffoldQuestion is one interactive prompt for the scaffold command.
type scaffoldQuestion struct {
	key    string
	prompt string
}

var scaffoldQuestions = []scaffoldQuestion{
	{key: "crawlability", prompt: "Crawlability (public_html, api, rss, gated, manual_only)"},
	{key: "captured_from_url", prompt: "Captured-from URL"},
	{key: "extractor_version", prompt: "Extractor version"},
}

func runScaffold(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adaptercheck scaffold <source-id>")
	}
	sourceID := args[0]
	settings, err := config.Load(".")
	if err != nil {
		return err
	}

	answers, err := promptQuestions(scaffoldQuestions)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	layout := contract.Layout{FixturesDir: settings.FixturesRoot()}
	bundle := fixture.Skeleton(
		sourceID,
		answers["crawlability"],
		answers["captured_from_url"],
		answers["extractor_version"],
		time.Now(),
	)
	if err := fixture.WriteSkeleton(layout, bundle); err != nil {
		return err
	}
	fmt.Printf("scaffolded %s and %s\n", layout.BundlePath(sourceID), layout.SnapshotPath(sourceID))
	return nil
}

// ---------------------------------------------------------------------------
// TUI prompt helpers
// ---------------------------------------------------------------------------

// promptModel is a bubbletea model that asks one question at a time.
type promptModel struct {
	questions []scaffoldQuestion
	idx       int
	inputs    []textinput.Model
	done      bool
}

func newPromptModel(questions []scaffoldQuestion) promptModel {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.prompt
		ti.CharLimit = 512
		inputs[i] = ti
	}
	m := promptModel{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	return fmt.Sprintf("%s: %s\n", q.prompt, m.inputs[m.idx].View())
}

// promptQuestions runs the TUI and returns answers keyed by question key.
func promptQuestions(questions []scaffoldQuestion) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	m := newPromptModel(questions)
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return nil, fmt.Errorf("prompt cancelled")
	}
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		answers[q.key] = final.inputs[i].Value()
	}
	return answers, nil
}

func main() {
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
