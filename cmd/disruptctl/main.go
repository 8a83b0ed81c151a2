package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/codebook"
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/disrupt"
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "disruptctl: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usageError()
	}

	switch args[0] {
	case "score":
		return runScore(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "inspect":
		return runInspect(args[1:])
	default:
		return usageError()
	}
}

func runScore(args []string) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	inputPattern := fs.String("input", "", "coded documents csv path or glob (doublestar)")
	electionsPath := fs.String("elections", "", "election margins csv (optional)")
	configPath := fs.String("config", "", "scoring config yaml (optional)")
	codebookPath := fs.String("codebook", "", "markdown codebook (optional)")
	outDir := fs.String("out", "", "output directory")
	verbose := fs.Bool("v", false, "verbose diagnostics to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPattern == "" || *outDir == "" {
		return errors.New("score requires -input and -out")
	}

	logger := log.New(os.Stderr, *verbose)

	cfg, err := disrupt.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	cb := codebook.Default()
	if *codebookPath != "" {
		cb, err = codebook.Load(*codebookPath)
		if err != nil {
			return err
		}
	}

	docs, stats, err := dataset.ReadAllDocuments([]string{*inputPattern})
	if err != nil {
		return err
	}
	logger.Printf("loaded %d rows (%d dropped for missing county/year)",
		stats.RowsRead, stats.RowsDroppedMissingKey)

	var elections []dataset.ElectionRecord
	if *electionsPath != "" {
		elections, err = dataset.ReadElections(*electionsPath)
		if err != nil {
			return err
		}
		logger.Printf("loaded %d election records", len(elections))
	}

	out, err := disrupt.Run(docs, elections, cb, cfg, stats, logger)
	if err != nil {
		return err
	}
	if err := disrupt.WriteOutput(*outDir, out); err != nil {
		return err
	}

	printScoreSummary(out)
	fmt.Printf("disruptions: %s\n", filepath.Join(*outDir, disrupt.DisruptionsFile))
	fmt.Printf("reforms:     %s\n", filepath.Join(*outDir, disrupt.ReformsFile))
	fmt.Printf("summary:     %s\n", filepath.Join(*outDir, disrupt.SummaryFile))
	fmt.Printf("diagnostics: %s\n", filepath.Join(*outDir, disrupt.DiagnosticsFile))
	return nil
}

// topDisruptionsShown caps the console listing after a scoring run.
const topDisruptionsShown = 10

func printScoreSummary(out disrupt.Output) {
	fmt.Printf("scored %d county-years, %d novel reforms, %d counties\n",
		len(out.Disruptions), len(out.NovelReforms), len(out.Summaries))

	order := []disrupt.Classification{
		disrupt.ClassMajor, disrupt.ClassSignificant, disrupt.ClassModerate,
		disrupt.ClassMinor, disrupt.ClassStable,
	}
	for _, class := range order {
		if n := out.Diagnostics.Classifications[class]; n > 0 {
			fmt.Printf("  %-23s %d\n", class, n)
		}
	}

	ranked := make([]disrupt.DisruptionRecord, len(out.Disruptions))
	copy(ranked, out.Disruptions)
	sort.SliceStable(ranked, func(i int, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topDisruptionsShown {
		ranked = ranked[:topDisruptionsShown]
	}
	for _, r := range ranked {
		fmt.Printf("  %.3f  %-22s %s %d (%s)\n",
			r.Score, r.Classification, r.County, r.Year, r.Direction)
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	inputPattern := fs.String("input", "", "coded documents csv path or glob (doublestar)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPattern == "" {
		return errors.New("validate requires -input")
	}

	paths, err := dataset.Discover([]string{*inputPattern})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files match %q", *inputPattern)
	}

	for _, path := range paths {
		docs, stats, err := dataset.ReadDocuments(path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d rows, %d dropped, %d unrecognized policy_change values\n",
			path, stats.RowsRead, stats.RowsDroppedMissingKey, stats.UnrecognizedChangeVals)

		coverage := dataset.Coverage(docs)
		cols := make([]string, 0, len(coverage))
		for col := range coverage {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			fmt.Printf("  %-20s %5.1f%%\n", col, coverage[col]*100)
		}
	}
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	inputPattern := fs.String("input", "", "coded documents csv path or glob (doublestar)")
	county := fs.String("county", "", "county name")
	year := fs.Int("year", 0, "cohort year")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPattern == "" || *county == "" || *year == 0 {
		return errors.New("inspect requires -input, -county, and -year")
	}

	docs, _, err := dataset.ReadAllDocuments([]string{*inputPattern})
	if err != nil {
		return err
	}

	evidence, err := disrupt.BuildEvidence(docs, *county, *year)
	if err != nil {
		return err
	}
	return printJSON(evidence)
}

func usageError() error {
	return errors.New("usage: disruptctl <score|validate|inspect> [flags]")
}
