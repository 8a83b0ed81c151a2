package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/disrupt"
)

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	if err := run(nil); err == nil {
		t.Fatal("expected usage error for empty args")
	}
	if err := run([]string{"unknown"}); err == nil {
		t.Fatal("expected usage error for unknown command")
	}
}

func TestRun_FlagValidation(t *testing.T) {
	t.Parallel()

	if err := run([]string{"score"}); err == nil {
		t.Fatal("expected score flag error")
	}
	if err := run([]string{"validate"}); err == nil {
		t.Fatal("expected validate flag error")
	}
	if err := run([]string{"inspect"}); err == nil {
		t.Fatal("expected inspect flag error")
	}
}

const sampleDocumentsCSV = `county,year,ideology_score,policy_change_category,primary_topic,filename
Alameda County,2019,0.1,continuation,charging,a1.txt
Alameda County,2019,0.2,continuation,charging,a2.txt
Alameda County,2019,0.3,not_addressed,sentencing,a3.txt
Alameda County,2020,1.5,clearly_new_policy,bail,a4.txt
Alameda County,2020,1.6,clearly_new_policy,bail,a5.txt
Alameda County,2020,1.4,clearly_new_policy,diversion,a6.txt
`

func writeSampleDocuments(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "coded.csv")
	if err := os.WriteFile(path, []byte(sampleDocumentsCSV), 0o644); err != nil {
		t.Fatalf("write documents csv: %v", err)
	}
	return path
}

func TestRunScore_WritesOutputs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputPath := writeSampleDocuments(t, root)
	outDir := filepath.Join(root, "out")

	if err := run([]string{"score", "-input", inputPath, "-out", outDir}); err != nil {
		t.Fatalf("run score: %v", err)
	}
	assertExists(t, filepath.Join(outDir, disrupt.DisruptionsFile))
	assertExists(t, filepath.Join(outDir, disrupt.ReformsFile))
	assertExists(t, filepath.Join(outDir, disrupt.SummaryFile))
	assertExists(t, filepath.Join(outDir, disrupt.DiagnosticsFile))
}

func TestRunScore_WithConfigAndElections(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputPath := writeSampleDocuments(t, root)

	configPath := filepath.Join(root, "config.yml")
	if err := os.WriteFile(configPath, []byte("min_docs: 2\nlookback_years: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	electionsPath := filepath.Join(root, "elections.csv")
	elections := "county,election_year,winner_name\nAlameda,2018,O'Malley\n"
	if err := os.WriteFile(electionsPath, []byte(elections), 0o644); err != nil {
		t.Fatalf("write elections: %v", err)
	}

	outDir := filepath.Join(root, "out")
	args := []string{
		"score",
		"-input", inputPath,
		"-elections", electionsPath,
		"-config", configPath,
		"-out", outDir,
	}
	if err := run(args); err != nil {
		t.Fatalf("run score: %v", err)
	}
	assertExists(t, filepath.Join(outDir, disrupt.DisruptionsFile))
}

func TestRunScore_BadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputPath := writeSampleDocuments(t, root)
	configPath := filepath.Join(root, "config.yml")
	if err := os.WriteFile(configPath, []byte("min_docs: -2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := run([]string{"score", "-input", inputPath, "-config", configPath, "-out", filepath.Join(root, "out")})
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputPath := writeSampleDocuments(t, root)
	if err := run([]string{"validate", "-input", inputPath}); err != nil {
		t.Fatalf("run validate: %v", err)
	}
	if err := run([]string{"validate", "-input", filepath.Join(root, "missing.csv")}); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunInspect(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputPath := writeSampleDocuments(t, root)
	args := []string{"inspect", "-input", inputPath, "-county", "Alameda County", "-year", "2020"}
	if err := run(args); err != nil {
		t.Fatalf("run inspect: %v", err)
	}

	args = []string{"inspect", "-input", inputPath, "-county", "Modoc County", "-year", "2020"}
	if err := run(args); err == nil {
		t.Fatal("expected error for unknown cohort")
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
}
