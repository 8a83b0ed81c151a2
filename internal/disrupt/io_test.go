package disrupt

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleOutput() Output {
	year := 2019
	return Output{
		Disruptions: []DisruptionRecord{
			{
				County:         "Alameda County",
				Year:           2020,
				Score:          0.81,
				Classification: ClassMajor,
				Direction:      DirectionProgressive,
				NDocuments:     5,
				MeanIdeology:   fptr(1.6),
				Election: ElectionFields{
					ElectionYear: &year,
					WinnerName:   sptr("Price"),
				},
			},
		},
		NovelReforms: []NovelReformRecord{
			{
				County:         "Alameda County",
				Year:           2020,
				ReformType:     ReformNovelTopic,
				ReformName:     "bail",
				Document:       "alameda_2020_01.txt",
				IdeologyScore:  fptr(1.8),
				StatewideFirst: true,
				AdoptionRank:   1,
			},
		},
		Summaries: []CountySummaryRecord{
			{
				County:             "Alameda County",
				NCountyYears:       2,
				NDisruptions:       1,
				NMajorDisruptions:  1,
				FirstDisruption:    &year,
				MostDisruptiveYear: 2020,
				MaxScore:           0.81,
				DominantDirection:  DirectionProgressive,
				NNovelReforms:      1,
			},
		},
		Diagnostics: Diagnostics{
			RunID:           "test-run",
			RowsRead:        12,
			CohortsScored:   2,
			Classifications: map[Classification]int{ClassMajor: 1, ClassStable: 1},
		},
	}
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	rows, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return rows
}

func TestWriteOutput_AllFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := WriteOutput(dir, sampleOutput()); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	disruptions := readCSVFile(t, filepath.Join(dir, DisruptionsFile))
	if len(disruptions) != 2 {
		t.Fatalf("disruptions rows = %d, want header + 1", len(disruptions))
	}
	if got := disruptions[0][0]; got != "county" {
		t.Fatalf("header starts with %q", got)
	}
	if len(disruptions[1]) != len(disruptionHeader) {
		t.Fatalf("row width %d, header width %d", len(disruptions[1]), len(disruptionHeader))
	}
	row := disruptions[1]
	if row[0] != "Alameda County" || row[1] != "2020" || row[3] != "major_disruption" {
		t.Fatalf("row = %v", row)
	}

	reforms := readCSVFile(t, filepath.Join(dir, ReformsFile))
	if len(reforms) != 2 || reforms[1][3] != "bail" || reforms[1][6] != "true" {
		t.Fatalf("reforms = %v", reforms)
	}

	summary := readCSVFile(t, filepath.Join(dir, SummaryFile))
	if len(summary) != 2 || summary[1][7] != "progressive" {
		t.Fatalf("summary = %v", summary)
	}

	content, err := os.ReadFile(filepath.Join(dir, DiagnosticsFile))
	if err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	var diag Diagnostics
	if err := json.Unmarshal(content, &diag); err != nil {
		t.Fatalf("parse diagnostics: %v", err)
	}
	if diag.RunID != "test-run" || diag.Classifications[ClassMajor] != 1 {
		t.Fatalf("diagnostics = %+v", diag)
	}
	if content[len(content)-1] != '\n' {
		t.Error("diagnostics file missing trailing newline")
	}
}

func TestWriteOutput_AbsentFieldsEmptyCells(t *testing.T) {
	t.Parallel()

	out := Output{
		Disruptions: []DisruptionRecord{
			{County: "Kern County", Year: 2019, Classification: ClassStable, Direction: DirectionNeutral},
		},
		Diagnostics: Diagnostics{RunID: "r", Classifications: map[Classification]int{}},
	}
	dir := t.TempDir()
	if err := WriteOutput(dir, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	rows := readCSVFile(t, filepath.Join(dir, DisruptionsFile))
	row := rows[1]
	colIndex := make(map[string]int)
	for i, name := range rows[0] {
		colIndex[name] = i
	}
	for _, name := range []string{"mean_ideology_score", "election_year", "winner_name", "challenger_won"} {
		if cell := row[colIndex[name]]; cell != "" {
			t.Errorf("%s = %q, want empty", name, cell)
		}
	}
}

func TestWriteOutput_ByteIdentical(t *testing.T) {
	t.Parallel()

	dirA := t.TempDir()
	dirB := t.TempDir()
	out := sampleOutput()
	if err := WriteOutput(dirA, out); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteOutput(dirB, out); err != nil {
		t.Fatalf("second write: %v", err)
	}

	for _, name := range []string{DisruptionsFile, ReformsFile, SummaryFile, DiagnosticsFile} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s differs between identical writes", name)
		}
	}
}

func TestWriteOutput_CreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "results", "run1")
	if err := WriteOutput(dir, sampleOutput()); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DiagnosticsFile)); err != nil {
		t.Fatalf("diagnostics not written: %v", err)
	}
}
