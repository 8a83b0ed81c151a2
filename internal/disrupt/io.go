package disrupt

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Output file names within the output directory.
const (
	DisruptionsFile = "policy_disruptions.csv"
	ReformsFile     = "novel_reforms.csv"
	SummaryFile     = "disruption_summary.csv"
	DiagnosticsFile = "diagnostics.json"
)

// WriteOutput writes the three result tables and the diagnostics report
// into dir. Files are only written after a run has fully succeeded, so a
// failed run never leaves partial output.
func WriteOutput(dir string, out Output) error {
	if err := writeDisruptionsCSV(filepath.Join(dir, DisruptionsFile), out.Disruptions); err != nil {
		return err
	}
	if err := writeReformsCSV(filepath.Join(dir, ReformsFile), out.NovelReforms); err != nil {
		return err
	}
	if err := writeSummaryCSV(filepath.Join(dir, SummaryFile), out.Summaries); err != nil {
		return err
	}
	return WriteJSON(filepath.Join(dir, DiagnosticsFile), out.Diagnostics)
}

// WriteJSON writes an indented JSON document.
func WriteJSON(path string, value any) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	content = append(content, '\n')
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

var disruptionHeader = []string{
	"county", "year",
	"disruption_score", "disruption_classification", "direction",
	"ideology_velocity", "novelty_index", "topic_shift_score",
	"margin_reversal_score", "da_transition_signal",
	"ideology_velocity_norm", "novelty_index_norm", "topic_shift_score_norm",
	"margin_reversal_score_norm",
	"extensive_reversal", "intensive_reversal",
	"n_documents", "n_new_policies",
	"mean_ideology_score", "prior_mean_ideology",
	"election_year", "winner_name", "margin_1st_2nd",
	"close_5pp", "close_10pp", "close_15pp", "challenger_won",
}

func writeDisruptionsCSV(path string, records []DisruptionRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.County, strconv.Itoa(r.Year),
			formatFloat(r.Score), string(r.Classification), r.Direction,
			formatFloat(r.IdeologyVelocity), formatFloat(r.NoveltyIndex),
			formatFloat(r.TopicShift), formatFloat(r.MarginReversal),
			formatFloat(r.DATransition),
			formatFloat(r.IdeologyVelocityNorm), formatFloat(r.NoveltyIndexNorm),
			formatFloat(r.TopicShiftNorm), formatFloat(r.MarginReversalNorm),
			strconv.FormatBool(r.ExtensiveReversal), strconv.FormatBool(r.IntensiveReversal),
			strconv.Itoa(r.NDocuments), strconv.Itoa(r.NNewPolicies),
			formatFloatPtr(r.MeanIdeology), formatFloat(r.PriorMeanIdeology),
			formatIntPtr(r.Election.ElectionYear), formatStringPtr(r.Election.WinnerName),
			formatFloatPtr(r.Election.Margin1st2nd),
			formatBoolPtr(r.Election.Close5pp), formatBoolPtr(r.Election.Close10pp),
			formatBoolPtr(r.Election.Close15pp), formatBoolPtr(r.Election.ChallengerWon),
		})
	}
	return writeCSV(path, disruptionHeader, rows)
}

var reformHeader = []string{
	"county", "year", "reform_type", "reform_name", "document",
	"ideology_score", "statewide_first", "adoption_rank",
}

func writeReformsCSV(path string, records []NovelReformRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.County, strconv.Itoa(r.Year), r.ReformType, r.ReformName, r.Document,
			formatFloatPtr(r.IdeologyScore),
			strconv.FormatBool(r.StatewideFirst), strconv.Itoa(r.AdoptionRank),
		})
	}
	return writeCSV(path, reformHeader, rows)
}

var summaryHeader = []string{
	"county", "n_county_years", "n_disruptions", "n_major_disruptions",
	"first_disruption_year", "most_disruptive_year",
	"max_disruption_score", "dominant_direction", "n_novel_reforms",
}

func writeSummaryCSV(path string, records []CountySummaryRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.County, strconv.Itoa(r.NCountyYears), strconv.Itoa(r.NDisruptions),
			strconv.Itoa(r.NMajorDisruptions),
			formatIntPtr(r.FirstDisruption), strconv.Itoa(r.MostDisruptiveYear),
			formatFloat(r.MaxScore), r.DominantDirection, strconv.Itoa(r.NNovelReforms),
		})
	}
	return writeCSV(path, summaryHeader, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	buffered := bufio.NewWriter(file)
	writer := csv.NewWriter(buffered)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
