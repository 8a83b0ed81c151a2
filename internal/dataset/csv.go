package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Required columns of the coded table. A missing required column is a
// SchemaError and aborts the run before any output is written.
var requiredDocColumns = []string{"county", "year"}

// Optional columns the loader recognizes. Anything else in the header is
// carried through Positions untouched so the reform catalog can address
// columns the loader does not know about.
const (
	colIdeology          = "ideology_score"
	colPolicyChange      = "policy_change_category"
	colPrimaryTopic      = "primary_topic"
	colDAName            = "da_administration_name"
	colExtensiveLenient  = "extensive_lenient"
	colExtensivePunitive = "extensive_punitive"
	colIntensiveLenient  = "intensive_lenient"
	colIntensivePunitive = "intensive_punitive"
	colFilename          = "filename"
)

// SchemaError reports a structurally unusable input table.
type SchemaError struct {
	Path    string
	Column  string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: required column %q missing", e.Path, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ReadDocuments loads one coded-document CSV shard. Rows missing county
// or year are dropped and counted, never propagated as errors.
func ReadDocuments(path string) ([]Document, ReadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("open documents: %w", err)
	}
	defer func() { _ = file.Close() }()

	docs, stats, err := parseDocuments(path, file)
	if err != nil {
		return nil, ReadStats{}, err
	}
	return docs, stats, nil
}

func parseDocuments(path string, r io.Reader) ([]Document, ReadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, ReadStats{}, &SchemaError{Path: path, Message: "empty input table"}
	}
	cols := indexColumns(header)
	for _, name := range requiredDocColumns {
		if _, ok := cols[name]; !ok {
			return nil, ReadStats{}, &SchemaError{Path: path, Column: name}
		}
	}

	known := map[PolicyChange]bool{}
	for _, c := range KnownPolicyChanges() {
		known[c] = true
	}

	docs := make([]Document, 0)
	stats := ReadStats{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ReadStats{}, &SchemaError{Path: path, Message: fmt.Sprintf("malformed csv: %v", err)}
		}
		stats.RowsRead++

		county := cell(row, cols, "county")
		yearRaw := cell(row, cols, "year")
		year, yearOK := parseYear(yearRaw)
		if county == "" || !yearOK {
			stats.RowsDroppedMissingKey++
			continue
		}

		doc := Document{
			County:   county,
			Year:     year,
			RowIndex: len(docs),
			Filename: cell(row, cols, colFilename),
		}
		doc.IdeologyScore = parseFloat(cell(row, cols, colIdeology))
		doc.PrimaryTopic = parseString(cell(row, cols, colPrimaryTopic))
		doc.DAName = parseDAName(cell(row, cols, colDAName))
		doc.ExtensiveLenient = parseBool(cell(row, cols, colExtensiveLenient))
		doc.ExtensivePunitive = parseBool(cell(row, cols, colExtensivePunitive))
		doc.IntensiveLenient = parseBool(cell(row, cols, colIntensiveLenient))
		doc.IntensivePunitive = parseBool(cell(row, cols, colIntensivePunitive))

		change := PolicyChange(strings.ToLower(strings.TrimSpace(cell(row, cols, colPolicyChange))))
		switch {
		case change == "":
			doc.PolicyChange = ChangeNotAddressed
		case known[change]:
			doc.PolicyChange = change
		default:
			doc.PolicyChange = ChangeUnclear
			stats.UnrecognizedChangeVals++
		}

		doc.Positions = collectPositions(header, row, cols)
		docs = append(docs, doc)
	}

	return docs, stats, nil
}

// Required columns of the election table.
var requiredElectionColumns = []string{"county", "election_year"}

// ReadElections loads the election-margin table. Rows missing county or
// election_year are skipped silently; a missing required column is fatal.
func ReadElections(path string) ([]ElectionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elections: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &SchemaError{Path: path, Message: "empty election table"}
	}
	cols := indexColumns(header)
	for _, name := range requiredElectionColumns {
		if _, ok := cols[name]; !ok {
			return nil, &SchemaError{Path: path, Column: name}
		}
	}

	records := make([]ElectionRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SchemaError{Path: path, Message: fmt.Sprintf("malformed csv: %v", err)}
		}

		county := cell(row, cols, "county")
		year, ok := parseYear(cell(row, cols, "election_year"))
		if county == "" || !ok {
			continue
		}

		records = append(records, ElectionRecord{
			County:        county,
			ElectionYear:  year,
			WinnerName:    parseString(cell(row, cols, "winner_name")),
			WinnerPct:     parseFloat(cell(row, cols, "winner_pct")),
			RunnerUpPct:   parseFloat(cell(row, cols, "runnerup_pct")),
			Margin1st2nd:  parseFloat(cell(row, cols, "margin_1st_2nd")),
			Close5pp:      parseBool(cell(row, cols, "close_5pp")),
			Close10pp:     parseBool(cell(row, cols, "close_10pp")),
			Close15pp:     parseBool(cell(row, cols, "close_15pp")),
			ChallengerWon: parseBool(cell(row, cols, "challenger_won")),
		})
	}
	return records, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseYear(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	// Cleaned exports sometimes carry years as floats ("2020.0").
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) && f > 0 {
		return int(f), true
	}
	return 0, false
}

func parseFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// parseDAName treats the coder's "not_mentioned" sentinel as absent.
func parseDAName(raw string) *string {
	if raw == "" || strings.EqualFold(raw, "not_mentioned") {
		return nil
	}
	return &raw
}

func parseBool(raw string) *bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		v := true
		return &v
	case "0", "false", "no":
		v := false
		return &v
	default:
		return nil
	}
}

// collectPositions keeps every unrecognized non-empty column so the
// reform catalog can match position predicates by column name.
func collectPositions(header []string, row []string, cols map[string]int) map[string]string {
	recognized := map[string]bool{
		"county": true, "year": true,
		colIdeology: true, colPolicyChange: true, colPrimaryTopic: true,
		colDAName: true, colFilename: true,
		colExtensiveLenient: true, colExtensivePunitive: true,
		colIntensiveLenient: true, colIntensivePunitive: true,
	}

	var positions map[string]string
	for _, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if recognized[key] {
			continue
		}
		value := cell(row, cols, key)
		if value == "" {
			continue
		}
		if positions == nil {
			positions = make(map[string]string)
		}
		positions[key] = strings.ToLower(value)
	}
	return positions
}
