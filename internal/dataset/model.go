// Package dataset loads the coded prosecutor-policy table and the optional
// election-margin table from CSV, validating the schema up front. Optional
// columns degrade to nil field values; only the required keys are fatal.
package dataset

import "strconv"

// PolicyChange is the coded policy-change category for a document.
type PolicyChange string

// Policy change category constants, from the coding scheme.
const (
	ChangeNotAddressed PolicyChange = "not_addressed"
	ChangeUnclear      PolicyChange = "unclear"
	ChangeContinuation PolicyChange = "continuation"
	ChangeModification PolicyChange = "modification"
	ChangeNewPolicy    PolicyChange = "clearly_new_policy"
)

// KnownPolicyChanges returns the recognized category values.
func KnownPolicyChanges() []PolicyChange {
	return []PolicyChange{
		ChangeNotAddressed,
		ChangeUnclear,
		ChangeContinuation,
		ChangeModification,
		ChangeNewPolicy,
	}
}

// Document is one coded policy document. County and Year are required;
// every other field is optional and nil when the column is absent or the
// cell is empty. RowIndex is the 0-based position in ingest order and is
// the stable tie-break identity when Filename is empty.
type Document struct {
	County string
	Year   int

	RowIndex int
	Filename string

	IdeologyScore *float64
	PolicyChange  PolicyChange
	PrimaryTopic  *string
	DAName        *string

	ExtensiveLenient  *bool
	ExtensivePunitive *bool
	IntensiveLenient  *bool
	IntensivePunitive *bool

	// Position columns consumed by the novel-reform tracker.
	Positions map[string]string
}

// DocID returns the stable identity used in reform tie-breaks and
// evidence reports: the filename when present, else the ingest index.
func (d Document) DocID() string {
	if d.Filename != "" {
		return d.Filename
	}
	return "row:" + strconv.Itoa(d.RowIndex)
}

// ElectionRecord is one row of the election-margin table. County and
// ElectionYear are required; the remaining fields degrade to nil.
type ElectionRecord struct {
	County       string
	ElectionYear int

	WinnerName    *string
	WinnerPct     *float64
	RunnerUpPct   *float64
	Margin1st2nd  *float64
	Close5pp      *bool
	Close10pp     *bool
	Close15pp     *bool
	ChallengerWon *bool
}

// ReadStats counts rows dropped or coerced while loading the coded table.
type ReadStats struct {
	RowsRead               int
	RowsDroppedMissingKey  int
	UnrecognizedChangeVals int
}
